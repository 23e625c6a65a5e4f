// 包 cli：离线命令行入口；与 HTTP 服务共用配置与流水线
package cli

import (
	"os"

	"agrimap/internal/config"
	"agrimap/internal/logger"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "agrimap",
		Short:        "Choropleth of simulated cereal production by governorate",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			config.LoadDotEnv()
			level := os.Getenv("LOG_LEVEL")
			if debug {
				level = "debug"
			}
			logger.Set(logger.New(os.Stderr, level, os.Getenv("LOG_FORMAT")))
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	cmd.AddCommand(buildCmd())
	return cmd
}
