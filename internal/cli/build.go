package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"agrimap/internal/choropleth"
	"agrimap/internal/config"
	"agrimap/internal/geo"
	"agrimap/internal/logger"
	"agrimap/internal/pipeline"
	"agrimap/internal/region"
	"agrimap/internal/render"

	"github.com/spf13/cobra"
)

type buildFlags struct {
	input        string
	url          string
	seed         int64
	governorates []string
	jsonOut      string
	pngOut       string
	xlsxOut      string
	width        int
	height       int
}

func buildCmd() *cobra.Command {
	var f buildFlags

	c := &cobra.Command{
		Use:   "build",
		Short: "Fetch the boundaries once, build the choropleth and write the outputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("url") {
				cfg.SourceURL = f.url
			}
			if flags.Changed("seed") {
				cfg.Seed = f.seed
			}
			if flags.Changed("governorates") {
				cfg.Governorates = f.governorates
			}

			var fetcher geo.Fetcher
			if f.input != "" {
				fetcher = geo.FileFetcher{Path: f.input}
			} else {
				fetcher = geo.NewHTTPFetcher(cfg.SourceURL, &http.Client{Timeout: cfg.FetchTimeout}, cfg.MaxPayloadBytes)
			}
			opts := choropleth.DefaultOptions()
			opts.Title = cfg.Title
			pl := pipeline.New(
				geo.NewLoader(fetcher, cfg.RegionKey),
				region.NewAllowList(cfg.Governorates...),
				cfg.Seed,
				choropleth.NewBuilder(opts),
			)

			res, err := pl.Run(cmd.Context())
			if err != nil {
				return err
			}
			logger.L().Info("build_done", "run", res.ID, "retained", res.Retained, "dropped", res.Dropped, "empty", res.Spec.IsEmpty)
			return writeOutputs(cmd.OutOrStdout(), res.Spec, f)
		},
	}

	c.Flags().StringVarP(&f.input, "input", "i", "", "Read GeoJSON from a local file instead of the source URL")
	c.Flags().StringVar(&f.url, "url", "", "GeoJSON source URL (overrides GEOJSON_URL)")
	c.Flags().Int64Var(&f.seed, "seed", 42, "Synthesis seed (overrides SYNTH_SEED)")
	c.Flags().StringSliceVar(&f.governorates, "governorates", nil, "Governorate allow-list (overrides GOVERNORATES)")
	c.Flags().StringVar(&f.jsonOut, "json", "", "Write the JSON spec to this path (- for stdout)")
	c.Flags().StringVar(&f.pngOut, "png", "", "Write a PNG preview to this path")
	c.Flags().StringVar(&f.xlsxOut, "xlsx", "", "Write the attribute workbook to this path")
	c.Flags().IntVar(&f.width, "width", 1000, "PNG width in pixels")
	c.Flags().IntVar(&f.height, "height", 0, "PNG height in pixels (defaults to the layout height)")
	return c
}

// writeOutputs：未指定任何输出时 JSON 写到 stdout
func writeOutputs(stdout io.Writer, s *choropleth.Spec, f buildFlags) error {
	if f.jsonOut == "" && f.pngOut == "" && f.xlsxOut == "" {
		f.jsonOut = "-"
	}
	if f.jsonOut != "" {
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("encode spec: %w", err)
		}
		if f.jsonOut == "-" {
			_, err = stdout.Write(append(b, '\n'))
			return err
		}
		if err := os.WriteFile(f.jsonOut, b, 0o644); err != nil {
			return err
		}
	}
	if f.pngOut != "" {
		h := f.height
		if h <= 0 {
			h = s.Layout.Height
		}
		var buf bytes.Buffer
		if err := render.PNG(&buf, s, f.width, h); err != nil {
			return err
		}
		if err := os.WriteFile(f.pngOut, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	if f.xlsxOut != "" {
		var buf bytes.Buffer
		if err := render.XLSX(&buf, s); err != nil {
			return err
		}
		if err := os.WriteFile(f.xlsxOut, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}
