// 包 logger：进程级日志器的初始化与获取；级别与格式由配置决定，各模块通过 L() 取用
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

// ParseLevel：将 debug/warn/error 文本映射为 slog 级别，其余一律回退 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New：按级别与格式构建日志器，不修改默认实例
// 约束：format 仅识别 json，其余使用文本格式；w 为空时写入标准错误
func New(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("svc", "agrimap")
}

// Setup：以 LOG_LEVEL / LOG_FORMAT 初始化默认日志器并返回
func Setup() *slog.Logger {
	l := New(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	current.Store(l)
	return l
}

// Set：替换默认日志器（测试注入丢弃型日志器时使用）
func Set(l *slog.Logger) {
	if l != nil {
		current.Store(l)
	}
}

// L：获取默认日志器；未初始化时按环境变量懒加载
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return Setup()
}
