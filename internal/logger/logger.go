package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config содержит настройки логгера.
type Config struct {
	Level    string // debug, info, warn, error
	Encoding string // json или console
	Output   string // пути через запятую: stdout, stderr или файлы; пусто = stdout
}

// New собирает zap.Logger по конфигурации. Некорректный уровень не фатален:
// пишем предупреждение в stderr и работаем на info.
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if lvl := strings.ToLower(strings.TrimSpace(cfg.Level)); lvl != "" {
		if err := level.UnmarshalText([]byte(lvl)); err != nil {
			fmt.Fprintf(os.Stderr, "invalid log level %q, falling back to info: %v\n", cfg.Level, err)
			level.SetLevel(zap.InfoLevel)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	zapCfg := zap.Config{
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          normalizeEncoding(cfg.Encoding),
		EncoderConfig:     encoderCfg,
		OutputPaths:       outputPaths(cfg.Output),
		ErrorOutputPaths:  []string{"stderr"},
	}

	l, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

func normalizeEncoding(enc string) string {
	switch e := strings.ToLower(strings.TrimSpace(enc)); e {
	case "console", "json":
		return e
	default:
		return "json"
	}
}

// outputPaths разбирает LOG_OUTPUT. Дубликаты и пустые элементы отбрасываются.
func outputPaths(raw string) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return []string{"stdout"}
	}
	return paths
}
