package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format はログの出力形式を表す。
type Format string

const (
	// FormatJSON は1行1JSONの本番向け出力形式。
	FormatJSON Format = "json"
	// FormatConsole は人間が読みやすい開発向け出力形式。
	FormatConsole Format = "console"
)

// New は指定されたログレベルと出力形式でzapロガーを生成する。
// levelには "debug", "info", "warn", "error" のいずれかを指定する。
func New(level string, format Format) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("ログレベルの解析に失敗: %w", err)
	}

	var cfg zap.Config
	switch format {
	case FormatJSON, "":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("未対応のログ形式: %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("ロガーの生成に失敗: %w", err)
	}
	return logger, nil
}

// AtExit はバッファされたログを書き出す。main で defer して使う。
func AtExit(logger *zap.Logger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
