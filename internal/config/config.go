package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// ErrHelp はヘルプ表示が要求されたことを表す。
var ErrHelp = errors.New("ヘルプが要求されました")

// Config はGatewayサービスの設定。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string `long:"port" env:"PORT" default:"8080" description:"Port the HTTP server listens on"`
	// Host はサーバーのリッスンアドレス。
	Host string `long:"host" env:"HOST" default:"0.0.0.0" description:"Address the HTTP server binds to"`
	// UpstreamURL はHyperliquid APIのベースURL。
	UpstreamURL string `long:"upstream-url" env:"HYPERLIQUID_API_URL" default:"https://api.hyperliquid.xyz" description:"Base URL of the Hyperliquid API"`
	// UpstreamTimeout はアップストリーム呼び出し1回あたりのタイムアウト。
	UpstreamTimeout time.Duration `long:"upstream-timeout" env:"UPSTREAM_TIMEOUT" default:"10s" description:"Timeout of a single upstream call"`
	// AllowedOrigins はCORSで許可するオリジン。"*" はすべてのオリジンを許可する。
	AllowedOrigins []string `long:"allowed-origins" env:"CORS_ALLOWED_ORIGINS" env-delim:"," default:"*" description:"Origins allowed by CORS"`
	// LogLevel はログレベル。
	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	// LogFormat はログの出力形式。
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"json" choice:"json" choice:"console" description:"Log output format"`
	// ShutdownTimeout はグレースフルシャットダウンの猶予時間。
	ShutdownTimeout time.Duration `long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"10s" description:"Grace period for in-flight requests on shutdown"`
}

// Load はコマンドライン引数と環境変数から設定を読み込み、検証する。
// argsにはプログラム名を除いた引数を渡す。
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, fmt.Errorf("%w\n%s", ErrHelp, flagsErr.Message)
		}
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr はサーバーがリッスンするアドレスを "host:port" 形式で返す。
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// normalize はカンマ区切りで与えられたオリジンの前後の空白を取り除き、空の要素を捨てる。
func (c *Config) normalize() {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
}

// validate は設定値の整合性を検証する。
// ログレベルと形式はchoiceタグでgo-flagsが検証する。
func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("不正なポート番号: %q", c.Port)
	}

	u, err := url.ParseRequestURI(c.UpstreamURL)
	if err != nil {
		return fmt.Errorf("不正なアップストリームURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("アップストリームURLのスキームはhttpまたはhttpsである必要があります: %q", c.UpstreamURL)
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("アップストリームのタイムアウトは正の値である必要があります: %s", c.UpstreamTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("シャットダウンのタイムアウトは正の値である必要があります: %s", c.ShutdownTimeout)
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("CORSの許可オリジンが空です")
	}
	return nil
}
