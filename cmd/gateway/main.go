// API Gatewayサービスのエントリポイント。
// Trade.xyzフロントエンド向けに、Hyperliquid info APIへのプロキシを提供する。
// 状態を持たず、リクエストごとにアップストリームを1回だけ呼び出す。
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"github.com/nao1215/tradexyz/internal/config"
	"github.com/nao1215/tradexyz/internal/gateway"
	"github.com/nao1215/tradexyz/pkg/logging"
	"github.com/nao1215/tradexyz/pkg/metrics"
)

func main() {
	os.Exit(run())
}

// run はサービスを起動し、終了コードを返す。
func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			fmt.Fprintln(os.Stdout, err)
			return 0
		}
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, logging.Format(cfg.LogFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ロガーの初期化に失敗: %v\n", err)
		return 1
	}
	defer logging.AtExit(logger)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := gateway.NewServer(cfg, logger, metrics.New())
	if err := server.Run(ctx); err != nil {
		logger.Error("Gatewayサービスの実行に失敗", zap.Error(err))
		return 1
	}
	return 0
}
