package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"github.com/nao1215/tradexyz/internal/config"
	"github.com/nao1215/tradexyz/pkg/httpclient"
	"github.com/nao1215/tradexyz/pkg/metrics"
	"github.com/nao1215/tradexyz/pkg/middleware"
)

// readHeaderTimeout はリクエストヘッダーの読み取りに許す時間。
const readHeaderTimeout = 10 * time.Second

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// addr はサーバーのリッスンアドレス。
	addr string
	// info はHyperliquid info APIのクライアント。
	info InfoClient
	// logger はGatewayのロガー。
	logger *zap.Logger
	// metrics はPrometheusメトリクス。
	metrics *metrics.Metrics
	// shutdownTimeout はグレースフルシャットダウンの猶予時間。
	shutdownTimeout time.Duration
}

// NewServer は設定から新しいGatewayサーバーを生成する。
func NewServer(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Server {
	info := httpclient.New(cfg.UpstreamURL,
		httpclient.WithTimeout(cfg.UpstreamTimeout),
		httpclient.WithLogger(logger.Named("httpclient")),
	)

	s := newServer(info, logger, m, cfg.AllowedOrigins)
	s.addr = cfg.Addr()
	s.shutdownTimeout = cfg.ShutdownTimeout
	return s
}

// newServer はinfo APIクライアントを指定してGatewayサーバーを生成する。
func newServer(info InfoClient, logger *zap.Logger, m *metrics.Metrics, allowedOrigins []string) *Server {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Named("http")))
	router.Use(m.Middleware())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(allowedOrigins))

	s := &Server{
		router:          router,
		info:            info,
		logger:          logger.Named("gateway"),
		metrics:         m,
		shutdownTimeout: 10 * time.Second,
	}
	s.setupRoutes()

	return s
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるまでリクエストを処理する。
// キャンセル後は処理中のリクエストの完了を待ってから終了する。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("Gatewayサービスを起動しました", zap.String("addr", s.addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Gatewayサービスを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	return nil
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex())
	s.router.GET("/health", s.handleHealth())
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Hyperliquid info APIへのプロキシ
	for _, r := range infoRoutes {
		s.router.GET(r.path, s.handleInfo(r.build))
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// handleIndex はサービスの概要と利用可能なエンドポイントを返すハンドラを返す。
func (s *Server) handleIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trade.xyz Backend API",
			"endpoints": gin.H{
				"meta":    "/api/meta",
				"prices":  "/api/prices",
				"user":    "/api/user/:address",
				"fills":   "/api/fills/:address",
				"candles": "/api/candles/:coin",
				"health":  "/health",
			},
		})
	}
}

// handleHealth はヘルスチェックのハンドラを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// handleInfo はinfo APIを1回だけ呼び出し、レスポンスをそのまま返すハンドラを返す。
func (s *Server) handleInfo(build requestBuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := build(c)
		if err != nil {
			s.respondError(c, req, err)
			return
		}

		var payload json.RawMessage
		start := time.Now()
		err = s.info.PostJSON(c.Request.Context(), infoPath, req, &payload)
		s.metrics.ObserveUpstream(string(req.Type), err, time.Since(start))
		if err != nil {
			s.respondError(c, req, err)
			return
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
	}
}

// respondError はエラーをJSONのエラーレスポンス {"error": "..."} に変換して返す。
// アドレスの形式エラーは400、それ以外はすべて500とする。
func (s *Server) respondError(c *gin.Context, req InfoRequest, err error) {
	_ = c.Error(err)

	if errors.Is(err, errInvalidAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidAddressMessage})
		return
	}

	s.logger.Error("リクエストの処理に失敗",
		zap.String("route", c.FullPath()),
		zap.String("type", string(req.Type)),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
