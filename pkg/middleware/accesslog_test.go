package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestAccessLog はAccessLogミドルウェアを検証する。
func TestAccessLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{name: "2xxはinfoで出力されること", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "4xxはwarnで出力されること", status: http.StatusBadRequest, wantLevel: zapcore.WarnLevel},
		{name: "5xxはerrorで出力されること", status: http.StatusInternalServerError, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(RequestID())
			router.Use(AccessLog(zap.New(core)))
			router.GET("/api/meta", func(c *gin.Context) {
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/meta?x=1", nil)
			req.Header.Set(HeaderKeyRequestID, "log-id")
			router.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("ログの件数 = %d, want 1", len(entries))
			}
			entry := entries[0]
			if entry.Level != tt.wantLevel {
				t.Errorf("Level = %v, want %v", entry.Level, tt.wantLevel)
			}

			fields := entry.ContextMap()
			if fields["path"] != "/api/meta" {
				t.Errorf("path = %v, want %q", fields["path"], "/api/meta")
			}
			if fields["query"] != "x=1" {
				t.Errorf("query = %v, want %q", fields["query"], "x=1")
			}
			if fields["status"] != int64(tt.status) {
				t.Errorf("status = %v, want %d", fields["status"], tt.status)
			}
			if fields["request_id"] != "log-id" {
				t.Errorf("request_id = %v, want %q", fields["request_id"], "log-id")
			}
		})
	}
}
