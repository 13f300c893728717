package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// AllowAllOrigins はすべてのオリジンを許可することを表す。
const AllowAllOrigins = "*"

// CORS は指定されたオリジンからのクロスオリジンリクエストを許可するGinミドルウェアを返す。
// allowedOriginsが空、または "*" を含む場合はすべてのオリジンを許可する。
// プリフライトリクエストは204で応答し、後続のハンドラは実行しない。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}
	if allowsAll(allowedOrigins) {
		opts.AllowedOrigins = []string{AllowAllOrigins}
	} else {
		opts.AllowOriginFunc = allowedOrigin(allowedOrigins)
	}
	handler := cors.New(opts)

	return func(c *gin.Context) {
		handler.HandlerFunc(c.Writer, c.Request)

		if isPreflight(c.Request) {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// allowsAll はすべてのオリジンを許可する設定かどうかを返す。
func allowsAll(allowedOrigins []string) bool {
	if len(allowedOrigins) == 0 {
		return true
	}
	for _, o := range allowedOrigins {
		if o == AllowAllOrigins {
			return true
		}
	}
	return false
}

// allowedOrigin はオリジンが許可リストに含まれるかを判定する関数を返す。
// スキームの違い（http/https）は無視して比較する。
func allowedOrigin(allowedOrigins []string) func(origin string) bool {
	trimScheme := func(origin string) string {
		return strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	}
	originsSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[trimScheme(o)] = struct{}{}
	}
	return func(origin string) bool {
		_, ok := originsSet[trimScheme(origin)]
		return ok
	}
}

// isPreflight はリクエストがCORSのプリフライトリクエストかどうかを返す。
func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}
