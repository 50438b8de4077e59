package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zhasqoldau/internal/httperr"
	"zhasqoldau/internal/services"
)

// AuthMiddleware — bearer-доступ: отсутствующий/кривой заголовок и
// невалидный токен различаются кодами (UNAUTHORIZED vs INVALID_TOKEN).
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// пропускаем preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			httperr.Abort(c, httperr.New(http.StatusUnauthorized, httperr.CodeUnauthorized, "Missing or invalid Authorization header"))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, httperr.New(http.StatusUnauthorized, httperr.CodeUnauthorized, "Missing or invalid Authorization header"))
			return
		}
		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			httperr.Abort(c, httperr.New(http.StatusUnauthorized, httperr.CodeUnauthorized, "Missing or invalid Authorization header"))
			return
		}

		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			httperr.Abort(c, httperr.New(http.StatusUnauthorized, httperr.CodeInvalidToken, "Invalid or expired token"))
			return
		}

		// прокидываем личность в контекст
		c.Set("user_id", claims.UserID)
		c.Set("iin", claims.IIN)

		c.Next()
	}
}
