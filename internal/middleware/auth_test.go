package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zhasqoldau/internal/models"
	"zhasqoldau/internal/services"
)

func newProtectedRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		iin, _ := c.Get("iin")
		c.JSON(http.StatusOK, gin.H{"iin": iin})
	})
	return r
}

func doProtected(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	tokens := services.NewTokenService("a", "r", time.Minute, time.Hour)
	r := newProtectedRouter(tokens)

	w := doProtected(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	tokens := services.NewTokenService("a", "r", time.Minute, time.Hour)
	r := newProtectedRouter(tokens)

	for _, h := range []string{"Token abc", "Bearer", "Bearer   "} {
		w := doProtected(r, h)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", h)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	tokens := services.NewTokenService("a", "r", time.Minute, time.Hour)
	r := newProtectedRouter(tokens)

	w := doProtected(r, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	issuer := services.NewTokenService("other-secret", "r", time.Minute, time.Hour)
	pair, err := issuer.Issue(&models.User{ID: 1, IIN: "990101350123"})
	require.NoError(t, err)

	tokens := services.NewTokenService("a", "r", time.Minute, time.Hour)
	r := newProtectedRouter(tokens)

	w := doProtected(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tokens := services.NewTokenService("a", "r", time.Minute, time.Hour)
	pair, err := tokens.Issue(&models.User{ID: 1, IIN: "990101350123"})
	require.NoError(t, err)

	r := newProtectedRouter(tokens)
	w := doProtected(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "990101350123")
}
