package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zhasqoldau/internal/handlers"
	"zhasqoldau/internal/middleware"
	"zhasqoldau/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	throttle *middleware.Throttle,
	tokens *services.TokenService,
	authHandler *handlers.AuthHandler,
	registerHandler *handlers.RegisterHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public (под общим лимитом; отправка кода — под жёстким)
	auth := r.Group("/auth", throttle.Limit(middleware.RouteDefault))
	{
		auth.POST("/otp/send", throttle.Limit(middleware.RouteOtpSend), authHandler.SendOtp)
		auth.POST("/otp/verify", authHandler.VerifyOtp)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/register", registerHandler.Register)
	}

	// ---- protected
	me := r.Group("/auth", middleware.AuthMiddleware(tokens))
	{
		me.GET("/me", authHandler.Me)
	}

	return r
}
