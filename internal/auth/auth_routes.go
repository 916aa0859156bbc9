package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clubhub-app/clubhub/config"
	"github.com/clubhub-app/clubhub/internal/middleware"
)

func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	authRepo := NewAuthRepository(db)
	authController := NewAuthController(authRepo, db, appConfig)

	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register", authController.Register)
		authPublic.POST("/otp/request", authController.RequestOTP)
		authPublic.POST("/otp/verify", authController.VerifyOTP)
		// Refresh and logout authenticate via the refresh token itself.
		authPublic.POST("/refresh", authController.RefreshToken)
		authPublic.POST("/logout", authController.Logout)
	}

	me := router.Group("/me")
	me.Use(middleware.AuthMiddleware(db, appConfig.JWT.Secret))
	{
		me.GET("", authController.GetProfile)
		me.PATCH("", authController.UpdateProfile)
	}
}
