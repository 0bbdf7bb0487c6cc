package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authControllers "github.com/senara-eco/senara-api/controllers/auth"
	"github.com/senara-eco/senara-api/middleware"
)

// SetupAuthRoutes registers registration/login (public) and profile (JWT).
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authControllers.Register(db))
		authGroup.POST("/login", authControllers.Login(db))

		me := authGroup.Group("/me")
		me.Use(middleware.ValidateToken)
		{
			me.GET("", authControllers.GetProfile(db))
			me.PUT("", authControllers.UpdateProfile(db))
		}
	}
}
