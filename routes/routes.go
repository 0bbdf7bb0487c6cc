package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/middleware"
)

// SetupRoutes is the single entry-point that wires up all route groups under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	api := r.Group("/api")
	api.Use(middleware.RequestLogger())
	api.Use(middleware.RateLimit(rate.Limit(20), 40))

	SetupAuthRoutes(api, db)
	SetupProductRoutes(api, db)
	SetupCartRoutes(api, db)
	SetupOrderRoutes(api, db)
	SetupPaymentRoutes(api, db)
	SetupReviewRoutes(api, db)
	SetupAdminRoutes(api, db)
}
