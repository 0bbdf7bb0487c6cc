package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	reviewControllers "github.com/senara-eco/senara-api/controllers/review"
	"github.com/senara-eco/senara-api/middleware"
)

// SetupReviewRoutes registers the review ledger under the /senara prefix.
func SetupReviewRoutes(api *gin.RouterGroup, db *gorm.DB) {
	reviews := api.Group("/senara/reviews")
	reviews.Use(middleware.ValidateToken)
	{
		reviews.GET("/my-reviews", reviewControllers.MyReviewsHandler(db))
		reviews.GET("/check/:productId", reviewControllers.CheckCanReviewHandler(db))
		reviews.GET("/product/:productId", reviewControllers.ProductReviewsHandler(db))
		reviews.POST("", reviewControllers.AddReviewHandler(db))
		reviews.GET("/:id", reviewControllers.GetReviewHandler(db))
		reviews.PATCH("/:id", reviewControllers.UpdateReviewHandler(db))
		reviews.DELETE("/:id", reviewControllers.DeleteReviewHandler(db))

		admin := reviews.Group("")
		admin.Use(middleware.RequireAdmin)
		{
			admin.GET("", reviewControllers.AdminListReviewsHandler(db))
			admin.DELETE("/admin/:id", reviewControllers.AdminDeleteReviewHandler(db))
		}
	}
}
