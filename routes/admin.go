package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminControllers "github.com/senara-eco/senara-api/controllers/admin"
	productControllers "github.com/senara-eco/senara-api/controllers/product"
	"github.com/senara-eco/senara-api/events"
	"github.com/senara-eco/senara-api/middleware"
)

// SetupAdminRoutes registers the backoffice. Requires a JWT with the admin role.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		orders := adminGroup.Group("/orders")
		{
			orders.GET("", adminControllers.ListOrdersHandler(db))
			orders.GET("/export", adminControllers.ExportOrdersToExcel(db))
			orders.GET("/ws", events.OrderFeedHandler)
			orders.GET("/:id", adminControllers.GetOrderHandler(db))
			orders.PATCH("/:id/status", adminControllers.UpdateStatusHandler(db))
		}

		products := adminGroup.Group("/products")
		{
			products.POST("", productControllers.CreateProduct(db))
			products.PUT("/:id", productControllers.UpdateProduct(db))
			products.DELETE("/:id", productControllers.DeleteProduct(db))
		}
	}
}
