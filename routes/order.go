package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/senara-eco/senara-api/controllers/order"
	"github.com/senara-eco/senara-api/middleware"
)

// SetupOrderRoutes registers the customer-side order lifecycle.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB) {
	orders := api.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		orders.POST("", orderControllers.PlaceOrderHandler(db))
		orders.GET("/my-orders", orderControllers.GetMyOrdersHandler(db))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(db))
		orders.PATCH("/:id/cancel", orderControllers.CancelOrderHandler(db))
	}
}
