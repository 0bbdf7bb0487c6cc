package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/senara-eco/senara-api/controllers/payment"
	"github.com/senara-eco/senara-api/middleware"
)

// SetupPaymentRoutes registers payment processing and lookup.
func SetupPaymentRoutes(api *gin.RouterGroup, db *gorm.DB) {
	payments := api.Group("/payments")
	payments.Use(middleware.ValidateToken)
	{
		payments.POST("/process-card", paymentControllers.ProcessCardHandler(db))
		payments.POST("/process-cod", paymentControllers.ProcessCODHandler(db))
		payments.GET("/order/:orderId", paymentControllers.GetPaymentByOrderHandler(db))
		payments.GET("/:paymentId", paymentControllers.GetPaymentHandler(db))
		payments.POST("/:paymentId/refund", paymentControllers.RefundHandler(db))
	}
}
