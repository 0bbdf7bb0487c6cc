package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/senara-eco/senara-api/controllers/cart"
	"github.com/senara-eco/senara-api/middleware"
)

// SetupCartRoutes registers the per-user shopping cart. All routes require a JWT.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cart := api.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCartHandler(db))
		// POST /api/cart lazily creates the cart and returns it
		cart.POST("", func(c *gin.Context) {
			userID := c.GetString("user_id")
			created, err := cartControllers.GetOrCreateCart(db, userID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "cart": created})
		})
		cart.POST("/add", cartControllers.AddItemHandler(db))
		cart.PUT("", cartControllers.UpdateItemHandler(db))
		cart.DELETE("/item/:itemId", cartControllers.RemoveItemHandler(db))
	}
}
