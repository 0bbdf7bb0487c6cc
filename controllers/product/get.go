package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/cache"
	"github.com/senara-eco/senara-api/models"
)

// GET /api/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		ctx := c.Request.Context()
		if cached := cache.GetProduct(ctx, uint(id)); cached != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "product": cached})
			return
		}

		var product models.Product
		if err := db.Preload("Reviews").First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch product", "error": err.Error()})
			return
		}

		cache.SetProduct(ctx, &product)
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}
