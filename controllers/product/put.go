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

// PUT /api/admin/products/:id
// Catalog edits never touch already-placed orders: their line items carry
// their own price snapshots.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch product", "error": err.Error()})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		updated, msg := validateProductInput(input)
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
			return
		}

		updated.ID = product.ID
		updated.CreatedAt = product.CreatedAt
		if err := db.Save(&updated).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product", "error": err.Error()})
			return
		}

		cache.InvalidateProduct(c.Request.Context(), updated.ID)
		c.JSON(http.StatusOK, gin.H{"success": true, "product": updated})
	}
}
