package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/cache"
	"github.com/senara-eco/senara-api/models"
)

// DELETE /api/admin/products/:id
// Hard delete. Cart lines pointing at the deleted product are healed lazily
// on the next cart read.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete product", "error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		cache.InvalidateProduct(c.Request.Context(), uint(id))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
	}
}
