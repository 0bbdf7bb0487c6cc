package productControllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/models"
)

// GET /api/products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		category := c.Query("category")
		certification := c.Query("certification")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortBy := c.DefaultQuery("sort_by", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}
		switch sortBy {
		case "created_at", "price", "name", "stock":
		default:
			sortBy = "created_at"
		}

		query := db.Model(&models.Product{}).Where("is_active = ?", true)

		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where("name ILIKE ? OR description ILIKE ?", likePattern, likePattern)
		}

		if category != "" {
			if !models.ValidCategory(models.Category(category)) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category"})
				return
			}
			query = query.Where("category = ?", category)
		}
		if certification != "" {
			if !models.ValidCertification(models.Certification(certification)) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid certification"})
				return
			}
			query = query.Where("certification = ?", certification)
		}

		if minPriceStr != "" {
			if mp, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
				query = query.Where("price >= ?", mp)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid min_price"})
				return
			}
		}
		if maxPriceStr != "" {
			if mp, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
				query = query.Where("price <= ?", mp)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid max_price"})
				return
			}
		}

		orderClause := fmt.Sprintf("%s %s", sortBy, sortOrder)
		var products []models.Product
		if err := query.Order(orderClause).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}
