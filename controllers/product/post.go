package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/models"
)

type ProductInput struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required"`
	Stock         int     `json:"stock"`
	Category      string  `json:"category" binding:"required"`
	Certification string  `json:"certification"`
	Image         string  `json:"image"`
	IsActive      *bool   `json:"is_active"`
}

func validateProductInput(input ProductInput) (models.Product, string) {
	if input.Price <= 0 {
		return models.Product{}, "price must be greater than zero"
	}
	if input.Stock < 0 {
		return models.Product{}, "stock cannot be negative"
	}
	if !models.ValidCategory(models.Category(input.Category)) {
		return models.Product{}, "invalid category"
	}
	certification := models.Certification(input.Certification)
	if input.Certification == "" {
		certification = models.CertificationNone
	} else if !models.ValidCertification(certification) {
		return models.Product{}, "invalid certification"
	}

	product := models.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Stock:         input.Stock,
		Category:      models.Category(input.Category),
		Certification: certification,
		Image:         input.Image,
		IsActive:      true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return product, ""
}

// POST /api/admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		product, msg := validateProductInput(input)
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
			return
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product", "error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
	}
}
