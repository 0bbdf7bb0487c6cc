package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/models"
)

var (
	ErrProductNotFound = errors.New("product not found or unavailable")
	ErrItemNotFound    = errors.New("cart item not found")
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"` // Missing or invalid falls back to 1
}

type UpdateItemInput struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// CartItemView is a line item with its product detail populated.
type CartItemView struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// GetOrCreateCart returns the user's cart, creating an empty one on first use.
func GetOrCreateCart(db *gorm.DB, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return cart, err
	}
	cart = models.Cart{UserID: userID}
	if err := db.Create(&cart).Error; err != nil {
		return cart, err
	}
	return cart, nil
}

// AddItem appends a line or accumulates quantity on an existing line for the
// same product. Quantity is clamped to >= 1, never rejected.
func AddItem(db *gorm.DB, userID string, productID uint, quantity int) (models.CartItem, error) {
	quantity = clampQuantity(quantity)

	var product models.Product
	if err := db.First(&product, "id = ? AND is_active = ?", productID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, ErrProductNotFound
		}
		return models.CartItem{}, err
	}

	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return models.CartItem{}, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, err
		}
		item = models.CartItem{
			CartID:    cart.CartID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return models.CartItem{}, err
		}
		return item, nil
	}

	item.Quantity += quantity
	item.AddedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// UpdateItem sets a line's quantity, clamped to >= 1. Removal is a separate
// operation; quantity zero never deletes the line.
func UpdateItem(db *gorm.DB, userID string, itemID uint, quantity int) (models.CartItem, error) {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return models.CartItem{}, ErrItemNotFound
	}

	var item models.CartItem
	if err := db.Where("id = ? AND cart_id = ?", itemID, cart.CartID).First(&item).Error; err != nil {
		return models.CartItem{}, ErrItemNotFound
	}

	item.Quantity = clampQuantity(quantity)
	if err := db.Save(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// RemoveItem deletes a line by its sub-identity.
func RemoveItem(db *gorm.DB, userID string, itemID uint) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return ErrItemNotFound
	}

	result := db.Where("id = ? AND cart_id = ?", itemID, cart.CartID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// View returns the cart's lines with product detail populated. Lines whose
// product has been deleted are dropped and the cart is persisted back.
func View(db *gorm.DB, userID string) ([]CartItemView, error) {
	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}

	views := make([]CartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		var product models.Product
		if err := db.First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Self-heal: the product is gone, drop the line
				if err := db.Delete(&models.CartItem{}, item.ID).Error; err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}
		views = append(views, CartItemView{
			ID:        item.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  item.Quantity,
			Subtotal:  product.Price * float64(item.Quantity),
		})
	}
	return views, nil
}

// -------- Handlers --------

// GET /api/cart
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		items, err := View(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
	}
}

// POST /api/cart/add
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add item to cart", "error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
	}
}

// PUT /api/cart
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		item, err := UpdateItem(db, userID, input.ItemID, input.Quantity)
		if err != nil {
			if errors.Is(err, ErrItemNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update cart item", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
	}
}

// DELETE /api/cart/item/:itemId
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid item id"})
			return
		}

		if err := RemoveItem(db, userID, uint(itemID)); err != nil {
			if errors.Is(err, ErrItemNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove cart item", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart item removed"})
	}
}
