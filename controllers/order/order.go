package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/cache"
	"github.com/senara-eco/senara-api/events"
	"github.com/senara-eco/senara-api/models"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress string             `json:"shipping_address"`
	Phone           string             `json:"phone"`
	Notes           string             `json:"notes"`
	ShippingLat     float64            `json:"shipping_lat"`
	ShippingLng     float64            `json:"shipping_lng"`
}

// Generate unique order reference
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// PlaceOrder creates a pending order from an explicit item list, snapshotting
// the current catalog price per line, reserving stock, and clearing the
// user's cart. Everything runs in one transaction: if any line oversells, no
// stock moves and no order exists.
func PlaceOrder(db *gorm.DB, userID string, req PlaceOrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errors.New("order must contain at least one item")
	}
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.ShippingAddress == "" {
		return models.Order{}, errors.New("shipping address is required")
	}
	if req.Phone == "" {
		return models.Order{}, errors.New("phone is required")
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return models.Order{}, fmt.Errorf("quantity for product %d must be at least 1", line.ProductID)
		}
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var total float64
		var orderItems []models.OrderItem

		for _, line := range req.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d not found", line.ProductID)
				}
				return err
			}

			if product.Stock < line.Quantity {
				return fmt.Errorf("insufficient stock for %s: only %d available", product.Name, product.Stock)
			}

			// Reserve stock. The condition repeats the check inside the UPDATE
			// so a concurrent order cannot drive stock negative; losing the
			// race aborts the whole transaction.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", product.ID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("insufficient stock for %s: only %d available", product.Name, product.Stock)
			}

			total += product.Price * float64(line.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:     product.ID,
				ProductName:   product.Name,
				ProductImage:  product.Image,
				PriceSnapshot: product.Price,
				Quantity:      line.Quantity,
			})
		}

		order = models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          userID,
			Items:           orderItems,
			Total:           total,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.OrderPaymentPending,
			ShippingAddress: req.ShippingAddress,
			Phone:           req.Phone,
			Notes:           req.Notes,
			ShippingLat:     req.ShippingLat,
			ShippingLng:     req.ShippingLng,
			CreatedAt:       time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clear the user's cart; the cart row itself persists
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	ctx := context.Background()
	for _, item := range order.Items {
		cache.InvalidateProduct(ctx, item.ProductID)
	}
	events.PublishOrderEvent(events.OrderCreated, order)
	return order, nil
}

// CancelOrder is the customer-side cancellation. Only pending or processing
// orders qualify; stock reserved at placement is restored line by line, in
// the same transaction that flips the status.
func CancelOrder(db *gorm.DB, userID string, orderID uint) (models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusProcessing {
		return models.Order{}, fmt.Errorf("cannot cancel an order in status %s", order.Status)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":       models.OrderStatusCancelled,
				"cancelled_by": models.CancelledByUser,
			}).Error; err != nil {
			return err
		}

		// Restore the reservation, mirroring the decrement loop exactly
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	order.Status = models.OrderStatusCancelled
	order.CancelledBy = models.CancelledByUser

	ctx := context.Background()
	for _, item := range order.Items {
		cache.InvalidateProduct(ctx, item.ProductID)
	}
	events.PublishOrderEvent(events.OrderCancelled, order)
	return order, nil
}

// -------- Handlers --------

// POST /api/orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		order, err := PlaceOrder(db, userID, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Order placed successfully", "order": order})
	}
}

// GET /api/orders/my-orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GET /api/orders/:id
// An order that exists but belongs to someone else is reported as not found,
// so order IDs cannot be probed.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		var order models.Order
		if err := db.
			Preload("Items").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

// PATCH /api/orders/:id/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		order, err := CancelOrder(db, userID, uint(orderID))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled", "order": order})
	}
}
