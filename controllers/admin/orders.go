package adminControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/events"
	"github.com/senara-eco/senara-api/models"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrCancelDelivered   = errors.New("Cannot cancel a delivered order.")
	ErrCustomerCancelled = errors.New("Cannot change an order that was cancelled by the customer.")
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Core Logic --------

// ApplyStatus applies an admin-driven transition. Legality is decided against
// the persisted (status, cancelledBy) pair, never the two fields in
// isolation:
//   - a delivered order can never become cancelled
//   - an order the customer cancelled is frozen for admins entirely
//   - every other transition is allowed, including re-opening an
//     admin-cancelled order
//
// Attribution is recomputed on every transition: moving to cancelled claims
// it for the admin, moving anywhere else clears it.
func ApplyStatus(db *gorm.DB, orderID uint, requested models.OrderStatus) (models.Order, error) {
	if !models.ValidOrderStatus(requested) {
		return models.Order{}, ErrInvalidStatus
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}

	if order.Status == models.OrderStatusDelivered && requested == models.OrderStatusCancelled {
		return models.Order{}, ErrCancelDelivered
	}
	if order.Status == models.OrderStatusCancelled && order.CancelledBy == models.CancelledByUser {
		return models.Order{}, ErrCustomerCancelled
	}

	cancelledBy := models.CancelledByNone
	if requested == models.OrderStatusCancelled {
		cancelledBy = models.CancelledByAdmin
	}

	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":       requested,
			"cancelled_by": cancelledBy,
		}).Error; err != nil {
		return models.Order{}, err
	}

	order.Status = requested
	order.CancelledBy = cancelledBy

	events.PublishOrderEvent(events.OrderStatusChanged, order)
	return order, nil
}

// -------- Handlers --------

// GET /api/admin/orders?status=&page=&limit=
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 || limit > 100 {
			limit = 20
		}

		query := db.Model(&models.Order{})
		if status := c.Query("status"); status != "" {
			if !models.ValidOrderStatus(models.OrderStatus(status)) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": ErrInvalidStatus.Error()})
				return
			}
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count orders", "error": err.Error()})
			return
		}

		var orders []models.Order
		if err := query.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  orders,
			"page":    page,
			"limit":   limit,
			"total":   total,
		})
	}
}

// GET /api/admin/orders/:id
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": ErrOrderNotFound.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

// PATCH /api/admin/orders/:id/status
func UpdateStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		order, err := ApplyStatus(db, uint(orderID), models.OrderStatus(req.Status))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated", "order": order})
	}
}
