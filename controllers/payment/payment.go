package paymentControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/models"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrAlreadyPaid     = errors.New("payment already completed for this order")
	ErrNotRefundable   = errors.New("only completed payments can be refunded")
	ErrCardDeclined    = errors.New("card declined")
)

type ProcessCardRequest struct {
	OrderID        uint   `json:"order_id" binding:"required"`
	CardNumber     string `json:"card_number" binding:"required"`
	ExpiryMonth    int    `json:"expiry_month" binding:"required"`
	ExpiryYear     int    `json:"expiry_year" binding:"required"`
	CVV            string `json:"cvv" binding:"required"`
	CardholderName string `json:"cardholder_name" binding:"required"`
}

type ProcessCODRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// -------- Core Logic --------

func loadOwnOrder(db *gorm.DB, userID string, orderID uint) (models.Order, error) {
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

// guardNotPaid rejects re-payment once a completed payment exists.
func guardNotPaid(db *gorm.DB, orderID uint) error {
	var existing models.Payment
	err := db.Where("order_id = ?", orderID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.Status == models.PaymentStatusCompleted {
		return ErrAlreadyPaid
	}
	return nil
}

// upsertPayment writes the attempt in place: one payment row per order, the
// latest attempt wins.
func upsertPayment(tx *gorm.DB, payment models.Payment) (models.Payment, error) {
	var existing models.Payment
	err := tx.Where("order_id = ?", payment.OrderID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Payment{}, err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return models.Payment{}, err
		}
		return payment, nil
	}

	payment.ID = existing.ID
	payment.CreatedAt = existing.CreatedAt
	if err := tx.Save(&payment).Error; err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

// ProcessCard validates the card, runs the simulated gateway, and records the
// outcome on both the payment row and the order. A declined card still
// persists a failed attempt with its transaction id.
func ProcessCard(db *gorm.DB, userID string, req ProcessCardRequest) (models.Payment, error) {
	order, err := loadOwnOrder(db, userID, req.OrderID)
	if err != nil {
		return models.Payment{}, err
	}

	number, err := normalizeCardNumber(req.CardNumber)
	if err != nil {
		return models.Payment{}, err
	}
	if err := validateExpiry(req.ExpiryMonth, req.ExpiryYear, time.Now()); err != nil {
		return models.Payment{}, err
	}
	if err := validateCVV(req.CVV); err != nil {
		return models.Payment{}, err
	}

	if err := guardNotPaid(db, order.ID); err != nil {
		return models.Payment{}, err
	}

	payment := models.Payment{
		OrderID:        order.ID,
		UserID:         userID,
		Amount:         order.Total,
		PaymentMethod:  models.PaymentMethodCard,
		TransactionID:  "TXN-" + uuid.NewString(),
		CardBrand:      cardBrand(number),
		Last4Digits:    number[len(number)-4:],
		CardholderName: req.CardholderName,
		PaymentDate:    time.Now(),
	}

	approved := Approve()
	if approved {
		payment.Status = models.PaymentStatusCompleted
	} else {
		payment.Status = models.PaymentStatusFailed
		payment.FailureReason = randomDeclineReason()
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		saved, err := upsertPayment(tx, payment)
		if err != nil {
			return err
		}
		payment = saved

		orderUpdate := map[string]interface{}{"payment_status": models.OrderPaymentFailed}
		if approved {
			orderUpdate["payment_status"] = models.OrderPaymentCompleted
			orderUpdate["payment_id"] = payment.ID
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(orderUpdate).Error
	})
	if err != nil {
		return models.Payment{}, err
	}

	if !approved {
		return payment, ErrCardDeclined
	}
	return payment, nil
}

// ProcessCOD records a cash-on-delivery payment; it always succeeds.
func ProcessCOD(db *gorm.DB, userID string, orderID uint) (models.Payment, error) {
	order, err := loadOwnOrder(db, userID, orderID)
	if err != nil {
		return models.Payment{}, err
	}
	if err := guardNotPaid(db, order.ID); err != nil {
		return models.Payment{}, err
	}

	payment := models.Payment{
		OrderID:       order.ID,
		UserID:        userID,
		Amount:        order.Total,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        models.PaymentStatusCompleted,
		TransactionID: "TXN-" + uuid.NewString(),
		PaymentDate:   time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		saved, err := upsertPayment(tx, payment)
		if err != nil {
			return err
		}
		payment = saved
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"payment_status": models.OrderPaymentCompleted,
				"payment_id":     payment.ID,
			}).Error
	})
	if err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

// Refund voids a completed payment. The order's payment status moves to the
// dedicated refunded state rather than being folded into failed.
func Refund(db *gorm.DB, userID string, paymentID uint) (models.Payment, error) {
	var payment models.Payment
	if err := db.Where("id = ? AND user_id = ?", paymentID, userID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Payment{}, ErrPaymentNotFound
		}
		return models.Payment{}, err
	}

	if payment.Status != models.PaymentStatusCompleted {
		return models.Payment{}, ErrNotRefundable
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).
			Update("status", models.PaymentStatusCancelled).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).
			Update("payment_status", models.OrderPaymentRefunded).Error
	})
	if err != nil {
		return models.Payment{}, err
	}

	payment.Status = models.PaymentStatusCancelled
	return payment, nil
}

// -------- Handlers --------

// POST /api/payments/process-card
func ProcessCardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req ProcessCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		payment, err := ProcessCard(db, userID, req)
		if err != nil {
			switch {
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			case errors.Is(err, ErrCardDeclined):
				c.JSON(http.StatusBadRequest, gin.H{
					"success":        false,
					"message":        "Payment failed: " + payment.FailureReason,
					"transaction_id": payment.TransactionID,
				})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment completed", "payment": payment})
	}
}

// POST /api/payments/process-cod
func ProcessCODHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req ProcessCODRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		payment, err := ProcessCOD(db, userID, req.OrderID)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cash on delivery confirmed", "payment": payment})
	}
}

// GET /api/payments/:paymentId
func GetPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		paymentID, err := strconv.ParseUint(c.Param("paymentId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment id"})
			return
		}

		var payment models.Payment
		if err := db.Where("id = ? AND user_id = ?", paymentID, userID).First(&payment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": ErrPaymentNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
	}
}

// GET /api/payments/order/:orderId
func GetPaymentByOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		var payment models.Payment
		if err := db.Where("order_id = ? AND user_id = ?", orderID, userID).First(&payment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": ErrPaymentNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
	}
}

// POST /api/payments/:paymentId/refund
func RefundHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		paymentID, err := strconv.ParseUint(c.Param("paymentId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment id"})
			return
		}

		payment, err := Refund(db, userID, uint(paymentID))
		if err != nil {
			if errors.Is(err, ErrPaymentNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment refunded", "payment": payment})
	}
}
