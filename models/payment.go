package models

import "time"

type PaymentStatus string
type PaymentMethod string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled" // Refunded payments land here

	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCOD  PaymentMethod = "cash_on_delivery"
)

// Payment records the latest attempt for an order. One row per order; repeated
// attempts upsert in place.
type Payment struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrderID        uint          `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID         string        `gorm:"index;not null" json:"user_id"`
	Amount         float64       `json:"amount"`
	PaymentMethod  PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	Status         PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	TransactionID  string        `json:"transaction_id"`
	CardBrand      string        `json:"card_brand,omitempty"`
	Last4Digits    string        `json:"last4_digits,omitempty"`
	CardholderName string        `json:"cardholder_name,omitempty"`
	FailureReason  string        `json:"failure_reason,omitempty"`
	PaymentDate    time.Time     `json:"payment_date"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
