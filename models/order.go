package models

import "time"

type OrderStatus string
type OrderPaymentStatus string
type CancelledBy string

const (
	// Order statuses (happy path is monotonic; cancelled branches off)
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting processing
	OrderStatusProcessing OrderStatus = "processing" // Being prepared for dispatch
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the items
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled by customer or admin

	// Payment status as seen on the order
	OrderPaymentPending   OrderPaymentStatus = "pending"
	OrderPaymentCompleted OrderPaymentStatus = "completed"
	OrderPaymentFailed    OrderPaymentStatus = "failed"
	OrderPaymentRefunded  OrderPaymentStatus = "refunded"

	// Who cancelled the order. Gates which transitions an admin may still apply.
	CancelledByUser  CancelledBy = "user"
	CancelledByAdmin CancelledBy = "admin"
	CancelledByNone  CancelledBy = ""
)

// ValidOrderStatus reports whether s is one of the five order states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	OrderRef        string             `gorm:"uniqueIndex" json:"order_ref"`
	UserID          string             `gorm:"not null;index" json:"user_id"`
	User            User               `gorm:"foreignKey:UserID" json:"user"`
	Items           []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total           float64            `json:"total"`
	Status          OrderStatus        `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus   OrderPaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentID       *uint              `json:"payment_id,omitempty"`
	ShippingAddress string             `gorm:"not null" json:"shipping_address"`
	Phone           string             `gorm:"not null" json:"phone"`
	Notes           string             `json:"notes"`
	ShippingLat     float64            `json:"shipping_lat"`
	ShippingLng     float64            `json:"shipping_lng"`
	TrackingLat     float64            `json:"tracking_lat"`
	TrackingLng     float64            `json:"tracking_lng"`
	CancelledBy     CancelledBy        `gorm:"type:VARCHAR(10);default:''" json:"cancelled_by"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// OrderItem snapshots the product at purchase time. PriceSnapshot never
// changes after the order is placed, regardless of later catalog edits.
type OrderItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrderID       uint    `gorm:"index" json:"-"`
	ProductID     uint    `json:"product_id"`
	ProductName   string  `json:"product_name"`
	ProductImage  string  `json:"product_image"`
	PriceSnapshot float64 `json:"price_snapshot"`
	Quantity      int     `json:"quantity"`
}
