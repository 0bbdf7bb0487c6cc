package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"`                    // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // Cascade delete items if cart is deleted
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem holds a product reference and quantity. The row ID is the item's
// sub-identity used for targeted update/removal.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index" json:"-"` // Faster queries
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"` // Always >= 1, clamped on write
	AddedAt   time.Time `json:"added_at"`
}
