package models

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Review is the source of truth; Product.Reviews mirrors a summary of it.
// One review per (user, product), enforced by the composite unique index.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	OrderID   uint      `json:"order_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Title     string    `json:"title"`
	Comment   string    `gorm:"not null" json:"comment"`
	Sentiment Sentiment `gorm:"type:VARCHAR(10);default:'Neutral'" json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
