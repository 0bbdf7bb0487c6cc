package models

import "time"

type Category string
type Certification string

const (
	CategoryKitchen      Category = "kitchen"
	CategoryPersonalCare Category = "personal_care"
	CategoryClothing     Category = "clothing"
	CategoryHome         Category = "home"
	CategoryGarden       Category = "garden"
	CategoryAccessories  Category = "accessories"

	CertificationOrganic       Certification = "organic"
	CertificationFairTrade     Certification = "fair_trade"
	CertificationRecycled      Certification = "recycled"
	CertificationBiodegradable Certification = "biodegradable"
	CertificationCarbonNeutral Certification = "carbon_neutral"
	CertificationNone          Certification = "none"
)

// ValidCategory reports whether c is one of the known product categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryKitchen, CategoryPersonalCare, CategoryClothing,
		CategoryHome, CategoryGarden, CategoryAccessories:
		return true
	}
	return false
}

// ValidCertification reports whether c is one of the known eco certifications.
func ValidCertification(c Certification) bool {
	switch c {
	case CertificationOrganic, CertificationFairTrade, CertificationRecycled,
		CertificationBiodegradable, CertificationCarbonNeutral, CertificationNone:
		return true
	}
	return false
}

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Price         float64         `gorm:"not null" json:"price"` // Required, > 0
	Stock         int             `json:"stock"`
	Category      Category        `gorm:"type:VARCHAR(30);index" json:"category"`
	Certification Certification   `gorm:"type:VARCHAR(30)" json:"certification"`
	Image         string          `json:"image"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	Reviews       []ProductReview `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductReview is the denormalized review summary kept on the product for
// cheap catalog reads. Rows are keyed by the source review's ID so deleting a
// review removes exactly its own mirror entry.
type ProductReview struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ProductID uint      `gorm:"index" json:"-"`
	ReviewID  uint      `gorm:"uniqueIndex" json:"review_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
