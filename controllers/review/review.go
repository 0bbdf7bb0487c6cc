package reviewControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/models"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("already reviewed")
)

// Eligibility reasons returned by CheckCanReview.
const (
	ReasonAlreadyReviewed  = "already reviewed"
	ReasonNoDeliveredOrder = "no delivered order containing this product"
	ReasonNotInOrder       = "product not part of that order"
)

type AddReviewInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	OrderID   uint   `json:"order_id"`
	Rating    int    `json:"rating" binding:"required"`
	Title     string `json:"title"`
	Comment   string `json:"comment" binding:"required"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

// -------- Core Logic --------

// findQualifyingOrder looks for a delivered order for this user whose lines
// include the product. With orderID set, only that order qualifies.
func findQualifyingOrder(db *gorm.DB, userID string, productID, orderID uint) (uint, string, error) {
	if orderID != 0 {
		var order models.Order
		err := db.Preload("Items").
			Where("id = ? AND user_id = ? AND status = ?", orderID, userID, models.OrderStatusDelivered).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ReasonNoDeliveredOrder, nil
			}
			return 0, "", err
		}
		for _, item := range order.Items {
			if item.ProductID == productID {
				return order.ID, "", nil
			}
		}
		return 0, ReasonNotInOrder, nil
	}

	var order models.Order
	err := db.
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, models.OrderStatusDelivered, productID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ReasonNoDeliveredOrder, nil
		}
		return 0, "", err
	}
	return order.ID, "", nil
}

// CheckCanReview answers whether the user may review the product, and through
// which delivered order. The same predicate is re-evaluated inside CreateReview;
// this call is advisory only.
func CheckCanReview(db *gorm.DB, userID string, productID, orderID uint) (bool, string, uint, error) {
	var existing models.Review
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return false, ReasonAlreadyReviewed, 0, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, "", 0, err
	}

	qualifyingID, reason, err := findQualifyingOrder(db, userID, productID, orderID)
	if err != nil {
		return false, "", 0, err
	}
	if qualifyingID == 0 {
		return false, reason, 0, nil
	}
	return true, "", qualifyingID, nil
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// CreateReview validates input, re-checks delivery-gated eligibility, tags
// sentiment, and persists both the review and its denormalized mirror on the
// product in one transaction.
func CreateReview(db *gorm.DB, userID string, input AddReviewInput) (models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return models.Review{}, errors.New("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(input.Comment)
	if len(comment) < 10 || len(comment) > 1000 {
		return models.Review{}, errors.New("comment must be between 10 and 1000 characters")
	}

	ok, reason, qualifyingID, err := CheckCanReview(db, userID, input.ProductID, input.OrderID)
	if err != nil {
		return models.Review{}, err
	}
	if !ok {
		if reason == ReasonAlreadyReviewed {
			return models.Review{}, ErrAlreadyReviewed
		}
		return models.Review{}, errors.New(reason)
	}

	review := models.Review{
		UserID:    userID,
		ProductID: input.ProductID,
		OrderID:   qualifyingID,
		Rating:    input.Rating,
		Title:     input.Title,
		Comment:   comment,
		Sentiment: ClassifySentiment(comment, input.Rating),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		mirror := models.ProductReview{
			ProductID: input.ProductID,
			ReviewID:  review.ID,
			UserID:    userID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: time.Now(),
		}
		return tx.Create(&mirror).Error
	})
	if err != nil {
		// A concurrent duplicate slips past the pre-check and lands on the
		// (user, product) unique index; surface it as the same user error.
		if isDuplicateKeyError(err) {
			return models.Review{}, ErrAlreadyReviewed
		}
		return models.Review{}, err
	}
	return review, nil
}

// UpdateReview edits an owned review and keeps the product mirror in sync.
// Changing the comment re-runs sentiment classification.
func UpdateReview(db *gorm.DB, userID string, reviewID uint, input UpdateReviewInput) (models.Review, error) {
	var review models.Review
	if err := db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, ErrReviewNotFound
		}
		return models.Review{}, err
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return models.Review{}, errors.New("rating must be between 1 and 5")
		}
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Comment != nil {
		comment := strings.TrimSpace(*input.Comment)
		if len(comment) < 10 || len(comment) > 1000 {
			return models.Review{}, errors.New("comment must be between 10 and 1000 characters")
		}
		review.Comment = comment
		review.Sentiment = ClassifySentiment(comment, review.Rating)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return tx.Model(&models.ProductReview{}).
			Where("review_id = ?", review.ID).
			Updates(map[string]interface{}{
				"rating":  review.Rating,
				"comment": review.Comment,
			}).Error
	})
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// DeleteReview removes a review and exactly its own mirror row, matched by
// review identity rather than user id.
func DeleteReview(db *gorm.DB, userID string, reviewID uint, adminOverride bool) error {
	query := db.Where("id = ?", reviewID)
	if !adminOverride {
		query = query.Where("user_id = ?", userID)
	}

	var review models.Review
	if err := query.First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Review{}, review.ID).Error; err != nil {
			return err
		}
		return tx.Where("review_id = ?", review.ID).Delete(&models.ProductReview{}).Error
	})
}

// -------- Handlers --------

// GET /api/senara/reviews/check/:productId?orderId=
func CheckCanReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}
		var orderID uint64
		if raw := c.Query("orderId"); raw != "" {
			if orderID, err = strconv.ParseUint(raw, 10, 64); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
				return
			}
		}

		ok, reason, qualifyingID, err := CheckCanReview(db, userID, uint(productID), uint(orderID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check review eligibility", "error": err.Error()})
			return
		}
		resp := gin.H{"success": true, "can_review": ok}
		if ok {
			resp["order_id"] = qualifyingID
		} else {
			resp["reason"] = reason
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /api/senara/reviews
func AddReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		review, err := CreateReview(db, userID, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Review created", "review": review})
	}
}

// GET /api/senara/reviews/my-reviews
func MyReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var reviews []models.Review
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
	}
}

// GET /api/senara/reviews/product/:productId
func ProductReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product id"})
			return
		}

		var reviews []models.Review
		if err := db.Where("product_id = ?", productID).Order("created_at DESC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
	}
}

// GET /api/senara/reviews/:id
func GetReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
			return
		}

		var review models.Review
		if err := db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": ErrReviewNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
	}
}

// PATCH /api/senara/reviews/:id
func UpdateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
			return
		}

		var input UpdateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		review, err := UpdateReview(db, userID, uint(reviewID), input)
		if err != nil {
			if errors.Is(err, ErrReviewNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
	}
}

// DELETE /api/senara/reviews/:id
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
			return
		}

		if err := DeleteReview(db, userID, uint(reviewID), false); err != nil {
			if errors.Is(err, ErrReviewNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete review", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
	}
}

// GET /api/senara/reviews?sentiment= (admin)
func AdminListReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Review{})
		if sentiment := c.Query("sentiment"); sentiment != "" {
			query = query.Where("sentiment = ?", sentiment)
		}

		var reviews []models.Review
		if err := query.Order("created_at DESC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
	}
}

// DELETE /api/senara/reviews/admin/:id
func AdminDeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
			return
		}

		if err := DeleteReview(db, "", uint(reviewID), true); err != nil {
			if errors.Is(err, ErrReviewNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete review", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
	}
}
