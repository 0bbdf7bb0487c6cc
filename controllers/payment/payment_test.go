package paymentControllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/senara-eco/senara-api/models"
	"github.com/senara-eco/senara-api/testutil"
)

func forceGateway(t *testing.T, approved bool) {
	t.Helper()
	prev := Approve
	Approve = func() bool { return approved }
	t.Cleanup(func() { Approve = prev })
}

func seedOrder(t *testing.T, db *gorm.DB, userID string, total float64) models.Order {
	t.Helper()
	order := models.Order{
		OrderRef:        "ref-" + userID + time.Now().Format("150405.000000000"),
		UserID:          userID,
		Total:           total,
		Status:          models.OrderStatusPending,
		ShippingAddress: "12 Fern Street",
		Phone:           "0771234567",
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func validCardRequest(orderID uint) ProcessCardRequest {
	return ProcessCardRequest{
		OrderID:        orderID,
		CardNumber:     "4111 1111 1111 1111",
		ExpiryMonth:    12,
		ExpiryYear:     time.Now().Year() + 2,
		CVV:            "123",
		CardholderName: "A. Customer",
	}
}

func TestProcessCardApproved(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	order := seedOrder(t, db, user.ID, 75.0)
	forceGateway(t, true)

	payment, err := ProcessCard(db, user.ID, validCardRequest(order.ID))
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, models.PaymentMethodCard, payment.PaymentMethod)
	assert.Equal(t, 75.0, payment.Amount)
	assert.Equal(t, "Visa", payment.CardBrand)
	assert.Equal(t, "1111", payment.Last4Digits)
	assert.Contains(t, payment.TransactionID, "TXN-")

	var persisted models.Order
	require.NoError(t, db.First(&persisted, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderPaymentCompleted, persisted.PaymentStatus)
	require.NotNil(t, persisted.PaymentID)
	assert.Equal(t, payment.ID, *persisted.PaymentID)
}

func TestProcessCardDeclinedThenRetried(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	order := seedOrder(t, db, user.ID, 30.0)

	forceGateway(t, false)
	payment, err := ProcessCard(db, user.ID, validCardRequest(order.ID))
	assert.ErrorIs(t, err, ErrCardDeclined)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	assert.NotEmpty(t, payment.FailureReason)
	assert.NotEmpty(t, payment.TransactionID)

	var persisted models.Order
	require.NoError(t, db.First(&persisted, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderPaymentFailed, persisted.PaymentStatus)

	// Retry succeeds and reuses the same payment row
	forceGateway(t, true)
	retried, err := ProcessCard(db, user.ID, validCardRequest(order.ID))
	require.NoError(t, err)
	assert.Equal(t, payment.ID, retried.ID)
	assert.Equal(t, models.PaymentStatusCompleted, retried.Status)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProcessCardValidation(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	order := seedOrder(t, db, user.ID, 10.0)
	forceGateway(t, true)

	cases := []struct {
		name   string
		mutate func(*ProcessCardRequest)
		want   string
	}{
		{"too short", func(r *ProcessCardRequest) { r.CardNumber = "411111111111" }, "13 to 19 digits"},
		{"too long", func(r *ProcessCardRequest) { r.CardNumber = "41111111111111111111" }, "13 to 19 digits"},
		{"non numeric", func(r *ProcessCardRequest) { r.CardNumber = "4111-1111-1111-1111" }, "digits only"},
		{"expired year", func(r *ProcessCardRequest) { r.ExpiryYear = time.Now().Year() - 1 }, "expired"},
		{"bad month", func(r *ProcessCardRequest) { r.ExpiryMonth = 13 }, "expiry month"},
		{"cvv too short", func(r *ProcessCardRequest) { r.CVV = "12" }, "CVV"},
		{"cvv too long", func(r *ProcessCardRequest) { r.CVV = "12345" }, "CVV"},
		{"cvv letters", func(r *ProcessCardRequest) { r.CVV = "12a" }, "CVV"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCardRequest(order.ID)
			tc.mutate(&req)
			_, err := ProcessCard(db, user.ID, req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestExpiryMonthBoundary(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.Error(t, validateExpiry(5, 2026, now))
	assert.NoError(t, validateExpiry(6, 2026, now))
	assert.NoError(t, validateExpiry(1, 2027, now))
}

func TestCardBrandDetection(t *testing.T) {
	assert.Equal(t, "Visa", cardBrand("4111111111111111"))
	assert.Equal(t, "Mastercard", cardBrand("5211111111111111"))
	assert.Equal(t, "Amex", cardBrand("341111111111111"))
	assert.Equal(t, "Discover", cardBrand("6011111111111111"))
	assert.Equal(t, "Unknown", cardBrand("9911111111111111"))
}

func TestCompletedPaymentBlocksRepayment(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	order := seedOrder(t, db, user.ID, 20.0)
	forceGateway(t, true)

	_, err := ProcessCard(db, user.ID, validCardRequest(order.ID))
	require.NoError(t, err)

	_, err = ProcessCard(db, user.ID, validCardRequest(order.ID))
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	_, err = ProcessCOD(db, user.ID, order.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestProcessCODAlwaysCompletes(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	order := seedOrder(t, db, user.ID, 55.0)

	payment, err := ProcessCOD(db, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, models.PaymentMethodCOD, payment.PaymentMethod)

	var persisted models.Order
	require.NoError(t, db.First(&persisted, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderPaymentCompleted, persisted.PaymentStatus)
}

func TestPaymentScopedToOrderOwner(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.SeedUser(t, db)
	stranger := testutil.SeedUser(t, db)
	order := seedOrder(t, db, owner.ID, 15.0)
	forceGateway(t, true)

	_, err := ProcessCard(db, stranger.ID, validCardRequest(order.ID))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRefundOnlyFromCompleted(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	order := seedOrder(t, db, user.ID, 60.0)
	forceGateway(t, true)

	payment, err := ProcessCard(db, user.ID, validCardRequest(order.ID))
	require.NoError(t, err)

	refunded, err := Refund(db, user.ID, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCancelled, refunded.Status)

	var persisted models.Order
	require.NoError(t, db.First(&persisted, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderPaymentRefunded, persisted.PaymentStatus)

	// A second refund finds the payment no longer completed
	_, err = Refund(db, user.ID, payment.ID)
	assert.ErrorIs(t, err, ErrNotRefundable)
}

func TestRefundFailedPaymentRejected(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	order := seedOrder(t, db, user.ID, 25.0)

	forceGateway(t, false)
	payment, err := ProcessCard(db, user.ID, validCardRequest(order.ID))
	require.ErrorIs(t, err, ErrCardDeclined)

	_, err = Refund(db, user.ID, payment.ID)
	assert.ErrorIs(t, err, ErrNotRefundable)
}
