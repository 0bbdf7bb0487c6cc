package adminControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	orderControllers "github.com/senara-eco/senara-api/controllers/order"
	"github.com/senara-eco/senara-api/models"
	"github.com/senara-eco/senara-api/testutil"
)

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus, cancelledBy models.CancelledBy) models.Order {
	t.Helper()
	user := testutil.SeedUser(t, db)
	order := models.Order{
		OrderRef:        "ref-" + user.ID,
		UserID:          user.ID,
		Total:           42.0,
		Status:          status,
		ShippingAddress: "12 Fern Street",
		Phone:           "0771234567",
		CancelledBy:     cancelledBy,
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Seeded Item", PriceSnapshot: 42.0, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestApplyStatusTransitionTable(t *testing.T) {
	cases := []struct {
		name        string
		current     models.OrderStatus
		cancelledBy models.CancelledBy
		requested   models.OrderStatus
		wantErr     error
	}{
		{"pending to processing", models.OrderStatusPending, models.CancelledByNone, models.OrderStatusProcessing, nil},
		{"processing to shipped", models.OrderStatusProcessing, models.CancelledByNone, models.OrderStatusShipped, nil},
		{"shipped to delivered", models.OrderStatusShipped, models.CancelledByNone, models.OrderStatusDelivered, nil},
		{"pending to cancelled", models.OrderStatusPending, models.CancelledByNone, models.OrderStatusCancelled, nil},
		{"shipped to cancelled", models.OrderStatusShipped, models.CancelledByNone, models.OrderStatusCancelled, nil},
		{"delivered to shipped is allowed", models.OrderStatusDelivered, models.CancelledByNone, models.OrderStatusShipped, nil},
		{"delivered to cancelled rejected", models.OrderStatusDelivered, models.CancelledByNone, models.OrderStatusCancelled, ErrCancelDelivered},
		{"customer-cancelled is frozen for admins", models.OrderStatusCancelled, models.CancelledByUser, models.OrderStatusProcessing, ErrCustomerCancelled},
		{"customer-cancelled stays cancelled", models.OrderStatusCancelled, models.CancelledByUser, models.OrderStatusCancelled, ErrCustomerCancelled},
		{"admin-cancelled can be reopened", models.OrderStatusCancelled, models.CancelledByAdmin, models.OrderStatusProcessing, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutil.OpenDB(t)
			order := seedOrder(t, db, tc.current, tc.cancelledBy)

			updated, err := ApplyStatus(db, order.ID, tc.requested)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				var persisted models.Order
				require.NoError(t, db.First(&persisted, "id = ?", order.ID).Error)
				assert.Equal(t, tc.current, persisted.Status)
				assert.Equal(t, tc.cancelledBy, persisted.CancelledBy)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.requested, updated.Status)
			if tc.requested == models.OrderStatusCancelled {
				assert.Equal(t, models.CancelledByAdmin, updated.CancelledBy)
			} else {
				assert.Equal(t, models.CancelledByNone, updated.CancelledBy)
			}
		})
	}
}

func TestApplyStatusRejectsUnknownStatus(t *testing.T) {
	db := testutil.OpenDB(t)
	order := seedOrder(t, db, models.OrderStatusPending, models.CancelledByNone)

	_, err := ApplyStatus(db, order.ID, models.OrderStatus("returned"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestApplyStatusMissingOrder(t *testing.T) {
	db := testutil.OpenDB(t)

	_, err := ApplyStatus(db, 12345, models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// Full scenario: stock 5, order of 3, customer cancels, admin cannot touch it.
func TestCustomerCancellationFreezesOrderForAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	product := testutil.SeedProduct(t, db, "Cork Yoga Mat", 20.0, 5)

	order, err := orderControllers.PlaceOrder(db, user.ID, orderControllers.PlaceOrderRequest{
		Items:           []orderControllers.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
		ShippingAddress: "12 Fern Street",
		Phone:           "0771234567",
	})
	require.NoError(t, err)

	var stocked models.Product
	require.NoError(t, db.First(&stocked, "id = ?", product.ID).Error)
	require.Equal(t, 2, stocked.Stock)

	_, err = orderControllers.CancelOrder(db, user.ID, order.ID)
	require.NoError(t, err)

	require.NoError(t, db.First(&stocked, "id = ?", product.ID).Error)
	assert.Equal(t, 5, stocked.Stock)

	_, err = ApplyStatus(db, order.ID, models.OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrCustomerCancelled)
}
