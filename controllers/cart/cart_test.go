package cartControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senara-eco/senara-api/models"
	"github.com/senara-eco/senara-api/testutil"
)

func TestGetOrCreateCartIsLazyAndUnique(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)

	first, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	second, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CartID, second.CartID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	product := testutil.SeedProduct(t, db, "Bamboo Toothbrush", 3.5, 100)

	first, err := AddItem(db, user.ID, product.ID, 2)
	require.NoError(t, err)
	second, err := AddItem(db, user.ID, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemClampsQuantityToOne(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	product := testutil.SeedProduct(t, db, "Reusable Cup", 9.0, 100)

	item, err := AddItem(db, user.ID, product.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	item, err = AddItem(db, user.ID, product.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddItemRejectsMissingOrInactiveProduct(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)

	_, err := AddItem(db, user.ID, 999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	inactive := testutil.SeedProduct(t, db, "Discontinued Mug", 5.0, 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", inactive.ID).
		Update("is_active", false).Error)

	_, err = AddItem(db, user.ID, inactive.ID, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateItemClampsAndNeverRemoves(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	product := testutil.SeedProduct(t, db, "Linen Napkins", 14.0, 50)

	item, err := AddItem(db, user.ID, product.ID, 3)
	require.NoError(t, err)

	updated, err := UpdateItem(db, user.ID, item.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)

	updated, err = UpdateItem(db, user.ID, item.ID, -7)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateItemUnknownItem(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	_, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)

	_, err = UpdateItem(db, user.ID, 999, 2)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	product := testutil.SeedProduct(t, db, "Seed Paper Cards", 4.0, 30)

	item, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, RemoveItem(db, user.ID, item.ID))
	assert.ErrorIs(t, RemoveItem(db, user.ID, item.ID), ErrItemNotFound)
}

func TestViewPopulatesProductsAndSelfHeals(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db)
	kept := testutil.SeedProduct(t, db, "Jute Rug", 60.0, 5)
	doomed := testutil.SeedProduct(t, db, "Palm Basket", 22.0, 5)

	_, err := AddItem(db, user.ID, kept.ID, 2)
	require.NoError(t, err)
	_, err = AddItem(db, user.ID, doomed.ID, 1)
	require.NoError(t, err)

	// Hard-delete one product; its cart line should vanish on the next read
	require.NoError(t, db.Delete(&models.Product{}, doomed.ID).Error)

	views, err := View(db, user.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, kept.ID, views[0].ProductID)
	assert.Equal(t, "Jute Rug", views[0].Name)
	assert.Equal(t, 120.0, views[0].Subtotal)

	// The healing is persisted, not just filtered from the response
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
