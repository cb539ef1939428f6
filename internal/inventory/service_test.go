package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/granizoapp/granizo-backend/pkg/db/models"
	"github.com/granizoapp/granizo-backend/pkg/enums"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:inventoryrepo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	stock := `
CREATE TABLE IF NOT EXISTS store_stock (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0,
  min_qty INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME,
  UNIQUE (store_id, product_id)
);`
	movements := `
CREATE TABLE IF NOT EXISTS movements (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  type TEXT NOT NULL,
  reason TEXT,
  user_id TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(stock).Error)
	require.NoError(t, db.Exec(movements).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM movements")
		db.Exec("DELETE FROM store_stock")
	})
	return db
}

func newTestInventoryService(t *testing.T, db *gorm.DB) (Service, Repository) {
	t.Helper()
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db})
	require.NoError(t, err)
	return svc, repo
}

func TestAdjustCreatesStockAndMovement(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc, repo := newTestInventoryService(t, db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	stock, err := svc.Adjust(ctx, AdjustInput{
		StoreID:   storeID,
		ProductID: productID,
		Qty:       10,
		Type:      enums.MovementTypeIn,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Qty)

	reason := "venta mostrador"
	stock, err = svc.Adjust(ctx, AdjustInput{
		StoreID:   storeID,
		ProductID: productID,
		Qty:       3,
		Type:      enums.MovementTypeOut,
		Reason:    &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, stock.Qty)

	stock, err = svc.Adjust(ctx, AdjustInput{
		StoreID:   storeID,
		ProductID: productID,
		Qty:       20,
		Type:      enums.MovementTypeAdjust,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, stock.Qty)

	list, cursor, err := repo.ListMovements(ctx, storeID, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Nil(t, cursor)
	require.Len(t, list, 3)
	// signed deltas: +10, -3, +13
	total := 0
	for _, movement := range list {
		total += movement.Qty
	}
	assert.Equal(t, 20, total)
}

func TestListMovementsPaginates(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	base := time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateMovement(ctx, &models.Movement{
			ID:        uuid.New(),
			StoreID:   storeID,
			ProductID: productID,
			Qty:       i + 1,
			Type:      enums.MovementTypeIn,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, cursor, err := repo.ListMovements(ctx, storeID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, cursor)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, nextCursor, err := repo.ListMovements(ctx, storeID, pagination.Params{
		Limit:  2,
		Cursor: pagination.EncodeCursor(*cursor),
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, nextCursor)
	// the oldest movement must not be skipped between pages
	assert.Equal(t, 1, rest[0].Qty)
}

func TestAdjustRefusesOversell(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc, repo := newTestInventoryService(t, db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	_, err := svc.Adjust(ctx, AdjustInput{StoreID: storeID, ProductID: productID, Qty: 2, Type: enums.MovementTypeIn})
	require.NoError(t, err)

	_, err = svc.Adjust(ctx, AdjustInput{StoreID: storeID, ProductID: productID, Qty: 5, Type: enums.MovementTypeOut})
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeConflict, coded.Code())

	// the refused adjustment must leave no movement behind
	list, _, err := repo.ListMovements(ctx, storeID, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	stock, err := repo.GetStock(ctx, storeID, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, stock.Qty)
}

func TestAdjustValidation(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc, _ := newTestInventoryService(t, db)
	ctx := context.Background()

	if _, err := svc.Adjust(ctx, AdjustInput{ProductID: uuid.New(), Qty: 1, Type: enums.MovementTypeIn}); err == nil {
		t.Fatal("expected error for missing store id")
	}
	if _, err := svc.Adjust(ctx, AdjustInput{StoreID: uuid.New(), ProductID: uuid.New(), Qty: 1, Type: enums.MovementType("swap")}); err == nil {
		t.Fatal("expected error for invalid type")
	}
	if _, err := svc.Adjust(ctx, AdjustInput{StoreID: uuid.New(), ProductID: uuid.New(), Qty: 0, Type: enums.MovementTypeIn}); err == nil {
		t.Fatal("expected error for zero quantity on in")
	}
}

func TestMinQtyAndLowStock(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc, _ := newTestInventoryService(t, db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	_, err := svc.Adjust(ctx, AdjustInput{StoreID: storeID, ProductID: productID, Qty: 4, Type: enums.MovementTypeIn})
	require.NoError(t, err)

	stock, err := svc.SetMinQty(ctx, storeID, productID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, stock.MinQty)
	assert.Equal(t, 4, stock.Qty)

	low, err := svc.ListLowStock(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, productID, low[0].ProductID)

	_, err = svc.Adjust(ctx, AdjustInput{StoreID: storeID, ProductID: productID, Qty: 10, Type: enums.MovementTypeIn})
	require.NoError(t, err)
	low, err = svc.ListLowStock(ctx, storeID)
	require.NoError(t, err)
	assert.Len(t, low, 0)
}
