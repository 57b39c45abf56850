package service

import (
	"context"
	"sync"
	"testing"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/model"
	"ecommerce-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCartService(t *testing.T, db *gorm.DB) CartService {
	t.Helper()

	return NewCartService(db,
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
	)
}

func TestAddItem_RepeatAddIncrements(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.NewString()
	product := createProduct(t, db, "Thing", 10.00, 50)

	require.NoError(t, svc.AddItem(ctx, userID, product.ID, 2))
	require.NoError(t, svc.AddItem(ctx, userID, product.ID, 3))

	items, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "Thing", items[0].Product.Name)
}

func TestAddItem_ConcurrentAddsSum(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.NewString()
	product := createProduct(t, db, "Thing", 10.00, 50)

	const adds = 10
	var wg sync.WaitGroup
	errs := make([]error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.AddItem(ctx, userID, product.ID, 1)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	items, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, adds, items[0].Quantity)
}

func TestAddItem_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.NewString()
	product := createProduct(t, db, "Thing", 10.00, 50)

	assert.ErrorIs(t, svc.AddItem(ctx, userID, product.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddItem(ctx, userID, product.ID, -1), ErrInvalidQuantity)

	var notFound *apperr.NotFoundError
	err := svc.AddItem(ctx, userID, uuid.NewString(), 1)
	assert.ErrorAs(t, err, &notFound)
}

func TestRemoveItem_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	owner := uuid.NewString()
	product := createProduct(t, db, "Thing", 10.00, 50)

	require.NoError(t, svc.AddItem(ctx, owner, product.ID, 1))
	items, err := svc.GetCart(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// someone else cannot delete the owner's item
	err = svc.RemoveItem(ctx, uuid.NewString(), items[0].ID)
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)

	require.NoError(t, svc.RemoveItem(ctx, owner, items[0].ID))

	items, err = svc.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClear(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	userID := uuid.NewString()
	productA := createProduct(t, db, "A", 10.00, 50)
	productB := createProduct(t, db, "B", 5.00, 50)

	require.NoError(t, svc.AddItem(ctx, userID, productA.ID, 1))
	require.NoError(t, svc.AddItem(ctx, userID, productB.ID, 2))

	require.NoError(t, svc.Clear(ctx, userID))

	var count int64
	require.NoError(t, db.Model(&model.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}
