package catalog

import (
	"context"
	"testing"

	"mothernatural-backend/services/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t,
		&Product{},
		&ServiceOffering{},
		&Class{},
		&Retreat{},
		&Fundraiser{},
	)
	return NewService(ServiceParams{DB: db})
}

func TestCreateProductGeneratesUniqueSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, &Product{Name: "Lavender Balm", Price: 12.50, Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, "lavender-balm", first.Slug)
	assert.True(t, first.InStock)

	second, err := svc.CreateProduct(ctx, &Product{Name: "Lavender Balm", Price: 14.00, Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, "lavender-balm-2", second.Slug)
}

func TestGetProductBySlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &Product{Name: "Rose Water", Price: 9, Stock: 4})
	require.NoError(t, err)

	bySlug, err := svc.GetProduct(ctx, "rose-water")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	_, err = svc.GetProduct(ctx, "no-such-product")
	require.Error(t, err)
}

func TestListProductsHidesHidden(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &Product{Name: "Visible", Price: 1, Stock: 1})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, &Product{Name: "Secret", Price: 1, Stock: 1, Hidden: true})
	require.NoError(t, err)

	visible, err := svc.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestResolveProductStripsVariantSuffix(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &Product{Name: "Herbal Tea", Price: 8, Stock: 20})
	require.NoError(t, err)

	resolved, err := svc.ResolveProduct(ctx, created.ID+"-large")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, created.ID, resolved.ID)

	missing, err := svc.ResolveProduct(ctx, "appointment-123")
	require.NoError(t, err)
	assert.Nil(t, missing, "non-product items resolve to nil, not an error")
}

func TestDeductStockFloorsAtZero(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &Product{Name: "Sage Bundle", Price: 6, Stock: 2})
	require.NoError(t, err)

	row, err := svc.DeductStock(ctx, created.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, row.Stock)
	assert.False(t, row.InStock)

	fresh, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Stock)
}

func TestVariantPrice(t *testing.T) {
	p := &Product{Price: 10, SizePrices: datatypes.JSON(`{"small":8,"large":14}`)}

	assert.Equal(t, 8.0, p.VariantPrice("small"))
	assert.Equal(t, 14.0, p.VariantPrice("large"))
	assert.Equal(t, 10.0, p.VariantPrice("medium"))
	assert.Equal(t, 10.0, p.VariantPrice(""))
}
