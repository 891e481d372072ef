package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	product, err := NewProduct("Synthetic 5W-30", "Fully synthetic engine oil", valueobject.NewMoneyINRFromFloat(500))
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestNewProduct(t *testing.T) {
	t.Run("creates active product", func(t *testing.T) {
		product, err := NewProduct("Synthetic 5W-30", "Fully synthetic engine oil", valueobject.NewMoneyINRFromFloat(500))
		require.NoError(t, err)
		assert.Equal(t, "Synthetic 5W-30", product.Name)
		assert.True(t, product.IsActive)
		assert.True(t, product.PricePerLitre.Equal(decimal.NewFromInt(500)))
		assert.Nil(t, product.OfferPricePerLitre)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("", "desc", valueobject.NewMoneyINRFromFloat(500))
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Oil", "desc", valueobject.NewMoneyINRFromFloat(-1))
		assert.Error(t, err)
	})
}

func TestProductOfferPrice(t *testing.T) {
	t.Run("sets offer price below base price", func(t *testing.T) {
		product := newTestProduct(t)

		require.NoError(t, product.SetOfferPrice(valueobject.NewMoneyINRFromFloat(450)))
		require.NotNil(t, product.OfferPricePerLitre)
		assert.True(t, product.OfferPricePerLitre.Equal(decimal.NewFromInt(450)))
	})

	t.Run("rejects offer price at or above base price", func(t *testing.T) {
		product := newTestProduct(t)

		assert.Error(t, product.SetOfferPrice(valueobject.NewMoneyINRFromFloat(500)))
		assert.Error(t, product.SetOfferPrice(valueobject.NewMoneyINRFromFloat(600)))
	})

	t.Run("clear removes offer and featured flag", func(t *testing.T) {
		product := newTestProduct(t)

		require.NoError(t, product.SetOfferPrice(valueobject.NewMoneyINRFromFloat(450)))
		require.NoError(t, product.SetFeaturedInOffers(true))

		product.ClearOfferPrice()
		assert.Nil(t, product.OfferPricePerLitre)
		assert.False(t, product.FeaturedInOffers)
	})
}

func TestProductEffectivePrice(t *testing.T) {
	product := newTestProduct(t)

	// Base price when no offer is set
	assert.True(t, product.EffectivePrice().Amount().Equal(decimal.NewFromInt(500)))

	require.NoError(t, product.SetOfferPrice(valueobject.NewMoneyINRFromFloat(450)))
	assert.True(t, product.EffectivePrice().Amount().Equal(decimal.NewFromInt(450)))
	assert.True(t, product.HasOffer())
}

func TestProductFeaturedInOffers(t *testing.T) {
	t.Run("requires an offer price", func(t *testing.T) {
		product := newTestProduct(t)
		assert.Error(t, product.SetFeaturedInOffers(true))
	})

	t.Run("features product with offer", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetOfferPrice(valueobject.NewMoneyINRFromFloat(450)))
		require.NoError(t, product.SetFeaturedInOffers(true))
		assert.True(t, product.FeaturedInOffers)
	})
}

func TestProductStock(t *testing.T) {
	t.Run("decrease reduces stock", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetStock(10))

		require.NoError(t, product.DecreaseStock(4))
		assert.Equal(t, int64(6), product.StockQuantity)
	})

	t.Run("decrease beyond stock fails", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetStock(3))

		err := product.DecreaseStock(4)
		require.Error(t, err)
		assert.Equal(t, shared.ErrInsufficientStock, err)
		assert.Equal(t, int64(3), product.StockQuantity)
	})

	t.Run("increase adds stock", func(t *testing.T) {
		product := newTestProduct(t)
		require.NoError(t, product.SetStock(3))

		require.NoError(t, product.IncreaseStock(7))
		assert.Equal(t, int64(10), product.StockQuantity)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		product := newTestProduct(t)
		assert.Error(t, product.DecreaseStock(0))
		assert.Error(t, product.IncreaseStock(-1))
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		product := newTestProduct(t)
		assert.Error(t, product.SetStock(-1))
	})
}

func TestProductActivation(t *testing.T) {
	product := newTestProduct(t)

	require.NoError(t, product.Deactivate())
	assert.False(t, product.IsActive)
	assert.Error(t, product.Deactivate())

	require.NoError(t, product.Activate())
	assert.True(t, product.IsActive)
	assert.Error(t, product.Activate())
}

func TestProductPurchasable(t *testing.T) {
	product := newTestProduct(t)
	require.NoError(t, product.SetStock(5))

	assert.True(t, product.Purchasable(5))
	assert.False(t, product.Purchasable(6))

	require.NoError(t, product.Deactivate())
	assert.False(t, product.Purchasable(1))
}

func TestProductUpdate(t *testing.T) {
	product := newTestProduct(t)

	require.NoError(t, product.Update("Premium 10W-40", "Semi synthetic", "engine-oil", "OilMart"))
	assert.Equal(t, "Premium 10W-40", product.Name)
	assert.Equal(t, "engine-oil", product.Category)
	assert.Equal(t, "OilMart", product.Brand)

	assert.Error(t, product.Update("", "", "", ""))
}
