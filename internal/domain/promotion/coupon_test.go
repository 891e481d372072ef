package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilmart/backend/internal/domain/shared/valueobject"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "PERCENT10", NormalizeCode("  percent10 "))
	assert.Equal(t, "FLAT50", NormalizeCode("Flat50"))
}

func TestNewCoupon(t *testing.T) {
	t.Run("creates active coupon with normalized code", func(t *testing.T) {
		coupon, err := NewCoupon("save10", DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", coupon.Code)
		assert.True(t, coupon.IsActive)
		assert.Equal(t, int64(0), coupon.UsageCount)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewCoupon("  ", DiscountTypeFixed, decimal.NewFromInt(50))
		assert.Error(t, err)
	})

	t.Run("rejects unknown discount type", func(t *testing.T) {
		_, err := NewCoupon("SAVE", "bogus", decimal.NewFromInt(10))
		assert.Error(t, err)
	})

	t.Run("rejects non-positive value", func(t *testing.T) {
		_, err := NewCoupon("SAVE", DiscountTypeFixed, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects percentage above 100", func(t *testing.T) {
		_, err := NewCoupon("SAVE", DiscountTypePercentage, decimal.NewFromInt(101))
		assert.Error(t, err)
	})
}

func TestCouponDiscountFor(t *testing.T) {
	now := time.Now()
	subtotal := valueobject.NewMoneyINRFromFloat(1000)

	t.Run("percentage discount capped at max", func(t *testing.T) {
		// 10% of 1000 is 100, capped at 80
		coupon, err := NewCoupon("PERCENT10", DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, coupon.SetMaxDiscountAmount(valueobject.NewMoneyINRFromFloat(80)))

		discount, err := coupon.DiscountFor(subtotal, now)
		require.NoError(t, err)
		assert.True(t, discount.Amount().Equal(decimal.NewFromInt(80)), "got %s", discount)

		total, err := subtotal.Subtract(discount)
		require.NoError(t, err)
		assert.True(t, total.Amount().Equal(decimal.NewFromInt(920)))
	})

	t.Run("percentage discount without cap", func(t *testing.T) {
		coupon, err := NewCoupon("PERCENT10", DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)

		discount, err := coupon.DiscountFor(subtotal, now)
		require.NoError(t, err)
		assert.True(t, discount.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("cap above raw percentage leaves discount unchanged", func(t *testing.T) {
		coupon, err := NewCoupon("PERCENT10", DiscountTypePercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, coupon.SetMaxDiscountAmount(valueobject.NewMoneyINRFromFloat(500)))

		discount, err := coupon.DiscountFor(subtotal, now)
		require.NoError(t, err)
		assert.True(t, discount.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("fixed discount", func(t *testing.T) {
		coupon, err := NewCoupon("FLAT50", DiscountTypeFixed, decimal.NewFromInt(50))
		require.NoError(t, err)

		discount, err := coupon.DiscountFor(subtotal, now)
		require.NoError(t, err)
		assert.True(t, discount.Amount().Equal(decimal.NewFromInt(50)))
	})

	t.Run("fixed discount never exceeds subtotal", func(t *testing.T) {
		coupon, err := NewCoupon("FLAT500", DiscountTypeFixed, decimal.NewFromInt(500))
		require.NoError(t, err)

		small := valueobject.NewMoneyINRFromFloat(300)
		discount, err := coupon.DiscountFor(small, now)
		require.NoError(t, err)
		assert.True(t, discount.Amount().Equal(decimal.NewFromInt(300)))
	})

	t.Run("inactive coupon is rejected", func(t *testing.T) {
		coupon, err := NewCoupon("SAVE", DiscountTypeFixed, decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, coupon.Deactivate())

		_, err = coupon.DiscountFor(subtotal, now)
		assert.Equal(t, ErrCouponInactive, err)
	})

	t.Run("expired coupon is rejected", func(t *testing.T) {
		coupon, err := NewCoupon("SAVE", DiscountTypeFixed, decimal.NewFromInt(50))
		require.NoError(t, err)
		coupon.SetValidUntil(now.Add(-time.Hour))

		_, err = coupon.DiscountFor(subtotal, now)
		assert.Equal(t, ErrCouponExpired, err)
	})

	t.Run("expiry in the future is accepted", func(t *testing.T) {
		coupon, err := NewCoupon("SAVE", DiscountTypeFixed, decimal.NewFromInt(50))
		require.NoError(t, err)
		coupon.SetValidUntil(now.Add(time.Hour))

		_, err = coupon.DiscountFor(subtotal, now)
		assert.NoError(t, err)
	})

	t.Run("subtotal below minimum is rejected", func(t *testing.T) {
		coupon, err := NewCoupon("SAVE", DiscountTypeFixed, decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, coupon.SetMinOrderAmount(valueobject.NewMoneyINRFromFloat(2000)))

		_, err = coupon.DiscountFor(subtotal, now)
		assert.Equal(t, ErrMinOrderNotMet, err)
	})

	t.Run("subtotal at minimum is accepted", func(t *testing.T) {
		coupon, err := NewCoupon("SAVE", DiscountTypeFixed, decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, coupon.SetMinOrderAmount(valueobject.NewMoneyINRFromFloat(1000)))

		_, err = coupon.DiscountFor(subtotal, now)
		assert.NoError(t, err)
	})
}

func TestCouponActivation(t *testing.T) {
	coupon, err := NewCoupon("SAVE", DiscountTypeFixed, decimal.NewFromInt(50))
	require.NoError(t, err)

	assert.Error(t, coupon.Activate())

	require.NoError(t, coupon.Deactivate())
	assert.Error(t, coupon.Deactivate())

	require.NoError(t, coupon.Activate())
	assert.True(t, coupon.IsActive)
}

func TestCouponRecordUsage(t *testing.T) {
	coupon, err := NewCoupon("SAVE", DiscountTypeFixed, decimal.NewFromInt(50))
	require.NoError(t, err)

	coupon.RecordUsage()
	coupon.RecordUsage()
	assert.Equal(t, int64(2), coupon.UsageCount)
}
