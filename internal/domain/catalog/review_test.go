package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()

	t.Run("creates review with valid input", func(t *testing.T) {
		review, err := NewReview(productID, userID, 4, "Good oil, engine runs smooth")
		require.NoError(t, err)
		assert.Equal(t, productID, review.ProductID)
		assert.Equal(t, userID, review.UserID)
		assert.Equal(t, 4, review.Rating)
	})

	t.Run("rejects rating out of range", func(t *testing.T) {
		_, err := NewReview(productID, userID, 0, "")
		assert.Error(t, err)

		_, err = NewReview(productID, userID, 6, "")
		assert.Error(t, err)
	})

	t.Run("rejects nil ids", func(t *testing.T) {
		_, err := NewReview(uuid.Nil, userID, 3, "")
		assert.Error(t, err)

		_, err = NewReview(productID, uuid.Nil, 3, "")
		assert.Error(t, err)
	})
}

func TestReviewUpdate(t *testing.T) {
	review, err := NewReview(uuid.New(), uuid.New(), 3, "Average")
	require.NoError(t, err)

	require.NoError(t, review.Update(5, "Changed my mind, excellent"))
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Changed my mind, excellent", review.Comment)

	assert.Error(t, review.Update(0, ""))
}

func TestReviewBelongsTo(t *testing.T) {
	userID := uuid.New()
	review, err := NewReview(uuid.New(), userID, 3, "")
	require.NoError(t, err)

	assert.True(t, review.BelongsTo(userID))
	assert.False(t, review.BelongsTo(uuid.New()))
}
