package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
)

// MockReviewRepository is a mock implementation of catalog.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Save(ctx context.Context, review *catalog.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*catalog.Review, error) {
	args := m.Called(ctx, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.Review, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]*catalog.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*catalog.Review, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*catalog.Review), args.Error(1)
}

func (m *MockReviewRepository) RatingSummary(ctx context.Context, productID uuid.UUID) (*catalog.RatingSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.RatingSummary), args.Error(1)
}

func TestReviewService_SubmitReview_New(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	productRepo := new(MockProductRepository)
	svc := NewReviewService(reviewRepo, productRepo, zap.NewNop())

	product := mustNewProduct(t, "Synth 5W-30", "500.00")
	userID := uuid.New()

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	reviewRepo.On("FindByProductAndUser", mock.Anything, product.ID, userID).Return(nil, shared.ErrNotFound)
	reviewRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Review")).Return(nil)

	resp, err := svc.SubmitReview(context.Background(), product.ID, userID, SubmitReviewRequest{
		Rating:  5,
		Comment: "Great oil",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Rating)
	assert.Equal(t, userID, resp.UserID)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_SubmitReview_ReplacesExisting(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	productRepo := new(MockProductRepository)
	svc := NewReviewService(reviewRepo, productRepo, zap.NewNop())

	product := mustNewProduct(t, "Synth 5W-30", "500.00")
	userID := uuid.New()
	existing, err := catalog.NewReview(product.ID, userID, 2, "Meh")
	require.NoError(t, err)

	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	reviewRepo.On("FindByProductAndUser", mock.Anything, product.ID, userID).Return(existing, nil)
	reviewRepo.On("Save", mock.Anything, existing).Return(nil)

	resp, err := svc.SubmitReview(context.Background(), product.ID, userID, SubmitReviewRequest{
		Rating:  4,
		Comment: "Better after a second try",
	})
	require.NoError(t, err)

	// Same review row, updated in place
	assert.Equal(t, existing.ID, resp.ID)
	assert.Equal(t, 4, resp.Rating)
	assert.Equal(t, "Better after a second try", resp.Comment)
}

func TestReviewService_SubmitReview_ProductNotFound(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	productRepo := new(MockProductRepository)
	svc := NewReviewService(reviewRepo, productRepo, zap.NewNop())

	id := uuid.New()
	productRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.SubmitReview(context.Background(), id, uuid.New(), SubmitReviewRequest{Rating: 3})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
}

func TestReviewService_GetProductReviews(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	productRepo := new(MockProductRepository)
	svc := NewReviewService(reviewRepo, productRepo, zap.NewNop())

	productID := uuid.New()
	r1, err := catalog.NewReview(productID, uuid.New(), 5, "")
	require.NoError(t, err)
	r2, err := catalog.NewReview(productID, uuid.New(), 4, "")
	require.NoError(t, err)

	reviewRepo.On("FindByProduct", mock.Anything, productID).Return([]*catalog.Review{r1, r2}, nil)
	reviewRepo.On("RatingSummary", mock.Anything, productID).Return(&catalog.RatingSummary{
		ProductID:   productID,
		Average:     4.5,
		ReviewCount: 2,
	}, nil)

	resp, err := svc.GetProductReviews(context.Background(), productID)
	require.NoError(t, err)

	assert.Len(t, resp.Reviews, 2)
	assert.InDelta(t, 4.5, resp.AverageRating, 0.001)
	assert.Equal(t, int64(2), resp.ReviewCount)
}

func TestReviewService_DeleteReview_Authorization(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	productRepo := new(MockProductRepository)
	svc := NewReviewService(reviewRepo, productRepo, zap.NewNop())

	ownerID := uuid.New()
	review, err := catalog.NewReview(uuid.New(), ownerID, 3, "")
	require.NoError(t, err)

	reviewRepo.On("FindByID", mock.Anything, review.ID).Return(review, nil)
	reviewRepo.On("Delete", mock.Anything, review.ID).Return(nil)

	// A stranger cannot delete it
	err = svc.DeleteReview(context.Background(), review.ID, uuid.New(), false)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	// The owner can
	require.NoError(t, svc.DeleteReview(context.Background(), review.ID, ownerID, false))

	// So can an admin
	require.NoError(t, svc.DeleteReview(context.Background(), review.ID, uuid.New(), true))
}
