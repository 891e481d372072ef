package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/catalog"
	"github.com/oilmart/backend/internal/domain/shared"
)

// ReviewService handles product review operations
type ReviewService struct {
	reviewRepo  catalog.ReviewRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo catalog.ReviewRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SubmitReview creates a review, or replaces the user's existing review
// of the same product
func (s *ReviewService) SubmitReview(ctx context.Context, productID, userID uuid.UUID, req SubmitReviewRequest) (*ReviewResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	existing, err := s.reviewRepo.FindByProductAndUser(ctx, productID, userID)
	if err == nil && existing != nil {
		if err := existing.Update(req.Rating, req.Comment); err != nil {
			return nil, err
		}
		if err := s.reviewRepo.Save(ctx, existing); err != nil {
			s.logger.Error("Failed to update review", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save review")
		}
		resp := toReviewResponse(existing)
		return &resp, nil
	}

	review, err := catalog.NewReview(productID, userID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save review")
	}

	s.logger.Info("Review submitted",
		zap.String("product_id", productID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("rating", req.Rating))

	resp := toReviewResponse(review)
	return &resp, nil
}

// GetProductReviews returns all reviews for a product with the aggregate rating
func (s *ReviewService) GetProductReviews(ctx context.Context, productID uuid.UUID) (*ProductReviewsResponse, error) {
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to load reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load reviews")
	}

	summary, err := s.reviewRepo.RatingSummary(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to load rating summary", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load reviews")
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, toReviewResponse(review))
	}

	return &ProductReviewsResponse{
		Reviews:       responses,
		AverageRating: summary.Average,
		ReviewCount:   summary.ReviewCount,
	}, nil
}

// DeleteReview removes a review. Owners can delete their own reviews,
// admins can delete any.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
	}

	if !review.BelongsTo(userID) && !isAdmin {
		return shared.ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		s.logger.Error("Failed to delete review", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete review")
	}

	return nil
}
