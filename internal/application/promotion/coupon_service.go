package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/promotion"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shared/valueobject"
)

// CouponCache caches coupons by code for the hot validation path.
// Implemented by the infrastructure layer (Redis); a nil-safe no-op
// implementation is used when caching is disabled.
type CouponCache interface {
	// Get returns the cached coupon for a normalized code, or nil on miss
	Get(ctx context.Context, code string) (*promotion.Coupon, error)

	// Set caches a coupon under its normalized code
	Set(ctx context.Context, coupon *promotion.Coupon) error

	// Invalidate drops a code from the cache
	Invalidate(ctx context.Context, code string) error
}

// CouponService handles coupon management and validation
type CouponService struct {
	couponRepo promotion.CouponRepository
	cache      CouponCache
	logger     *zap.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo promotion.CouponRepository, cache CouponCache, logger *zap.Logger) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		cache:      cache,
		logger:     logger,
	}
}

// Create creates a new coupon
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	value, err := valueobject.NewMoneyINRFromString(req.DiscountValue)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Invalid discount value")
	}

	code := promotion.NormalizeCode(req.Code)
	if existing, err := s.couponRepo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, shared.NewDomainError("CODE_TAKEN", "A coupon with this code already exists")
	}

	coupon, err := promotion.NewCoupon(req.Code, promotion.DiscountType(req.DiscountType), value.Amount())
	if err != nil {
		return nil, err
	}

	if err := s.applyOptionalFields(coupon, req.Description, req.MinOrderAmount, req.MaxDiscountAmount, req.ValidUntil); err != nil {
		return nil, err
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create coupon")
	}

	s.logger.Info("Coupon created", zap.String("code", coupon.Code))

	resp := toCouponResponse(coupon)
	return &resp, nil
}

// Update updates a coupon's adjustable fields
func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req UpdateCouponRequest) (*CouponResponse, error) {
	return s.mutate(ctx, id, func(coupon *promotion.Coupon) error {
		return s.applyOptionalFields(coupon, req.Description, req.MinOrderAmount, req.MaxDiscountAmount, req.ValidUntil)
	})
}

// Activate enables a coupon
func (s *CouponService) Activate(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	return s.mutate(ctx, id, func(coupon *promotion.Coupon) error {
		return coupon.Activate()
	})
}

// Deactivate disables a coupon
func (s *CouponService) Deactivate(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	return s.mutate(ctx, id, func(coupon *promotion.Coupon) error {
		return coupon.Deactivate()
	})
}

// Delete removes a coupon
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
	}

	if err := s.couponRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete coupon", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete coupon")
	}

	if err := s.cache.Invalidate(ctx, coupon.Code); err != nil {
		s.logger.Warn("Failed to invalidate coupon cache", zap.String("code", coupon.Code), zap.Error(err))
	}

	return nil
}

// Get returns a single coupon
func (s *CouponService) Get(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
	}

	resp := toCouponResponse(coupon)
	return &resp, nil
}

// List returns a page of coupons for the admin panel
func (s *CouponService) List(ctx context.Context, req ListCouponsRequest) (*CouponListResponse, error) {
	filter := promotion.CouponFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Search:     req.Search,
		ActiveOnly: req.ActiveOnly,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	coupons, total, err := s.couponRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list coupons")
	}

	responses := make([]CouponResponse, 0, len(coupons))
	for _, coupon := range coupons {
		responses = append(responses, toCouponResponse(coupon))
	}

	return &CouponListResponse{
		Coupons:  responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Validate previews the discount a coupon grants on a subtotal.
// Invalid coupons produce a response with Valid=false rather than an
// error so the storefront can show the reason inline.
func (s *CouponService) Validate(ctx context.Context, req ValidateCouponRequest) (*ValidateCouponResponse, error) {
	subtotal, err := valueobject.NewMoneyINRFromString(req.Subtotal)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SUBTOTAL", "Invalid subtotal")
	}

	code := promotion.NormalizeCode(req.Code)
	coupon, err := s.lookup(ctx, code)
	if err != nil {
		return &ValidateCouponResponse{
			Code:   code,
			Valid:  false,
			Reason: "Coupon not found",
		}, nil
	}

	discount, err := coupon.DiscountFor(subtotal, time.Now())
	if err != nil {
		var domainErr *shared.DomainError
		reason := "Coupon cannot be applied"
		if errors.As(err, &domainErr) {
			reason = domainErr.Message
		}
		return &ValidateCouponResponse{
			Code:   code,
			Valid:  false,
			Reason: reason,
		}, nil
	}

	final, err := subtotal.Subtract(discount)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute discount")
	}

	return &ValidateCouponResponse{
		Code:     code,
		Valid:    true,
		Discount: discount.Amount(),
		Final:    final.Amount(),
	}, nil
}

// Resolve returns the domain coupon for a code, for use by checkout
func (s *CouponService) Resolve(ctx context.Context, code string) (*promotion.Coupon, error) {
	return s.lookup(ctx, promotion.NormalizeCode(code))
}

func (s *CouponService) lookup(ctx context.Context, code string) (*promotion.Coupon, error) {
	if cached, err := s.cache.Get(ctx, code); err == nil && cached != nil {
		return cached, nil
	}

	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, coupon); err != nil {
		s.logger.Warn("Failed to cache coupon", zap.String("code", code), zap.Error(err))
	}

	return coupon, nil
}

func (s *CouponService) mutate(ctx context.Context, id uuid.UUID, op func(*promotion.Coupon) error) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
	}

	if err := op(coupon); err != nil {
		return nil, err
	}

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		s.logger.Error("Failed to update coupon", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update coupon")
	}

	if err := s.cache.Invalidate(ctx, coupon.Code); err != nil {
		s.logger.Warn("Failed to invalidate coupon cache", zap.String("code", coupon.Code), zap.Error(err))
	}

	resp := toCouponResponse(coupon)
	return &resp, nil
}

func (s *CouponService) applyOptionalFields(coupon *promotion.Coupon, description string, minOrder, maxDiscount, validUntil *string) error {
	if description != "" {
		coupon.SetDescription(description)
	}

	if minOrder != nil {
		amount, err := valueobject.NewMoneyINRFromString(*minOrder)
		if err != nil {
			return shared.NewDomainError("INVALID_MIN_ORDER", "Invalid minimum order amount")
		}
		if err := coupon.SetMinOrderAmount(amount); err != nil {
			return err
		}
	}

	if maxDiscount != nil {
		amount, err := valueobject.NewMoneyINRFromString(*maxDiscount)
		if err != nil {
			return shared.NewDomainError("INVALID_MAX_DISCOUNT", "Invalid maximum discount amount")
		}
		if err := coupon.SetMaxDiscountAmount(amount); err != nil {
			return err
		}
	}

	if validUntil != nil && *validUntil != "" {
		until, err := time.Parse(time.RFC3339, *validUntil)
		if err != nil {
			return shared.NewDomainError("INVALID_VALID_UNTIL", "Expiry must be an RFC3339 timestamp")
		}
		coupon.SetValidUntil(until)
	}

	return nil
}
