package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilmart/backend/internal/domain/identity"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/infrastructure/auth"
)

// UserService handles back-office user administration
type UserService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewUserService creates a new user administration service
func NewUserService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// EnsureAdmin verifies the caller against the stored user row. The
// role claim in a token can outlive a demotion or block, so admin
// routes re-check the database before any back-office operation.
func (s *UserService) EnsureAdmin(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("NOT_ADMIN", "Admin privileges required")
	}
	if user.Status == identity.UserStatusBlocked {
		return shared.NewDomainError("ACCOUNT_BLOCKED", "Account is blocked")
	}
	if !user.IsAdmin() {
		return shared.NewDomainError("NOT_ADMIN", "Admin privileges required")
	}
	return nil
}

// ListUsers returns a paginated listing for the admin panel
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*UserListResult, error) {
	filter := identity.UserFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
		Search:   input.Search,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if input.Role != "" {
		role := identity.UserRole(input.Role)
		filter.Role = &role
	}
	if input.Status != "" {
		status := identity.UserStatus(input.Status)
		filter.Status = &status
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, toUserInfo(user))
	}

	return &UserListResult{
		Users:    infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// GetUser returns a single user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := toUserInfo(user)
	return &info, nil
}

// PromoteUser grants the admin role to a user
func (s *UserService) PromoteUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.Promote()
	})
}

// DemoteUser revokes the admin role from a user. The last remaining
// admin cannot demote themselves out of the back office.
func (s *UserService) DemoteUser(ctx context.Context, id, actorID uuid.UUID) (*UserInfo, error) {
	if id == actorID {
		return nil, shared.NewDomainError("SELF_DEMOTE", "Administrators cannot demote themselves")
	}
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.Demote()
	})
}

// BlockUser blocks an account and force-revokes its outstanding tokens
func (s *UserService) BlockUser(ctx context.Context, id, actorID uuid.UUID) (*UserInfo, error) {
	if id == actorID {
		return nil, shared.NewDomainError("SELF_BLOCK", "Administrators cannot block themselves")
	}

	info, err := s.mutate(ctx, id, func(user *identity.User) error {
		return user.Block()
	})
	if err != nil {
		return nil, err
	}

	// Kill every token issued before the block
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate tokens for blocked user",
			zap.String("user_id", id.String()),
			zap.Error(err))
	}

	return info, nil
}

// UnblockUser restores a blocked account
func (s *UserService) UnblockUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	return s.mutate(ctx, id, func(user *identity.User) error {
		return user.Unblock()
	})
}

func (s *UserService) mutate(ctx context.Context, id uuid.UUID, op func(*identity.User) error) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := op(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	info := toUserInfo(user)
	return &info, nil
}
