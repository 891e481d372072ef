package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/oilmart/backend/internal/domain/identity"
)

// RegisterInput contains registration request data
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// LoginInput contains login request data
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// LoginResult contains the result of a successful login or registration
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// RefreshTokenInput contains token refresh request data
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains new tokens after a refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput identifies the tokens to revoke on logout
type LogoutInput struct {
	UserID       uuid.UUID
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string
}

// GetCurrentUserInput identifies the authenticated user
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// ChangePasswordInput contains password change request data
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains profile update request data
type UpdateProfileInput struct {
	UserID   uuid.UUID
	FullName string
	Phone    string
}

// ListUsersInput contains filters for the admin user listing
type ListUsersInput struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Status   string
}

// UserInfo is the user representation returned to clients
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// UserListResult contains a page of users
type UserListResult struct {
	Users    []UserInfo `json:"users"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

func toUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Phone:       user.Phone,
		Role:        string(user.Role),
		Status:      string(user.Status),
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
