package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active customer with valid input", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)
		assert.Equal(t, "buyer@example.com", user.Email)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "password1", user.PasswordHash)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserRegistered, events[0].EventType())
	})

	t.Run("normalizes email to lower case", func(t *testing.T) {
		user, err := NewUser("  Buyer@Example.COM ", "password1", "Test Buyer")
		require.NoError(t, err)
		assert.Equal(t, "buyer@example.com", user.Email)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NewUser("", "password1", "Test Buyer")
		assert.Error(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "password1", "Test Buyer")
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("buyer@example.com", "short1", "Test Buyer")
		assert.Error(t, err)
	})

	t.Run("rejects password without digits", func(t *testing.T) {
		_, err := NewUser("buyer@example.com", "onlyletters", "Test Buyer")
		assert.Error(t, err)
	})
}

func TestUserVerifyPassword(t *testing.T) {
	user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("password1"))
	assert.False(t, user.VerifyPassword("wrong-password"))
}

func TestUserChangePassword(t *testing.T) {
	t.Run("changes password with correct current password", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		require.NoError(t, user.ChangePassword("password1", "newpassword2"))
		assert.True(t, user.VerifyPassword("newpassword2"))
		assert.False(t, user.VerifyPassword("password1"))
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		err = user.ChangePassword("wrong", "newpassword2")
		assert.Error(t, err)
	})
}

func TestUserUpdateProfile(t *testing.T) {
	user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
	require.NoError(t, err)

	require.NoError(t, user.UpdateProfile("New Name", "+91 98765 43210"))
	assert.Equal(t, "New Name", user.FullName)
	assert.Equal(t, "+91 98765 43210", user.Phone)
}

func TestUserPromoteDemote(t *testing.T) {
	t.Run("promote grants admin role", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)
		user.ClearDomainEvents()

		require.NoError(t, user.Promote())
		assert.True(t, user.IsAdmin())

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserRoleChanged, events[0].EventType())
	})

	t.Run("promote twice fails", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		require.NoError(t, user.Promote())
		assert.Error(t, user.Promote())
	})

	t.Run("demote revokes admin role", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		require.NoError(t, user.Promote())
		require.NoError(t, user.Demote())
		assert.False(t, user.IsAdmin())
	})

	t.Run("demote non-admin fails", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		assert.Error(t, user.Demote())
	})
}

func TestUserBlockUnblock(t *testing.T) {
	t.Run("blocked user cannot login", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		require.NoError(t, user.Block())
		assert.True(t, user.IsBlocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("block twice fails", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		require.NoError(t, user.Block())
		assert.Error(t, user.Block())
	})

	t.Run("unblock restores login", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		require.NoError(t, user.Block())
		require.NoError(t, user.Unblock())
		assert.True(t, user.CanLogin())
	})

	t.Run("unblock active user fails", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		assert.Error(t, user.Unblock())
	})
}

func TestUserLoginTracking(t *testing.T) {
	t.Run("success resets failed attempts", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		user.RecordLoginFailure(5, time.Minute)
		user.RecordLoginFailure(5, time.Minute)
		assert.Equal(t, 2, user.FailedAttempts)

		user.RecordLoginSuccess("203.0.113.7")
		assert.Equal(t, 0, user.FailedAttempts)
		assert.Equal(t, "203.0.113.7", user.LastLoginIP)
		require.NotNil(t, user.LastLoginAt)
	})

	t.Run("locks after max failed attempts", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		locked := false
		for range 3 {
			locked = user.RecordLoginFailure(3, time.Hour)
		}
		assert.True(t, locked)
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock allows login again", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		require.NoError(t, user.Lock(-time.Minute))
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("login success clears expired lock", func(t *testing.T) {
		user, err := NewUser("buyer@example.com", "password1", "Test Buyer")
		require.NoError(t, err)

		require.NoError(t, user.Lock(-time.Minute))
		user.RecordLoginSuccess("203.0.113.7")
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Nil(t, user.LockedUntil)
	})
}
