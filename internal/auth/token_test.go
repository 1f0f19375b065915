package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihalsingh571/Apitask/internal/auth"
	"github.com/nihalsingh571/Apitask/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := auth.NewTokenManager("test-secret", time.Hour)
	user := &domain.User{ID: uuid.New(), Email: "a@example.com", Role: domain.RoleAdmin}

	raw, err := m.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	ident, err := m.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, user.ID, ident.UserID)
	assert.Equal(t, domain.RoleAdmin, ident.Role)
	assert.NotEmpty(t, ident.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), ident.ExpiresAt, time.Minute)
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	m := auth.NewTokenManager("test-secret", time.Hour)
	user := &domain.User{ID: uuid.New(), Role: domain.RoleUser}

	first, err := m.Issue(user)
	require.NoError(t, err)
	second, err := m.Issue(user)
	require.NoError(t, err)

	i1, err := m.Parse(first)
	require.NoError(t, err)
	i2, err := m.Parse(second)
	require.NoError(t, err)

	assert.NotEqual(t, i1.TokenID, i2.TokenID)
}

func TestTokenManager_RejectsBadInput(t *testing.T) {
	t.Parallel()

	m := auth.NewTokenManager("test-secret", time.Hour)
	user := &domain.User{ID: uuid.New(), Role: domain.RoleUser}

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		raw, err := m.Issue(user)
		require.NoError(t, err)

		other := auth.NewTokenManager("different-secret", time.Hour)
		_, err = other.Parse(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := auth.NewTokenManager("test-secret", -time.Minute)
		raw, err := short.Issue(user)
		require.NoError(t, err)

		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
