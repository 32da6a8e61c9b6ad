package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvelmart/shop/internal/models"
)

func TestSessionRoundTrip(t *testing.T) {
	mgr := NewSessionManager("test-secret", time.Hour)

	token, err := mgr.Issue(models.User{Name: "Peter", Email: "p@dailybugle.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "Peter", claims.Name)
	assert.Equal(t, "p@dailybugle.com", claims.Email)
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a", time.Hour).Issue(models.User{Name: "Peter", Email: "p@dailybugle.com"})
	require.NoError(t, err)

	_, err = NewSessionManager("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionRejectsGarbage(t *testing.T) {
	mgr := NewSessionManager("test-secret", time.Hour)
	_, err := mgr.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionRejectsExpired(t *testing.T) {
	mgr := NewSessionManager("test-secret", -time.Minute)
	token, err := mgr.Issue(models.User{Name: "Peter", Email: "p@dailybugle.com"})
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
