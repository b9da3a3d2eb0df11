package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/domain/user"
)

func testManager(ttl time.Duration) *Manager {
	return NewManager(config.AuthConfig{
		JWTSecret:       "0123456789abcdef0123456789abcdef",
		TokenTTL:        ttl,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "adsforge-test",
	})
}

func testUser() *user.User {
	return &user.User{
		ID:     uuid.New(),
		Email:  "jane@example.com",
		Role:   user.RoleMember,
		Status: user.StatusActive,
	}
}

func TestIssueAndValidate(t *testing.T) {
	m := testManager(15 * time.Minute)
	u := testUser()

	pair, err := m.Issue(u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := m.Validate(pair.AccessToken, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, user.RoleMember, claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestValidateRejectsWrongKind(t *testing.T) {
	m := testManager(15 * time.Minute)
	pair, err := m.Issue(testUser())
	require.NoError(t, err)

	_, err = m.Validate(pair.RefreshToken, KindAccess)
	assert.Error(t, err)

	_, err = m.Validate(pair.RefreshToken, KindRefresh)
	assert.NoError(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := testManager(-time.Minute)
	pair, err := m.Issue(testUser())
	require.NoError(t, err)

	_, err = m.Validate(pair.AccessToken, KindAccess)
	assert.Error(t, err)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	m := testManager(15 * time.Minute)
	other := NewManager(config.AuthConfig{
		JWTSecret:       "ffffffffffffffffffffffffffffffff",
		TokenTTL:        15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "adsforge-test",
	})
	pair, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = m.Validate(pair.AccessToken, KindAccess)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := testManager(15 * time.Minute)
	_, err := m.Validate("not-a-token", KindAccess)
	assert.Error(t, err)
}

func TestHasher(t *testing.T) {
	h := NewHasher(4) // min cost keeps the test fast

	digest, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(digest, "correct horse battery staple"))
	assert.Error(t, h.Compare(digest, "wrong password"))
}

func TestHasherRejectsOverlongPassword(t *testing.T) {
	h := NewHasher(4)
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := h.Hash(string(long))
	assert.Error(t, err)
}
