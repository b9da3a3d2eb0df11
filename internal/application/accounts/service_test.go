package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/domain/user"
	"github.com/adsforge/adsforge/internal/infrastructure/auth/jwt"
	"github.com/adsforge/adsforge/internal/testutil"
	"github.com/adsforge/adsforge/pkg/errors"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]*user.User
	logins  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[uuid.UUID]*user.User{},
		byEmail: map[string]*user.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return errors.Conflict("email already registered")
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errors.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errors.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error { return nil }

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return nil
}

func (f *fakeUserRepo) RecordLogin(_ context.Context, id uuid.UUID) error {
	f.logins++
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, filter user.ListFilter) ([]*user.User, int, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error { return nil }

func newTestService(repo user.Repository) *Service {
	cfg := config.AuthConfig{
		JWTSecret:       "test-secret-for-account-service-!!",
		TokenTTL:        15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "adsforge-test",
	}
	return NewService(repo, jwt.NewManager(cfg), jwt.NewHasher(4), nil, testutil.NewMockLogger())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Jane.Doe@Example.COM ",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", u.Email)
	// Display name falls back to the email when omitted.
	assert.Equal(t, "jane.doe@example.com", u.DisplayName)
	assert.Equal(t, user.RoleMember, u.Role)
	assert.NotEqual(t, "correct horse battery", u.PasswordHash)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "long enough pw"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestLoginIssuesTokens(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), LoginInput{
		Email:    "JANE@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.Equal(t, 1, repo.logins)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, unknownErr := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever here"})
	_, wrongErr := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "wrong password!"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.True(t, errors.IsCode(wrongErr, errors.ErrCodeUnauthorized))
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	u.Status = user.StatusDisabled

	_, err = svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "correct horse battery"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), res.Tokens.AccessToken)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthorized))

	rotated, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.Tokens.AccessToken)
}
