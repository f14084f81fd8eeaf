package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/attestation/internal/identity/domain"
)

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*domain.User)}
}

func (r *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByWalletAddress(_ context.Context, wallet string) (*domain.User, error) {
	for _, u := range r.users {
		if u.WalletAddress == wallet {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*IdentityCommandService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	tokens := NewTokenService("test-secret", time.Hour)
	return NewIdentityCommandService(repo, tokens, nil), repo
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	id, err := svc.Register(ctx, RegisterCommand{
		Email:         "agency@example.com",
		Password:      "secret",
		Name:          "某机构",
		WalletAddress: "0xABC123",
		Role:          domain.RoleAgency,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	u := repo.users[id]
	require.NotNil(t, u)
	assert.Equal(t, "0xabc123", u.WalletAddress)
	assert.NotEqual(t, "secret", u.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	cmd := RegisterCommand{Email: "gov@example.com", Password: "pw", Role: domain.RoleGovernment}
	_, err := svc.Register(ctx, cmd)
	require.NoError(t, err)

	_, err = svc.Register(ctx, cmd)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDuplicateWallet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, RegisterCommand{
		Email: "a@example.com", Password: "pw", WalletAddress: "0xABC", Role: domain.RoleAgency,
	})
	require.NoError(t, err)

	// 大小写不同的同一地址也视为重复
	_, err = svc.Register(ctx, RegisterCommand{
		Email: "b@example.com", Password: "pw", WalletAddress: "0xabc", Role: domain.RoleAgency,
	})
	assert.ErrorIs(t, err, ErrWalletTaken)
}

func TestRegisterInvalidRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, RegisterCommand{
		Email: "x@example.com", Password: "pw", Role: domain.UserRole("Admin"),
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, RegisterCommand{
		Email: "gov@example.com", Password: "secret", Role: domain.RoleGovernment,
	})
	require.NoError(t, err)

	token, expiresAt, err := svc.Login(ctx, LoginCommand{Email: "gov@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	_, _, err = svc.Login(ctx, LoginCommand{Email: "gov@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginCommand{Email: "nobody@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithWallet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, RegisterCommand{
		Email: "agency@example.com", Password: "pw", WalletAddress: "0xDEF456", Role: domain.RoleAgency,
	})
	require.NoError(t, err)

	token, _, err := svc.LoginWithWallet(ctx, WalletLoginCommand{WalletAddress: "0xdef456"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.LoginWithWallet(ctx, WalletLoginCommand{WalletAddress: "0xunknown"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.LoginWithWallet(ctx, WalletLoginCommand{WalletAddress: "   "})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	user := &domain.User{ID: 9, Role: domain.RoleGovernment}

	signed, _, err := tokens.Issue(user)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, domain.RoleGovernment, claims.Role)

	other := NewTokenService("other-secret", time.Hour)
	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
