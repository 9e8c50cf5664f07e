package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, user, err := env.auth.Signup(ctx, SignupInput{
		Name:     " Nadia ",
		Email:    "Nadia@Example.com",
		Password: "secret1",
		Role:     domain.RoleOwner,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nadia", user.Name)
	assert.Equal(t, "nadia@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	principal, err := env.auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, domain.RoleOwner, principal.Role)

	_, _, err = env.auth.Signup(ctx, SignupInput{Name: "Other", Email: "nadia@example.com", Password: "secret1", Role: domain.RoleRenter})
	assert.ErrorIs(t, err, domain.ErrValidation)

	token, logged, err := env.auth.Login(ctx, "NADIA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	_, _, err = env.auth.Login(ctx, "nadia@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = env.auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input SignupInput
	}{
		{"missing name", SignupInput{Email: "a@example.com", Password: "secret1", Role: domain.RoleRenter}},
		{"bad email", SignupInput{Name: "A", Email: "not-an-email", Password: "secret1", Role: domain.RoleRenter}},
		{"short password", SignupInput{Name: "A", Email: "a@example.com", Password: "12345", Role: domain.RoleRenter}},
		{"admin role", SignupInput{Name: "A", Email: "a@example.com", Password: "secret1", Role: domain.RoleAdmin}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.auth.Signup(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestParseTokenRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	user := domain.NewUser("Nadia", "nadia@example.com", domain.RoleRenter)

	t.Run("garbage", func(t *testing.T) {
		_, err := env.auth.ParseToken("not.a.token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewAuthService(env.store.Users, "test-secret", -time.Minute, env.auth.log)
		token, err := expired.IssueToken(user)
		require.NoError(t, err)

		_, err = env.auth.ParseToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewAuthService(env.store.Users, "another-secret", time.Hour, env.auth.log)
		token, err := other.IssueToken(user)
		require.NoError(t, err)

		_, err = env.auth.ParseToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unsigned", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": user.ID.String(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = env.auth.ParseToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestChangeRoleOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)

	_, err := env.users.ChangeRole(ctx, renter.ID, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrValidation)

	user, err := env.users.ChangeRole(ctx, renter.ID, domain.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, user.Role)
	assert.True(t, user.RoleLocked)

	_, err = env.users.ChangeRole(ctx, renter.ID, domain.RoleRenter)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := env.users.GetUser(ctx, renter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, stored.Role)
}

func TestAuthenticateUsesStoredRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, user, err := env.auth.Signup(ctx, SignupInput{Name: "Rahim", Email: "rahim@example.com", Password: "secret1", Role: domain.RoleRenter})
	require.NoError(t, err)

	_, err = env.users.ChangeRole(ctx, user.ID, domain.RoleOwner)
	require.NoError(t, err)

	principal, err := env.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, domain.RoleOwner, principal.Role)

	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)
	_, err = env.leases.CreateLeaseRequest(ctx, principal, LeaseRequestInput{ListingID: listing.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.auth.Authenticate(ctx, "not.a.token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	ghost, err := env.auth.IssueToken(domain.NewUser("Ghost", "ghost@example.com", domain.RoleRenter))
	require.NoError(t, err)
	_, err = env.auth.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
