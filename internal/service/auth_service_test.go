package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonnronanmn/movies-api/internal/models"
	"github.com/jonnronanmn/movies-api/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(maxFailures int) (*AuthService, *memstore.Users, *TokenService) {
	users := memstore.NewUsers()
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(users, tokens, newMemLimiter(maxFailures)), users, tokens
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _, tokens := newAuthFixture(5)
	ctx := context.Background()

	u, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "12345678", u.PasswordHash)

	token, err := svc.Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.False(t, id.IsAdmin)
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	svc, users, _ := newAuthFixture(5)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "  A@B.com ", Password: "12345678"})
	require.NoError(t, err)
	stored, _ := users.FindByEmail(ctx, "a@b.com")
	require.NotNil(t, stored)

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "abcdefgh"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "email already registered", err.Error())
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture(5)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "nope", Password: "short"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "password must be at least 8 characters long", verr.Fields["password"])
}

func TestRegisterRejectsPasswordOver72Bytes(t *testing.T) {
	svc, users, _ := newAuthFixture(5)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: strings.Repeat("x", 80)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "password must be at most 72 bytes", err.Error())

	// 30 runas de 3 bytes: pasa min=8 pero son 90 bytes
	_, err = svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: strings.Repeat("€", 30)})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	stored, _ := users.FindByEmail(ctx, "a@b.com")
	assert.Nil(t, stored)

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: strings.Repeat("x", 72)})
	assert.NoError(t, err)
}

func TestLoginMatchesLegacyMixedCaseEmail(t *testing.T) {
	svc, users, _ := newAuthFixture(5)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.Insert(ctx, &models.User{Email: "Legacy@B.com", PasswordHash: string(hash)}))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "Legacy@B.com", Password: "12345678"})
	assert.NoError(t, err)

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "legacy@b.com", Password: "12345678"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestLoginErrors(t *testing.T) {
	svc, _, _ := newAuthFixture(5)
	ctx := context.Background()
	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "x@b.com", Password: "12345678"})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "wrong-password"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@b.com"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestLoginThrottled(t *testing.T) {
	svc, _, _ := newAuthFixture(2)
	ctx := context.Background()
	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "bad-password"})
		require.True(t, errors.Is(err, ErrInvalidCredentials))
	}

	// ni la clave correcta pasa mientras dure la ventana
	_, err = svc.Login(ctx, models.LoginRequest{Email: "A@b.com", Password: "12345678"})
	assert.True(t, errors.Is(err, ErrTooManyAttempts))
}

func TestLoginSuccessResetsFailures(t *testing.T) {
	users := memstore.NewUsers()
	limiter := newMemLimiter(3)
	svc := NewAuthService(users, NewTokenService("s", time.Hour), limiter)
	ctx := context.Background()
	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)

	_, _ = svc.Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "bad-password"})
	assert.Equal(t, 1, limiter.fails["a@b.com"])

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)
	assert.Zero(t, limiter.fails["a@b.com"])
}

func TestLoginWithoutLimiter(t *testing.T) {
	svc := NewAuthService(memstore.NewUsers(), NewTokenService("s", time.Hour), nil)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "12345678"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDetails(t *testing.T) {
	svc, _, _ := newAuthFixture(5)
	ctx := context.Background()
	u, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)

	sum, err := svc.Details(ctx, &models.Identity{UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, models.UserSummary{ID: u.ID, Email: "a@b.com"}, *sum)

	_, err = svc.Details(ctx, &models.Identity{UserID: primitive.NewObjectID()})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.Details(ctx, nil)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}
