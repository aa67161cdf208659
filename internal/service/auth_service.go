package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonnronanmn/movies-api/internal/models"
	"github.com/jonnronanmn/movies-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordBytes = 72

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
}

// LoginLimiter cuenta los logins fallidos por email. Cada implementación
// decide qué hacer si su backend no responde.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) bool
	Fail(ctx context.Context, key string)
	Reset(ctx context.Context, key string)
}

type AuthService struct {
	users   UserStore
	tokens  *TokenService
	limiter LoginLimiter
}

func NewAuthService(users UserStore, tokens *TokenService, limiter LoginLimiter) *AuthService {
	return &AuthService{users: users, tokens: tokens, limiter: limiter}
}

// ================== REGISTRO Y LOGIN ==================

// Register crea un usuario nuevo, siempre sin permisos de admin.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeFailure("find user by email", err)
	}
	if existing != nil {
		return nil, invalid("email already registered")
	}

	// bcrypt solo usa los primeros 72 bytes (no runas)
	if len(req.Password) > maxPasswordBytes {
		return nil, invalid(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, invalid("email already registered")
		}
		return nil, storeFailure("insert user", err)
	}
	return u, nil
}

// Login valida credenciales y devuelve el access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(&req); err != nil {
		return "", err
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, req.Email) {
		return "", &Error{Kind: ErrTooManyAttempts, Msg: "too many failed login attempts, try again later"}
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", storeFailure("find user by email", err)
	}
	if u == nil {
		s.fail(ctx, req.Email)
		return "", notFound("no email found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.fail(ctx, req.Email)
		return "", &Error{Kind: ErrInvalidCredentials, Msg: "invalid password"}
	}

	if s.limiter != nil {
		s.limiter.Reset(ctx, req.Email)
	}
	return s.tokens.Issue(u)
}

// Details devuelve el perfil del propio usuario, sin el hash del password.
func (s *AuthService) Details(ctx context.Context, id *models.Identity) (*models.UserSummary, error) {
	if id == nil {
		return nil, unauthenticated("no identity in request")
	}
	u, err := s.users.FindByID(ctx, id.UserID)
	if err != nil {
		return nil, storeFailure("find user by id", err)
	}
	if u == nil {
		return nil, notFound("user not found")
	}
	sum := u.Summary()
	return &sum, nil
}

func (s *AuthService) fail(ctx context.Context, email string) {
	if s.limiter != nil {
		s.limiter.Fail(ctx, email)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
