package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var ErrInvalidCredentials = domain.Forbidden("invalid email or password")

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	hashCost int
	log      *slog.Logger
}

func NewAuthService(users repository.UserRepository, secret string, tokenTTL time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		hashCost: bcrypt.DefaultCost,
		log:      log,
	}
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (string, *domain.User, error) {
	const op = "service.auth.Signup"
	log := s.log.With(slog.String("op", op))

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", nil, domain.Invalid("name is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(input.Email))
	if err != nil {
		return "", nil, domain.Invalid("email is invalid")
	}
	if len(input.Password) < minPasswordLength {
		return "", nil, domain.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if input.Role != domain.RoleRenter && input.Role != domain.RoleOwner {
		return "", nil, domain.Invalid("role must be renter or owner")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return "", nil, fmt.Errorf("%s: hash password: %w", op, err)
	}

	user := domain.NewUser(name, strings.ToLower(addr.Address), input.Role)
	user.PasswordHash = string(hash)
	if err := s.users.Create(ctx, user); err != nil {
		log.Info("signup rejected", sl.Err(err))
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user signed up", slog.String("user_id", user.ID.String()), slog.String("role", string(user.Role)))
	return token, user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	const op = "service.auth.Login"
	log := s.log.With(slog.String("op", op))

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		log.Error("failed to load user", sl.Err(err))
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Info("password mismatch", slog.String("user_id", user.ID.String()))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// IssueToken signs an HS256 token carrying the user's id, email and role.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ParseToken(token string) (*domain.Principal, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}

	return &domain.Principal{
		ID:    id,
		Email: claims.Email,
		Role:  domain.Role(claims.Role),
	}, nil
}

// Authenticate validates token and resolves it against the stored user, so
// the principal carries the current role rather than the one signed into the
// token. Tokens of deleted accounts are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	const op = "service.auth.Authenticate"

	principal, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	principal.Email = user.Email
	principal.Role = user.Role
	return principal, nil
}
