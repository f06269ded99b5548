// Package auth issues and validates the JWTs that tie watch history,
// progress pointers and watchlists to a user account.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"streame/internal/remote"
	"streame/internal/shared"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	usersTable         = "users"
	refreshTokensTable = "refresh_tokens"
)

// User is one registered account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Service registers users and mints access/refresh token pairs.
type Service struct {
	store           remote.Store
	jwtSecret       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

func NewService(store remote.Store, jwtSecret string, accessTokenTTL, refreshTokenTTL time.Duration) *Service {
	return &Service{
		store:           store,
		jwtSecret:       jwtSecret,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		now:             time.Now,
	}
}

// Register creates a new account with the given email and password.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if existing, err := s.findByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailInUse
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  hashed,
		CreatedAt: s.now().UTC(),
	}

	row := remote.Row{
		"id":         user.ID,
		"email":      user.Email,
		"password":   user.Password,
		"created_at": user.CreatedAt,
	}
	if err := s.store.Upsert(ctx, usersTable, row, []string{"id"}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *Service) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *User, err error) {
	user, err = s.findByEmail(ctx, email)
	if err != nil {
		return "", "", nil, err
	}
	if user == nil {
		// Dummy compare so misses take as long as hits.
		VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(user.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err = s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err = s.createRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

// RefreshAccessToken exchanges a live refresh token for a new access token.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	var rows []struct {
		ID        string    `json:"id"`
		UserID    string    `json:"user_id"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	filter := remote.Filter{"token": refreshToken}
	if err := s.store.Select(ctx, refreshTokensTable, filter, "", 1, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrInvalidToken
	}

	rt := rows[0]
	if s.now().After(rt.ExpiresAt) {
		_ = s.store.Delete(ctx, refreshTokensTable, remote.Filter{"id": rt.ID})
		return "", ErrInvalidToken
	}

	user, err := s.findByID(ctx, rt.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidToken
	}
	return s.generateAccessToken(user)
}

// RevokeToken deletes a refresh token so it can no longer mint access
// tokens. Revoking an unknown token is not an error.
func (s *Service) RevokeToken(ctx context.Context, refreshToken string) error {
	return s.store.Delete(ctx, refreshTokensTable, remote.Filter{"token": refreshToken})
}

// ValidateToken parses and verifies an access token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*shared.AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := mapClaims["user_id"].(string)
	email, _ := mapClaims["email"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	return &shared.AuthClaims{UserID: userID, Email: email}, nil
}

func (s *Service) generateAccessToken(user *User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.accessTokenTTL).Unix(),
		"iat":     now.Unix(),
		"type":    "access",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *Service) createRefreshToken(ctx context.Context, user *User) (string, error) {
	token := uuid.New().String()
	row := remote.Row{
		"id":         uuid.New().String(),
		"user_id":    user.ID,
		"token":      token,
		"expires_at": s.now().Add(s.refreshTokenTTL),
	}
	if err := s.store.Upsert(ctx, refreshTokensTable, row, []string{"id"}); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, remote.Filter{"email": email})
}

func (s *Service) findByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, remote.Filter{"id": id})
}

func (s *Service) findOne(ctx context.Context, filter remote.Filter) (*User, error) {
	var rows []struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Password  string    `json:"password"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := s.store.Select(ctx, usersTable, filter, "", 1, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &User{ID: r.ID, Email: r.Email, Password: r.Password, CreatedAt: r.CreatedAt}, nil
}
