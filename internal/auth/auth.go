package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/models"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Store is the subset of the database layer auth needs.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateSession(ctx context.Context, sess *models.Session) error
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service issues and verifies login sessions. Tokens are HS256 JWTs that are
// also persisted as session rows, so a logout or a sweep invalidates them
// before their JWT expiry.
type Service struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewService creates an auth service signing with the given secret.
func NewService(store Store, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: []byte(secret), ttl: ttl}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, username, password string) (*models.User, error) {
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Name: name, Username: username, Password: string(hash)}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(u.ID), 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	sess := &models.Session{UserID: u.ID, Token: token, ExpiresAt: expiresAt}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Authenticate resolves a bearer token to its user. The token must carry a
// valid signature and still have a live session row.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	sess, err := s.store.GetSessionByToken(ctx, token)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if sess.Expired(time.Now()) {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uint(userID) != sess.UserID {
		return nil, ErrInvalidToken
	}
	return s.store.GetUserByID(ctx, sess.UserID)
}

// Logout deletes the session row so the token stops resolving.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}
