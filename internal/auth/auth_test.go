package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/models"
)

type fakeStore struct {
	users    map[uint]*models.User
	sessions map[string]*models.Session
	nextID   uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uint]*models.User), sessions: make(map[string]*models.Session)}
}

func (s *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = u
	return nil
}

func (s *fakeStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) CreateSession(_ context.Context, sess *models.Session) error {
	s.nextID++
	sess.ID = s.nextID
	s.sessions[sess.Token] = sess
	return nil
}

func (s *fakeStore) GetSessionByToken(_ context.Context, token string) (*models.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, database.ErrNotFound
	}
	return sess, nil
}

func (s *fakeStore) DeleteSession(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(), "test-secret", time.Hour)

	u, err := svc.Register(ctx, "Ada", "ada", "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", u.Password, "password must be hashed")

	_, err = svc.Register(ctx, "Ada Again", "ada", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	token, logged, err := svc.Login(ctx, "ada", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, "test-secret", time.Hour)

	_, err := svc.Register(ctx, "Ada", "ada", "hunter2")
	require.NoError(t, err)
	token, u, err := svc.Login(ctx, "ada", "hunter2")
	require.NoError(t, err)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	_, err = svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with another secret fails even with a session row.
	other := NewService(store, "other-secret", time.Hour)
	_, err = other.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(), "test-secret", time.Hour)

	_, err := svc.Register(ctx, "Ada", "ada", "hunter2")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "ada", "hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredSessionRejected(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store, "test-secret", time.Hour)

	_, err := svc.Register(ctx, "Ada", "ada", "hunter2")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "ada", "hunter2")
	require.NoError(t, err)

	store.sessions[token].ExpiresAt = time.Now().Add(-time.Minute)
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
