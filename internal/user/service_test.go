package user

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-backend/internal/auth"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]*User{}}
}

func (m *memoryRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = uuid.NewString()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepo(), auth.NewBcryptPasswordHasher(4))

	u, err := svc.Register(ctx, "  maria ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "maria", u.Username)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	t.Run("Duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "maria", "another1")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("Short password", func(t *testing.T) {
		_, err := svc.Register(ctx, "joao", "12345")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("Blank username", func(t *testing.T) {
		_, err := svc.Register(ctx, "   ", "secret1")
		assert.ErrorIs(t, err, ErrUsernameRequired)
	})

	t.Run("Login success", func(t *testing.T) {
		got, err := svc.Login(ctx, "maria", "secret1")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("Login wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "maria", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Login unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
