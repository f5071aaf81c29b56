package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/granohq/accessd/internal/entity"
	"github.com/granohq/accessd/internal/token"
	"github.com/granohq/accessd/pkg/config"
)

type memoryUsers struct {
	byEmail map[string]entity.User
	created []entity.User
	findErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]entity.User)}
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (entity.User, error) {
	if m.findErr != nil {
		return entity.User{}, m.findErr
	}

	user, ok := m.byEmail[email]
	if !ok {
		return entity.User{}, entity.ErrNotFound
	}

	return user, nil
}

func (m *memoryUsers) Create(_ context.Context, user entity.User) error {
	m.byEmail[user.Email] = user
	m.created = append(m.created, user)

	return nil
}

type memoryEvents struct {
	registered []string
	logins     []string
}

func (m *memoryEvents) UserRegistered(_ context.Context, _ uuid.UUID, email string) {
	m.registered = append(m.registered, email)
}

func (m *memoryEvents) UserLogin(_ context.Context, _ uuid.UUID, email string) {
	m.logins = append(m.logins, email)
}

func newTestService(t *testing.T) (*Service, *memoryUsers, *memoryEvents, *token.Signer) {
	t.Helper()

	signer, err := token.NewSigner(config.JWTConfig{
		Secret: "service-test-secret",
		TTL:    time.Hour,
		Issuer: "accessd",
	})
	require.NoError(t, err)

	users := newMemoryUsers()
	events := &memoryEvents{}

	return NewService(users, signer, events), users, events, signer
}

func TestRegister(t *testing.T) {
	s, users, events, _ := newTestService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, " New@Example.COM ", "passw0rd", "New", "User")
	require.NoError(t, err)

	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, entity.StatusActive, user.Status)
	require.Empty(t, user.PasswordHash)
	require.NotEqual(t, uuid.Nil, user.ID)

	require.Len(t, users.created, 1)
	stored := users.created[0]
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "passw0rd", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("passw0rd")))

	require.Equal(t, []string{"new@example.com"}, events.registered)
}

func TestRegister_EmailTaken(t *testing.T) {
	s, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "dup@example.com", "passw0rd", "A", "B")
	require.NoError(t, err)

	_, err = s.Register(ctx, "dup@example.com", "other1pass", "C", "D")
	require.ErrorIs(t, err, entity.ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	s, users, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "bad-email", "passw0rd", "A", "B")
	require.ErrorIs(t, err, entity.ErrEmailInvalidFormat)

	_, err = s.Register(ctx, "ok@example.com", "short1", "A", "B")
	require.ErrorIs(t, err, entity.ErrPasswordInvalidLen)

	require.Empty(t, users.created)
}

func TestLogin(t *testing.T) {
	s, _, events, signer := newTestService(t)
	ctx := context.Background()

	registered, err := s.Register(ctx, "login@example.com", "passw0rd", "A", "B")
	require.NoError(t, err)

	user, signed, err := s.Login(ctx, "Login@Example.com", "passw0rd")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.Empty(t, user.PasswordHash)

	claims, err := signer.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, registered.ID.String(), claims.Subject)
	require.Equal(t, "login@example.com", claims.Email)

	require.Equal(t, []string{"login@example.com"}, events.logins)
}

func TestLogin_UnknownEmail(t *testing.T) {
	s, _, _, _ := newTestService(t)

	_, _, err := s.Login(context.Background(), "ghost@example.com", "passw0rd")
	require.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _, events, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "wrongpw@example.com", "passw0rd", "A", "B")
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "wrongpw@example.com", "passw0rd2")
	require.ErrorIs(t, err, entity.ErrInvalidCredentials)

	require.Empty(t, events.logins)
}

func TestLogin_InactiveUser(t *testing.T) {
	s, users, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "inactive@example.com", "passw0rd", "A", "B")
	require.NoError(t, err)

	user := users.byEmail["inactive@example.com"]
	user.Status = entity.StatusInactive
	users.byEmail["inactive@example.com"] = user

	_, _, err = s.Login(ctx, "inactive@example.com", "passw0rd")
	require.ErrorIs(t, err, entity.ErrInvalidCredentials)
}
