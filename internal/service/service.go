// Package service holds the account flows around the decision core:
// registration and login, which is where credentials get issued.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/granohq/accessd/internal/entity"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (entity.User, error)
	Create(ctx context.Context, user entity.User) error
}

type TokenIssuer interface {
	Issue(subjectID uuid.UUID, email string, extra map[string]string, ttl time.Duration) (string, error)
}

type EventPublisher interface {
	UserRegistered(ctx context.Context, userID uuid.UUID, email string)
	UserLogin(ctx context.Context, userID uuid.UUID, email string)
}

type Service struct {
	users  UserRepository
	tokens TokenIssuer
	events EventPublisher
}

func NewService(users UserRepository, tokens TokenIssuer, events EventPublisher) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		events: events,
	}
}

func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (entity.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return entity.User{}, fmt.Errorf("invalid email: %w", err)
	}

	if err := ValidatePassword(password); err != nil {
		return entity.User{}, fmt.Errorf("invalid password: %w", err)
	}

	_, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		return entity.User{}, entity.ErrEmailTaken
	}

	if !errors.Is(err, entity.ErrNotFound) {
		return entity.User{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := entity.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Status:       entity.StatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return entity.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "email", email)
	s.events.UserRegistered(ctx, user.ID, email)

	user.PasswordHash = ""

	return user, nil
}

// Login checks the password and issues a signed credential. Unknown email is
// reported distinctly from a wrong password so the handler can map them to
// 400 vs 401.
func (s *Service) Login(ctx context.Context, email, password string) (entity.User, string, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("invalid email: %w", err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.User{}, "", entity.ErrUserNotFound
		}

		return entity.User{}, "", fmt.Errorf("find user: %w", err)
	}

	if user.Status != entity.StatusActive || user.PasswordHash == "" {
		return entity.User{}, "", entity.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.WarnContext(ctx, "login with wrong password", "email", email)
		return entity.User{}, "", entity.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Email, nil, 0)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	slog.InfoContext(ctx, "user login", "user_id", user.ID)
	s.events.UserLogin(ctx, user.ID, user.Email)

	user.PasswordHash = ""

	return user, signed, nil
}
