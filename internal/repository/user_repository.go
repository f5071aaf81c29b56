package repository

import (
	"context"
	"errors"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/granohq/accessd/internal/entity"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (entity.User, error) {
	q := `
	SELECT id, email, COALESCE(password_hash, ''), first_name, last_name, status, is_super_admin, created_at, updated_at
	FROM users
	WHERE email = $1`

	var u entity.User

	err := r.db.QueryRow(ctx, q, email).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Status,
		&u.IsSuperAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrNotFound
		}

		return entity.User{}, err
	}

	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user entity.User) error {
	q := `
	INSERT INTO users (id, email, password_hash, first_name, last_name, status, is_super_admin)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, q,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Status,
		user.IsSuperAdmin,
	)
	if err != nil {
		return err
	}

	return nil
}
