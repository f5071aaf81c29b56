package repository_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/granohq/accessd/internal/entity"
	"github.com/granohq/accessd/internal/repository"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	repo *repository.UserRepository
}

func (ts *UserRepositoryTestSuite) SetupTest() {
	ts.repo = repository.NewUserRepository(repository.SetupTestDatabase(ts.T()))
}

func TestUserRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (ts *UserRepositoryTestSuite) TestCreateAndFindByEmail() {
	ctx := context.Background()

	user := entity.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        "created@example.com",
		PasswordHash: "hashed_password_123",
		FirstName:    "First",
		LastName:     "Last",
		Status:       entity.StatusActive,
	}

	err := ts.repo.Create(ctx, user)
	ts.Require().NoError(err)

	got, err := ts.repo.FindByEmail(ctx, user.Email)
	ts.Require().NoError(err)
	ts.Require().Equal(user.ID, got.ID)
	ts.Require().Equal(user.Email, got.Email)
	ts.Require().Equal(user.PasswordHash, got.PasswordHash)
	ts.Require().Equal(entity.StatusActive, got.Status)
	ts.Require().False(got.IsSuperAdmin)
	ts.Require().False(got.CreatedAt.IsZero())
}

func (ts *UserRepositoryTestSuite) TestFindByEmail() {
	ctx := context.Background()

	user := entity.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        "lookup@example.com",
		PasswordHash: "hashed_password_123",
		Status:       entity.StatusActive,
	}

	err := ts.repo.Create(ctx, user)
	ts.Require().NoError(err)

	testCases := []struct {
		name  string
		email string
		errFn require.ErrorAssertionFunc
	}{
		{
			name:  "existing user",
			email: user.Email,
			errFn: require.NoError,
		},
		{
			name:  "user not found",
			email: "ghost@example.com",
			errFn: func(t require.TestingT, err error, _ ...any) {
				require.ErrorIs(t, err, entity.ErrNotFound)
			},
		},
	}

	for _, tc := range testCases {
		ts.Run(tc.name, func() {
			got, err := ts.repo.FindByEmail(ctx, tc.email)
			tc.errFn(ts.T(), err)

			if tc.name == "existing user" {
				ts.Require().Equal(user.ID, got.ID)
			}
		})
	}
}

func (ts *UserRepositoryTestSuite) TestCreateDuplicateEmail() {
	ctx := context.Background()

	user := entity.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        "dup@example.com",
		PasswordHash: "hashed_password_123",
		Status:       entity.StatusActive,
	}

	err := ts.repo.Create(ctx, user)
	ts.Require().NoError(err)

	user.ID = uuid.Must(uuid.NewV4())
	err = ts.repo.Create(ctx, user)
	ts.Require().Error(err)
}
