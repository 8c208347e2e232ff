package service

import (
	"context"
	"testing"

	"homestay/internal/database"
	"homestay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	repo := new(mockRepo)
	svc := NewUserService(repo, bcrypt.MinCost, testLogger())

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)

	user, err := svc.Register(context.Background(), "Alice", " ALICE@Example.com ", "secret-password", "")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleGuest, user.Role, "role defaults to guest")
	assert.NotEqual(t, "secret-password", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-password")))
}

func TestRegisterValidation(t *testing.T) {
	repo := new(mockRepo)
	svc := NewUserService(repo, bcrypt.MinCost, testLogger())

	cases := []struct {
		name     string
		userName string
		email    string
		password string
		role     string
	}{
		{"empty name", "", "a@b.com", "secret-password", ""},
		{"bad email", "Alice", "not-an-email", "secret-password", ""},
		{"short password", "Alice", "a@b.com", "short", ""},
		{"bad role", "Alice", "a@b.com", "secret-password", "admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.userName, tc.email, tc.password, tc.role)
			assert.Error(t, err)
		})
	}

	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := new(mockRepo)
	svc := NewUserService(repo, bcrypt.MinCost, testLogger())

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(database.ErrEmailTaken)

	_, err := svc.Register(context.Background(), "Alice", "a@b.com", "secret-password", models.RoleHost)
	assert.ErrorIs(t, err, database.ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	repo := new(mockRepo)
	svc := NewUserService(repo, bcrypt.MinCost, testLogger())

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: 1, Email: "a@b.com", PasswordHash: string(hash)}
	repo.On("GetUserByEmail", mock.Anything, "a@b.com").Return(user, nil)

	got, err := svc.Authenticate(context.Background(), "A@B.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = svc.Authenticate(context.Background(), "a@b.com", "wrong-password")
	assert.ErrorIs(t, err, database.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	repo := new(mockRepo)
	svc := NewUserService(repo, bcrypt.MinCost, testLogger())

	repo.On("GetUserByEmail", mock.Anything, "missing@b.com").Return(nil, database.ErrUserNotFound)

	// Unknown email and wrong password are indistinguishable.
	_, err := svc.Authenticate(context.Background(), "missing@b.com", "whatever")
	assert.ErrorIs(t, err, database.ErrInvalidCredentials)
}
