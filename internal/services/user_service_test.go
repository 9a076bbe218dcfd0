package services_test

import (
	"testing"

	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/repositories"
	"github.com/Malindup2/RS-CarPoint/internal/services"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_CreateUser(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	userService := services.NewUserService(repo)

	created, err := userService.CreateUser(&models.User{
		Name:     "New Broker",
		Email:    "new@example.com",
		Password: "secret1",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleBroker, created.Role, "role defaults to broker")
	assert.Equal(t, models.UserActive, created.Status, "status defaults to active")
	assert.Empty(t, created.Password, "response must not carry the hash")

	stored, err := repo.GetByEmail("new@example.com")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))

	// Email is required
	_, err = userService.CreateUser(&models.User{Name: "No Email"})
	assert.ErrorIs(t, err, services.ErrValidation)

	// A user may be created without a password; nothing gets hashed
	passwordless, err := userService.CreateUser(&models.User{Name: "NP", Email: "np@example.com"})
	assert.NoError(t, err)
	storedNP, err := repo.GetByID(passwordless.ID)
	assert.NoError(t, err)
	assert.Empty(t, storedNP.Password)

	// Unknown roles are rejected
	_, err = userService.CreateUser(&models.User{Name: "X", Email: "x@example.com", Role: "superuser"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestUserService_CreateUser_DuplicateEmailCaseInsensitive(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	userService := services.NewUserService(repo)

	_, err := userService.CreateUser(&models.User{Name: "First", Email: "Broker@Example.com"})
	assert.NoError(t, err)

	_, err = userService.CreateUser(&models.User{Name: "Second", Email: "broker@example.com"})
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
}

func TestUserService_UpdateUser(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	userService := services.NewUserService(repo)

	created, err := userService.CreateUser(&models.User{Name: "Broker", Email: "broker@example.com", Password: "secret1"})
	assert.NoError(t, err)
	other, err := userService.CreateUser(&models.User{Name: "Other", Email: "other@example.com"})
	assert.NoError(t, err)

	before, err := repo.GetByID(created.ID)
	assert.NoError(t, err)

	// Partial update leaves the password untouched
	updated, err := userService.UpdateUser(created.ID, models.User{Name: "Renamed"})
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "broker@example.com", updated.Email)

	after, err := repo.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, before.Password, after.Password)

	// A new password is rehashed
	_, err = userService.UpdateUser(created.ID, models.User{Password: "newsecret"})
	assert.NoError(t, err)
	rehashed, err := repo.GetByID(created.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, before.Password, rehashed.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rehashed.Password), []byte("newsecret")))

	// Taking another user's email is a conflict
	_, err = userService.UpdateUser(created.ID, models.User{Email: "OTHER@example.com"})
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)

	// Keeping your own email is fine
	_, err = userService.UpdateUser(created.ID, models.User{Email: "broker@example.com"})
	assert.NoError(t, err)

	_, err = userService.UpdateUser("no-such-user", models.User{Name: "X"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_ = other
}

func TestUserService_DeleteUser(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	userService := services.NewUserService(repo)

	admin, err := userService.CreateUser(&models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin})
	assert.NoError(t, err)
	broker, err := userService.CreateUser(&models.User{Name: "Broker", Email: "broker@example.com"})
	assert.NoError(t, err)

	// Admin accounts cannot be deleted through this path
	err = userService.DeleteUser(admin.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Deleting a broker succeeds, and a later lookup is a not-found
	assert.NoError(t, userService.DeleteUser(broker.ID))
	_, err = userService.GetUserByID(broker.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = userService.DeleteUser("no-such-user")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUserService_ReadsStripPassword(t *testing.T) {
	repo := repositories.NewMockUserRepository()
	userService := services.NewUserService(repo)

	created, err := userService.CreateUser(&models.User{Name: "Broker", Email: "broker@example.com", Password: "secret1"})
	assert.NoError(t, err)

	fetched, err := userService.GetUserByID(created.ID)
	assert.NoError(t, err)
	assert.Empty(t, fetched.Password)

	all, err := userService.GetAllUsers()
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Empty(t, all[0].Password)
}
