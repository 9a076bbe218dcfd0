package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/repositories"
	"github.com/Malindup2/RS-CarPoint/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

// TestMain is used to setup the test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterBroker(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{
		Name:     "Test Broker",
		Email:    "broker@example.com",
		Password: "password123",
		Role:     models.RoleAdmin, // caller-supplied role must be ignored
	}

	mockRepo.On("GetByEmail", user.Email).Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterBroker(user)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleBroker, user.Role)
	assert.Equal(t, models.UserActive, user.Status)
	assert.NotEqual(t, "password123", user.Password) // hashed before storing
	assert.NotEmpty(t, user.JoinDate)
	mockRepo.AssertExpectations(t)

	// Duplicate email rejected
	mockRepo.On("GetByEmail", "broker@example.com").Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterBroker(&models.User{Name: "Other", Email: "broker@example.com", Password: "x12345"})
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Name:     "Test Broker",
		Email:    "broker@example.com",
		Role:     models.RoleBroker,
		Status:   models.UserActive,
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	token, loggedIn, err := authService.Login("broker@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, loggedIn.Password, "password hash must be stripped")
	assert.NotEmpty(t, loggedIn.LastLogin)
	mockRepo.AssertExpectations(t)

	// The decoded role must match the stored user's role
	claims, err := authService.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleBroker, claims.Role)

	// Wrong password and unknown email return the same error
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, errWrongPassword := authService.Login("broker@example.com", "wrongpassword")
	assert.ErrorIs(t, errWrongPassword, services.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, notFoundErr("user")).Once()
	_, _, errUnknownEmail := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, errUnknownEmail, services.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword, errUnknownEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyPassword(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), "test_jwt_secret")

	hashed, err := authService.HashPassword("secret1")
	assert.NoError(t, err)

	// Hashing is salted: same input, different output
	hashedAgain, err := authService.HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, hashed, hashedAgain)

	ok, err := authService.VerifyPassword("secret1", hashed)
	assert.NoError(t, err)
	assert.True(t, ok)

	// Mismatch is not an error
	ok, err = authService.VerifyPassword("other", hashed)
	assert.NoError(t, err)
	assert.False(t, ok)

	// A malformed stored hash is an error
	_, err = authService.VerifyPassword("secret1", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestAuthService_VerifyToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	secret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, secret)

	user := &models.User{ID: "user-123", Email: "a@b.com", Role: models.RoleAdmin}
	valid, err := authService.IssueToken(user)
	assert.NoError(t, err)

	claims, err := authService.VerifyToken(valid)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		UserID: "user-123",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredString, _ := expired.SignedString([]byte(secret))
	_, err = authService.VerifyToken(expiredString)
	assert.ErrorIs(t, err, services.ErrTokenExpired)

	// Structurally invalid token
	_, err = authService.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, services.ErrTokenMalformed)

	// Wrong signing key
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	foreignString, _ := foreign.SignedString([]byte("other_secret"))
	_, err = authService.VerifyToken(foreignString)
	assert.ErrorIs(t, err, services.ErrTokenSignature)
}

func TestAuthService_EnsureDefaultAdmin(t *testing.T) {
	t.Run("creates admin when absent", func(t *testing.T) {
		repo := repositories.NewMockUserRepository()
		authService := services.NewAuthService(repo, "test_jwt_secret")

		err := authService.EnsureDefaultAdmin()
		assert.NoError(t, err)

		admin, err := repo.GetByEmail("admin@admin.com")
		assert.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, admin.Role)
		assert.Equal(t, models.UserActive, admin.Status)

		// The seeded credentials must work
		token, loggedIn, err := authService.Login("admin@admin.com", "admin123")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, models.RoleAdmin, loggedIn.Role)
	})

	t.Run("resets a drifted password", func(t *testing.T) {
		repo := repositories.NewMockUserRepository()
		authService := services.NewAuthService(repo, "test_jwt_secret")

		drifted, _ := bcrypt.GenerateFromPassword([]byte("something-else"), bcrypt.DefaultCost)
		err := repo.Create(&models.User{
			Name:     "Admin",
			Email:    "admin@admin.com",
			Role:     models.RoleAdmin,
			Status:   models.UserActive,
			Password: string(drifted),
		})
		assert.NoError(t, err)

		err = authService.EnsureDefaultAdmin()
		assert.NoError(t, err)

		_, _, err = authService.Login("admin@admin.com", "admin123")
		assert.NoError(t, err)
	})

	t.Run("is idempotent", func(t *testing.T) {
		repo := repositories.NewMockUserRepository()
		authService := services.NewAuthService(repo, "test_jwt_secret")

		assert.NoError(t, authService.EnsureDefaultAdmin())
		assert.NoError(t, authService.EnsureDefaultAdmin())

		users, err := repo.GetAll()
		assert.NoError(t, err)
		assert.Len(t, users, 1)
	})
}
