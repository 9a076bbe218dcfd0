package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles the admin-facing user management operations.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetAllUsers retrieves all users with password hashes stripped.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

// GetUserByID retrieves a single user with the password hash stripped.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// CreateUser creates a user on the admin path. Role defaults to broker and
// status to active when omitted; the password is hashed only if supplied.
func (s *UserService) CreateUser(user *models.User) (*models.User, error) {
	if user.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, user.Email)
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	if user.Role == "" {
		user.Role = models.RoleBroker
	} else if !user.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, user.Role)
	}
	if user.Status == "" {
		user.Status = models.UserActive
	}
	if user.JoinDate == "" {
		user.JoinDate = time.Now().Format("2006-01-02")
	}
	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created := user.Sanitized()
	return &created, nil
}

// UpdateUser applies the non-empty fields of details to an existing user.
// Email uniqueness is re-checked against all other users and a new password
// is rehashed only when supplied.
func (s *UserService) UpdateUser(id string, details models.User) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if details.Name != "" {
		user.Name = details.Name
	}
	if details.Email != "" {
		if existing, err := s.userRepo.GetByEmail(details.Email); err == nil && existing != nil && existing.ID != id {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, details.Email)
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing email: %w", err)
		}
		user.Email = details.Email
	}
	if details.Role != "" {
		if !details.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, details.Role)
		}
		user.Role = details.Role
	}
	if details.Status != "" {
		user.Status = details.Status
	}
	if details.JoinDate != "" {
		user.JoinDate = details.JoinDate
	}
	if details.LastLogin != "" {
		user.LastLogin = details.LastLogin
	}
	if details.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(details.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated := user.Sanitized()
	return &updated, nil
}

// DeleteUser removes a user. Admin accounts cannot be deleted through this
// path.
func (s *UserService) DeleteUser(id string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return fmt.Errorf("%w: admin accounts cannot be deleted", ErrForbidden)
	}
	return s.userRepo.Delete(id)
}
