package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Default admin account ensured at startup. The password is reset to the
// default whenever it stops matching, so a fresh deployment always has a
// known way in.
const (
	defaultAdminEmail    = "admin@admin.com"
	defaultAdminPassword = "admin123"
	defaultAdminName     = "Admin"
)

// Claims is the JWT payload asserting an authenticated identity and role.
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// HashPassword returns the bcrypt hash of a plaintext password. The salt is
// random per call, so hashing the same input twice yields different outputs.
func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// A mismatch returns (false, nil); only a malformed stored hash is an error.
func (s *AuthService) VerifyPassword(password, hashedPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("malformed password hash: %w", err)
}

// RegisterBroker registers a self-service broker account. Role and status are
// forced regardless of what the caller supplied.
func (s *AuthService) RegisterBroker(user *models.User) error {
	if user.Email == "" || user.Password == "" {
		return fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, user.Email)
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}

	hashed, err := s.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.Role = models.RoleBroker
	user.Status = models.UserActive
	if user.JoinDate == "" {
		user.JoinDate = time.Now().Format("2006-01-02")
	}

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register broker: %w", err)
	}
	return nil
}

// Login authenticates by email and password and returns a signed token along
// with the sanitized user. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.VerifyPassword(password, user.Password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	// Stamp the login time. Losing the stamp is not worth failing the login.
	user.LastLogin = time.Now().Format(time.RFC3339)
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("Failed to record last login for %s: %v", user.Email, err)
	}

	sanitized := user.Sanitized()
	return token, &sanitized, nil
}

// IssueToken signs a JWT carrying the user's identity and role.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDurat)),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken parses and validates a JWT, returning the claims if valid.
// Expiry, structural and signature failures map to distinct sentinel errors.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// EnsureDefaultAdmin creates the default admin account if absent, and resets
// its password to the default if it no longer matches. Idempotent, intended
// to run once at process start.
func (s *AuthService) EnsureDefaultAdmin() error {
	admin, err := s.userRepo.GetByEmail(defaultAdminEmail)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to look up admin user: %w", err)
		}

		hashed, hashErr := s.HashPassword(defaultAdminPassword)
		if hashErr != nil {
			return hashErr
		}
		admin = &models.User{
			Name:     defaultAdminName,
			Email:    defaultAdminEmail,
			Role:     models.RoleAdmin,
			Status:   models.UserActive,
			JoinDate: time.Now().Format("2006-01-02"),
			Password: hashed,
		}
		if err := s.userRepo.Create(admin); err != nil {
			return fmt.Errorf("failed to create default admin: %w", err)
		}
		log.Printf("Default admin user created (%s)", defaultAdminEmail)
		return nil
	}

	matches, err := s.VerifyPassword(defaultAdminPassword, admin.Password)
	if err != nil {
		// Stored hash is unreadable; treat it like a mismatch and reset.
		log.Printf("Admin password hash unreadable, resetting: %v", err)
		matches = false
	}
	if !matches {
		hashed, hashErr := s.HashPassword(defaultAdminPassword)
		if hashErr != nil {
			return hashErr
		}
		admin.Password = hashed
		if err := s.userRepo.Update(admin); err != nil {
			return fmt.Errorf("failed to reset admin password: %w", err)
		}
		log.Printf("Admin password reset to default (%s)", defaultAdminEmail)
	}
	return nil
}
