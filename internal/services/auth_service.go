package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/models"
)

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordUnchanged  = errors.New("new password must differ from the current password")
)

// UserStore persists user records. A missing user is (nil, nil), not an
// error, so callers decide how absence surfaces.
type UserStore interface {
	FindByUsername(username string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Create(u *models.User) error
	Update(u *models.User) error
	Count() (int64, error)
	List(page, limit int) ([]models.User, int64, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Authenticate returns the user for valid active credentials and (nil, nil)
// otherwise. Unknown username, deactivated account and wrong password are
// indistinguishable to the caller, which blocks username enumeration.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	if !VerifyPassword(password, user.Password) {
		return nil, nil
	}
	return user, nil
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		return nil, errors.New("username must be at least 3 characters")
	}
	if len(req.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Password: hash,
		Role:     models.RoleVolunteer,
		Email:    req.Email,
		FullName: req.FullName,
		IsActive: true,
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword re-verifies the current password before accepting a new one.
func (s *AuthService) ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(currentPassword, user.Password) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}
	if newPassword == currentPassword {
		return ErrPasswordUnchanged
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hash
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// EnsureAdminUser seeds a super_admin on an empty user table. No-op when any
// user exists or no bootstrap password is configured.
func (s *AuthService) EnsureAdminUser(username, password string) error {
	if password == "" {
		return nil
	}

	count, err := s.users.Count()
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:       uuid.New(),
		Username: username,
		Password: hash,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := s.users.Create(admin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	slog.Info("bootstrap super admin created", "username", username)
	return nil
}
