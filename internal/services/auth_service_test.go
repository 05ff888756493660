package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/models"
)

type memUserStore struct {
	byID       map[uuid.UUID]*models.User
	byUsername map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:       map[uuid.UUID]*models.User{},
		byUsername: map[string]*models.User{},
	}
}

func (m *memUserStore) FindByUsername(username string) (*models.User, error) {
	if u, ok := m.byUsername[username]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (m *memUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (m *memUserStore) Create(u *models.User) error {
	if _, ok := m.byUsername[u.Username]; ok {
		return errors.New("duplicate username")
	}
	copy := *u
	m.byID[u.ID] = &copy
	m.byUsername[u.Username] = &copy
	return nil
}

func (m *memUserStore) Update(u *models.User) error {
	copy := *u
	m.byID[u.ID] = &copy
	m.byUsername[u.Username] = &copy
	return nil
}

func (m *memUserStore) Count() (int64, error) {
	return int64(len(m.byID)), nil
}

func (m *memUserStore) List(page, limit int) ([]models.User, int64, error) {
	users := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		users = append(users, *u)
	}
	return users, int64(len(users)), nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := newMemUserStore()
	s := NewAuthService(store)

	user, err := s.Register(&dto.RegisterRequest{Username: "maria", Password: "secret1", Email: "maria@example.org"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != models.RoleVolunteer {
		t.Errorf("default role = %s, want volunteer", user.Role)
	}
	if user.Password == "secret1" {
		t.Fatal("password stored in plaintext")
	}

	got, err := s.Authenticate("maria", "secret1")
	if err != nil || got == nil {
		t.Fatalf("authenticate failed: %v, user=%v", err, got)
	}

	// Wrong password, unknown user and inactive account are indistinguishable.
	if u, _ := s.Authenticate("maria", "wrong"); u != nil {
		t.Error("wrong password must not authenticate")
	}
	if u, _ := s.Authenticate("nobody", "secret1"); u != nil {
		t.Error("unknown user must not authenticate")
	}

	stored := store.byUsername["maria"]
	stored.IsActive = false
	if u, _ := s.Authenticate("maria", "secret1"); u != nil {
		t.Error("deactivated user must not authenticate")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := newMemUserStore()
	s := NewAuthService(store)

	if _, err := s.Register(&dto.RegisterRequest{Username: "maria", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := s.Register(&dto.RegisterRequest{Username: "maria", Password: "other123"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if count, _ := store.Count(); count != 1 {
		t.Errorf("expected one user row, got %d", count)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := NewAuthService(newMemUserStore())

	if _, err := s.Register(&dto.RegisterRequest{Username: "maria", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, err := s.Register(&dto.RegisterRequest{Username: "ab", Password: "secret1"}); err == nil {
		t.Error("expected error for short username")
	}
}

func TestPasswordHashingIsSalted(t *testing.T) {
	h1, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ")
	}
	if !VerifyPassword("secret1", h1) {
		t.Error("verify should accept the right password")
	}
	if VerifyPassword("secret2", h1) {
		t.Error("verify should reject the wrong password")
	}
}

func TestUserResponseNeverCarriesPassword(t *testing.T) {
	store := newMemUserStore()
	s := NewAuthService(store)

	user, err := s.Register(&dto.RegisterRequest{Username: "maria", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for name, v := range map[string]interface{}{
		"user response": dto.NewUserResponse(user),
		"model":         user,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", name, err)
		}
		if strings.Contains(strings.ToLower(string(b)), "password") {
			t.Errorf("%s serializes a password field: %s", name, b)
		}
	}
}

func TestChangePassword(t *testing.T) {
	store := newMemUserStore()
	s := NewAuthService(store)

	user, err := s.Register(&dto.RegisterRequest{Username: "maria", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := s.ChangePassword(user.ID, "wrong", "newsecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := s.ChangePassword(user.ID, "secret1", "tiny"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := s.ChangePassword(user.ID, "secret1", "secret1"); !errors.Is(err, ErrPasswordUnchanged) {
		t.Errorf("expected ErrPasswordUnchanged, got %v", err)
	}

	if err := s.ChangePassword(user.ID, "secret1", "newsecret"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if u, _ := s.Authenticate("maria", "newsecret"); u == nil {
		t.Error("new password should authenticate")
	}
	if u, _ := s.Authenticate("maria", "secret1"); u != nil {
		t.Error("old password must not authenticate")
	}
}

func TestEnsureAdminUser(t *testing.T) {
	store := newMemUserStore()
	s := NewAuthService(store)

	if err := s.EnsureAdminUser("admin", "bootstrap1"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	admin, _ := store.FindByUsername("admin")
	if admin == nil || admin.Role != models.RoleSuperAdmin {
		t.Fatalf("expected seeded super_admin, got %+v", admin)
	}

	// Non-empty table: no second seed.
	if err := s.EnsureAdminUser("admin2", "bootstrap1"); err != nil {
		t.Fatalf("second seed errored: %v", err)
	}
	if u, _ := store.FindByUsername("admin2"); u != nil {
		t.Error("seed must be a no-op when users exist")
	}
}
