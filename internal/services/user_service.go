package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/models"
)

var ErrRolePrivilege = errors.New("super admin privileges required to grant this role")

// UserService is the admin surface for managing accounts. Accounts are never
// hard-deleted; deactivation flips IsActive.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// UpdateUserParams are optional admin edits; nil fields are left unchanged.
type UpdateUserParams struct {
	Role     *string
	IsActive *bool
	FullName *string
	Email    *string
}

func (s *UserService) List(page, limit int) ([]models.User, int64, error) {
	return s.users.List(page, limit)
}

// canGrantRole: granting admin-or-higher requires a super_admin actor.
func canGrantRole(actor, granted models.Role) bool {
	if granted.AtLeast(models.RoleAdmin) {
		return actor.AtLeast(models.RoleSuperAdmin)
	}
	return true
}

func (s *UserService) Update(actorRole models.Role, targetID uuid.UUID, params UpdateUserParams) (*models.User, error) {
	user, err := s.users.FindByID(targetID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if params.Role != nil {
		role, err := models.ParseRole(*params.Role)
		if err != nil {
			return nil, err
		}
		if !canGrantRole(actorRole, role) {
			return nil, ErrRolePrivilege
		}
		user.Role = role
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}
	if params.FullName != nil {
		user.FullName = *params.FullName
	}
	if params.Email != nil {
		user.Email = *params.Email
	}

	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
