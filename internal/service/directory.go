package service

import (
	"context"
	"fmt"

	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

// RoleFilterAll disables role filtering in ListUsers.
const RoleFilterAll = "all"

// Directory is the admin view of user accounts.
type Directory struct {
	users UserStore
}

func NewDirectory(users UserStore) *Directory {
	return &Directory{users: users}
}

// ListUsers lists users of the given role; an empty filter means employees.
func (d *Directory) ListUsers(ctx context.Context, actor domain.Actor, roleFilter string) ([]domain.UserSummary, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var role *domain.Role
	switch roleFilter {
	case RoleFilterAll:
	case "":
		r := domain.RoleEmployee
		role = &r
	default:
		r := domain.Role(roleFilter)
		if !r.Valid() {
			return nil, domain.NewValidationError("role", fmt.Sprintf("unknown role %q", roleFilter))
		}
		role = &r
	}

	users, err := d.users.ListUsers(ctx, role)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// DeleteUser removes the account; its skill collection goes with it.
func (d *Directory) DeleteUser(ctx context.Context, actor domain.Actor, userID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	return d.users.DeleteUser(ctx, userID)
}
