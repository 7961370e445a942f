// Package service holds the skill approval workflow: every operation takes the
// resolved actor explicitly and returns either a result or one typed failure
// from the domain package. Nothing here logs; rendering is the caller's job.
package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

// SkillStore persists each user's ordered skill collection.
// Positional methods address the n-th entry of the owner's collection in creation order.
// Every mutation is one atomic statement; a missing target yields domain.ErrNotFound.
type SkillStore interface {
	ListSkills(ctx context.Context, userID int64) ([]domain.SkillEntry, error)
	AppendSkill(ctx context.Context, userID int64, entry *domain.SkillEntry) error
	UpdateSkillAt(ctx context.Context, userID int64, index int, fields domain.SkillFields) error
	DeleteSkillAt(ctx context.Context, userID int64, index int) error
	UpdateSkillByID(ctx context.Context, userID int64, skillID uuid.UUID, fields domain.SkillFields) error
	DeleteSkillByID(ctx context.Context, userID int64, skillID uuid.UUID) error
	// SetSkillApproval is a match-then-set on the entry id across all users.
	SetSkillApproval(ctx context.Context, skillID uuid.UUID, approval domain.Approval) (*domain.SkillDecision, error)
	ListAllUserSkills(ctx context.Context) ([]domain.UserSkills, error)
}

type CatalogStore interface {
	AddCatalogEntry(ctx context.Context, catalog domain.Catalog, name string) (*domain.CatalogEntry, error)
	DeleteCatalogEntry(ctx context.Context, catalog domain.Catalog, id int64) error
	ListCatalogEntries(ctx context.Context, catalog domain.Catalog) ([]domain.CatalogEntry, error)
	CatalogEntryExists(ctx context.Context, catalog domain.Catalog, name string) (bool, error)
}

type UserStore interface {
	ListUsers(ctx context.Context, role *domain.Role) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

func requireAuthenticated(actor domain.Actor) error {
	if actor.UserID <= 0 || !actor.Role.Valid() {
		return domain.ErrUnauthenticated
	}
	return nil
}

func requireAdmin(actor domain.Actor) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return validate
}

// toValidationError converts validator output into the domain failure type.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{}
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			msg = "must be at least " + fe.Param()
		case "max":
			msg = "must be at most " + fe.Param()
		default:
			msg = "is invalid"
		}
		out.Errors = append(out.Errors, domain.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
