package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

// SkillManager applies the skill lifecycle: create, owner edits, admin decisions.
type SkillManager struct {
	skills   SkillStore
	catalog  CatalogStore
	validate *validator.Validate
	// strict rejects skill/course names that are not in the taxonomy registry.
	strict bool

	newID func() uuid.UUID
	now   func() time.Time
}

func NewSkillManager(skills SkillStore, catalog CatalogStore, strict bool) *SkillManager {
	return &SkillManager{
		skills:   skills,
		catalog:  catalog,
		validate: newValidator(),
		strict:   strict,
		newID:    uuid.New,
		now:      time.Now,
	}
}

func (m *SkillManager) CreateSkill(ctx context.Context, actor domain.Actor, fields domain.SkillFields) (*domain.SkillEntry, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	fields, err := m.checkFields(ctx, fields)
	if err != nil {
		return nil, err
	}

	entry := &domain.SkillEntry{
		ID:        m.newID(),
		Approval:  domain.ApprovalPending,
		CreatedAt: m.now(),
	}
	entry.Apply(fields)

	if err := m.skills.AppendSkill(ctx, actor.UserID, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// UpdateSkill overwrites the entry at index in the actor's own collection.
// The approval state is kept as it is; an edited approved entry stays approved.
func (m *SkillManager) UpdateSkill(ctx context.Context, actor domain.Actor, index int, fields domain.SkillFields) ([]domain.SkillEntry, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: skill index %d", domain.ErrNotFound, index)
	}

	fields, err := m.checkFields(ctx, fields)
	if err != nil {
		return nil, err
	}

	if err := m.skills.UpdateSkillAt(ctx, actor.UserID, index, fields); err != nil {
		return nil, err
	}

	return m.skills.ListSkills(ctx, actor.UserID)
}

func (m *SkillManager) DeleteSkill(ctx context.Context, actor domain.Actor, index int) ([]domain.SkillEntry, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: skill index %d", domain.ErrNotFound, index)
	}

	if err := m.skills.DeleteSkillAt(ctx, actor.UserID, index); err != nil {
		return nil, err
	}

	return m.skills.ListSkills(ctx, actor.UserID)
}

// UpdateSkillByID is the id-addressed variant of UpdateSkill, scoped to the actor's entries.
func (m *SkillManager) UpdateSkillByID(ctx context.Context, actor domain.Actor, skillID uuid.UUID, fields domain.SkillFields) ([]domain.SkillEntry, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	fields, err := m.checkFields(ctx, fields)
	if err != nil {
		return nil, err
	}

	if err := m.skills.UpdateSkillByID(ctx, actor.UserID, skillID, fields); err != nil {
		return nil, err
	}

	return m.skills.ListSkills(ctx, actor.UserID)
}

func (m *SkillManager) DeleteSkillByID(ctx context.Context, actor domain.Actor, skillID uuid.UUID) ([]domain.SkillEntry, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	if err := m.skills.DeleteSkillByID(ctx, actor.UserID, skillID); err != nil {
		return nil, err
	}

	return m.skills.ListSkills(ctx, actor.UserID)
}

func (m *SkillManager) ListSkills(ctx context.Context, actor domain.Actor) ([]domain.SkillEntry, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	return m.skills.ListSkills(ctx, actor.UserID)
}

func (m *SkillManager) ApproveSkill(ctx context.Context, actor domain.Actor, skillID uuid.UUID) (*domain.SkillDecision, error) {
	return m.decide(ctx, actor, skillID, domain.ApprovalApproved)
}

func (m *SkillManager) RejectSkill(ctx context.Context, actor domain.Actor, skillID uuid.UUID) (*domain.SkillDecision, error) {
	return m.decide(ctx, actor, skillID, domain.ApprovalRejected)
}

// decide is a single conditional update in the store. Decisions are not terminal:
// a later approve or reject overwrites the earlier one.
func (m *SkillManager) decide(ctx context.Context, actor domain.Actor, skillID uuid.UUID, approval domain.Approval) (*domain.SkillDecision, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return m.skills.SetSkillApproval(ctx, skillID, approval)
}

func (m *SkillManager) checkFields(ctx context.Context, fields domain.SkillFields) (domain.SkillFields, error) {
	fields.SkillName = strings.TrimSpace(fields.SkillName)
	fields.CourseName = strings.TrimSpace(fields.CourseName)
	fields.CertificateLink = strings.TrimSpace(fields.CertificateLink)

	if err := m.validate.Struct(fields); err != nil {
		return fields, toValidationError(err)
	}

	if !m.strict {
		return fields, nil
	}

	refs := []struct {
		catalog domain.Catalog
		field   string
		name    string
	}{
		{domain.CatalogSkillNames, "skillName", fields.SkillName},
		{domain.CatalogCourseNames, "courseName", fields.CourseName},
	}

	verr := &domain.ValidationError{}
	for _, ref := range refs {
		ok, err := m.catalog.CatalogEntryExists(ctx, ref.catalog, ref.name)
		if err != nil {
			return fields, err
		}
		if !ok {
			verr.Errors = append(verr.Errors, domain.FieldError{Field: ref.field, Message: "is not a registered name"})
		}
	}
	if len(verr.Errors) > 0 {
		return fields, verr
	}

	return fields, nil
}
