package service

import (
	"context"
	"strings"

	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

// TaxonomyRegistry manages the allowed skill and course names.
// Names are trimmed and must be unique regardless of case.
type TaxonomyRegistry struct {
	store CatalogStore
}

func NewTaxonomyRegistry(store CatalogStore) *TaxonomyRegistry {
	return &TaxonomyRegistry{store: store}
}

func (r *TaxonomyRegistry) AddSkillName(ctx context.Context, actor domain.Actor, name string) (*domain.CatalogEntry, error) {
	return r.add(ctx, actor, domain.CatalogSkillNames, name)
}

func (r *TaxonomyRegistry) DeleteSkillName(ctx context.Context, actor domain.Actor, id int64) error {
	return r.delete(ctx, actor, domain.CatalogSkillNames, id)
}

func (r *TaxonomyRegistry) ListSkillNames(ctx context.Context, actor domain.Actor) ([]domain.CatalogEntry, error) {
	return r.list(ctx, actor, domain.CatalogSkillNames)
}

func (r *TaxonomyRegistry) AddCourseName(ctx context.Context, actor domain.Actor, name string) (*domain.CatalogEntry, error) {
	return r.add(ctx, actor, domain.CatalogCourseNames, name)
}

func (r *TaxonomyRegistry) DeleteCourseName(ctx context.Context, actor domain.Actor, id int64) error {
	return r.delete(ctx, actor, domain.CatalogCourseNames, id)
}

func (r *TaxonomyRegistry) ListCourseNames(ctx context.Context, actor domain.Actor) ([]domain.CatalogEntry, error) {
	return r.list(ctx, actor, domain.CatalogCourseNames)
}

func (r *TaxonomyRegistry) add(ctx context.Context, actor domain.Actor, catalog domain.Catalog, name string) (*domain.CatalogEntry, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}

	return r.store.AddCatalogEntry(ctx, catalog, name)
}

func (r *TaxonomyRegistry) delete(ctx context.Context, actor domain.Actor, catalog domain.Catalog, id int64) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}

	return r.store.DeleteCatalogEntry(ctx, catalog, id)
}

func (r *TaxonomyRegistry) list(ctx context.Context, actor domain.Actor, catalog domain.Catalog) ([]domain.CatalogEntry, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	return r.store.ListCatalogEntries(ctx, catalog)
}
