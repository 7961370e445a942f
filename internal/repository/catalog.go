package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

// The catalog value doubles as the table name, so only the two known catalogs are accepted.
func catalogTable(catalog domain.Catalog) (string, error) {
	switch catalog {
	case domain.CatalogSkillNames, domain.CatalogCourseNames:
		return string(catalog), nil
	}
	return "", domain.NewValidationError("catalog", "is invalid")
}

func (r *Repository) AddCatalogEntry(ctx context.Context, catalog domain.Catalog, name string) (*domain.CatalogEntry, error) {
	table, err := catalogTable(catalog)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Insert(table).
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	entry := &domain.CatalogEntry{}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.Name, &entry.CreatedAt); err != nil {
		return nil, mapError(err)
	}

	return entry, nil
}

func (r *Repository) DeleteCatalogEntry(ctx context.Context, catalog domain.Catalog, id int64) error {
	table, err := catalogTable(catalog)
	if err != nil {
		return err
	}

	query, args, err := psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repository) ListCatalogEntries(ctx context.Context, catalog domain.Catalog) ([]domain.CatalogEntry, error) {
	table, err := catalogTable(catalog)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select("id", "name", "created_at").From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.CatalogEntry, 0)
	for rows.Next() {
		var entry domain.CatalogEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// CatalogEntryExists matches names case-insensitively, the same way the unique index does.
func (r *Repository) CatalogEntryExists(ctx context.Context, catalog domain.Catalog, name string) (bool, error) {
	table, err := catalogTable(catalog)
	if err != nil {
		return false, err
	}

	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From(table).
		Where("lower(name) = lower(?)", name).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var exists bool
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
