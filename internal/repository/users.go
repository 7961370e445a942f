package repository

import (
	"context"
	"errors"

	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

const userColumns = "id, email, password_hash, full_name, department, role, created_at, version"

func userDst(user *domain.User) []any {
	return []any{&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Department, &user.Role, &user.CreatedAt, &user.Version}
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	user := &domain.User{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(userDst(user)...); err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	user := &domain.User{}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(userDst(user)...); err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

// UpdateUser is guarded by the row version; a stale version reports domain.ErrConflict.
func (r *Repository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET
			password_hash = $1,
			email = $2,
			full_name = $3,
			department = $4,
			role = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{user.PasswordHash, user.Email, user.FullName, user.Department, user.Role, user.ID, user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt, &user.Version); err != nil {
		err = mapError(err)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrConflict
		}
		return err
	}

	return nil
}

// ListUsers returns users ordered by id; a nil role lists everyone.
func (r *Repository) ListUsers(ctx context.Context, role *domain.Role) ([]*domain.User, error) {
	builder := psql.Select(userColumns).From("users").OrderBy("id")
	if role != nil {
		builder = builder.Where("role = ?", string(*role))
	}

	query, args, err := builder.ToSql()
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

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(userDst(user)...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// DeleteUser removes the user; the skills follow through ON DELETE CASCADE.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, department, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{user.Email, user.PasswordHash, user.FullName, user.Department, user.Role}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.Version); err != nil {
		return mapError(err)
	}

	return nil
}
