package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

const skillColumns = "id, skill_name, course_name, certificate_link, score, approval, created_at"

func skillDst(entry *domain.SkillEntry) []any {
	return []any{&entry.ID, &entry.SkillName, &entry.CourseName, &entry.CertificateLink, &entry.Score, &entry.Approval, &entry.CreatedAt}
}

// nthSkill selects the id of the user's entry at a zero-based position.
const nthSkill = `(SELECT id FROM skills WHERE user_id = $1 ORDER BY seq OFFSET $2 LIMIT 1)`

func (r *Repository) ListSkills(ctx context.Context, userID int64) ([]domain.SkillEntry, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE user_id = $1 ORDER BY seq`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.SkillEntry, 0)
	for rows.Next() {
		var entry domain.SkillEntry
		if err := rows.Scan(skillDst(&entry)...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) AppendSkill(ctx context.Context, userID int64, entry *domain.SkillEntry) error {
	query := `
		INSERT INTO skills (id, user_id, skill_name, course_name, certificate_link, score, approval, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{entry.ID, userID, entry.SkillName, entry.CourseName, entry.CertificateLink, entry.Score, entry.Approval, entry.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.CreatedAt); err != nil {
		return mapError(err)
	}

	return nil
}

func (r *Repository) UpdateSkillAt(ctx context.Context, userID int64, index int, fields domain.SkillFields) error {
	query := `
		UPDATE skills
		SET skill_name = $3, course_name = $4, certificate_link = $5, score = $6
		WHERE id = ` + nthSkill

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, userID, index, fields.SkillName, fields.CourseName, fields.CertificateLink, *fields.Score)
	if err != nil {
		return mapError(err)
	}

	return expectAffected(res)
}

func (r *Repository) DeleteSkillAt(ctx context.Context, userID int64, index int) error {
	query := `DELETE FROM skills WHERE id = ` + nthSkill

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, userID, index)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repository) UpdateSkillByID(ctx context.Context, userID int64, skillID uuid.UUID, fields domain.SkillFields) error {
	query := `
		UPDATE skills
		SET skill_name = $3, course_name = $4, certificate_link = $5, score = $6
		WHERE user_id = $1 AND id = $2
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, userID, skillID, fields.SkillName, fields.CourseName, fields.CertificateLink, *fields.Score)
	if err != nil {
		return mapError(err)
	}

	return expectAffected(res)
}

func (r *Repository) DeleteSkillByID(ctx context.Context, userID int64, skillID uuid.UUID) error {
	query := `DELETE FROM skills WHERE user_id = $1 AND id = $2`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, userID, skillID)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

// SetSkillApproval records a decision on any user's entry in one statement.
func (r *Repository) SetSkillApproval(ctx context.Context, skillID uuid.UUID, approval domain.Approval) (*domain.SkillDecision, error) {
	query := `
		UPDATE skills
		SET approval = $1
		WHERE id = $2
		RETURNING user_id, ` + skillColumns

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	decision := &domain.SkillDecision{}
	dst := append([]any{&decision.OwnerID}, skillDst(&decision.Entry)...)
	if err := r.dbpool.QueryRowContext(ctx, query, approval, skillID).Scan(dst...); err != nil {
		return nil, mapError(err)
	}

	return decision, nil
}

// ListAllUserSkills reads every user with their collection in one pass.
// Rows come ordered by user and then by seq, so entries are grouped as they stream.
func (r *Repository) ListAllUserSkills(ctx context.Context) ([]domain.UserSkills, error) {
	query := `
		SELECT
			u.id, u.email, u.full_name, u.department, u.role, u.created_at,
			s.id, s.skill_name, s.course_name, s.certificate_link, s.score, s.approval, s.created_at
		FROM users u
		LEFT JOIN skills s ON s.user_id = u.id
		ORDER BY u.id, s.seq
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.UserSkills, 0)
	for rows.Next() {
		var (
			user            domain.User
			skillID         uuid.NullUUID
			skillName       sql.NullString
			courseName      sql.NullString
			certificateLink sql.NullString
			score           sql.NullInt64
			approval        sql.NullString
			createdAt       sql.NullTime
		)

		if err := rows.Scan(
			&user.ID, &user.Email, &user.FullName, &user.Department, &user.Role, &user.CreatedAt,
			&skillID, &skillName, &courseName, &certificateLink, &score, &approval, &createdAt,
		); err != nil {
			return nil, err
		}

		if len(result) == 0 || result[len(result)-1].User.ID != user.ID {
			result = append(result, domain.UserSkills{User: &user, Skills: make([]domain.SkillEntry, 0)})
		}

		if !skillID.Valid {
			continue
		}

		current := &result[len(result)-1]
		current.Skills = append(current.Skills, domain.SkillEntry{
			ID:              skillID.UUID,
			SkillName:       skillName.String,
			CourseName:      courseName.String,
			CertificateLink: certificateLink.String,
			Score:           int(score.Int64),
			Approval:        domain.Approval(approval.String),
			CreatedAt:       nullTime(createdAt),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func nullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
