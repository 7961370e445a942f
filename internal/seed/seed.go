// Package seed fills a development database with taxonomy names and sample employees.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/utils"
)

type CatalogWriter interface {
	AddCatalogEntry(ctx context.Context, catalog domain.Catalog, name string) (*domain.CatalogEntry, error)
}

type EmployeeWriter interface {
	CatalogWriter
	CreateUser(ctx context.Context, user *domain.User) error
	AppendSkill(ctx context.Context, userID int64, entry *domain.SkillEntry) error
}

var kindCatalog = map[string]domain.Catalog{
	"skill":  domain.CatalogSkillNames,
	"course": domain.CatalogCourseNames,
}

// ImportResult counts what an import did. Skipped rows were already registered.
type ImportResult struct {
	Added   int
	Skipped int
}

// ImportCatalog reads "kind,name" rows (kind is skill or course) after a header line.
// A malformed row aborts the import; names already present are skipped.
func ImportCatalog(ctx context.Context, w CatalogWriter, r io.Reader) (ImportResult, error) {
	var res ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	if !strings.EqualFold(header[0], "kind") || !strings.EqualFold(header[1], "name") {
		return res, fmt.Errorf("unexpected header %q, want kind,name", header)
	}

	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return res, err
		}

		line, _ := reader.FieldPos(0)
		catalog, ok := kindCatalog[strings.ToLower(strings.TrimSpace(row[0]))]
		if !ok {
			return res, fmt.Errorf("line %d: unknown kind %q", line, row[0])
		}
		name := strings.TrimSpace(row[1])
		if name == "" {
			return res, fmt.Errorf("line %d: empty name", line)
		}

		if _, err := w.AddCatalogEntry(ctx, catalog, name); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		res.Added++
	}

	return res, nil
}

// RegisterSampleTaxonomy makes sure every name used by SeedEmployees is registered.
func RegisterSampleTaxonomy(ctx context.Context, w CatalogWriter) error {
	for skill, course := range utils.SampleSkills {
		for catalog, name := range map[domain.Catalog]string{domain.CatalogSkillNames: skill, domain.CatalogCourseNames: course} {
			if _, err := w.AddCatalogEntry(ctx, catalog, name); err != nil && !errors.Is(err, domain.ErrConflict) {
				return err
			}
		}
	}
	return nil
}

// SeedEmployees inserts n random employees with up to maxSkills entries each, in random approval states.
// It returns how many employees were created; individual failures are logged and skipped.
func SeedEmployees(ctx context.Context, w EmployeeWriter, n, maxSkills int, password, emailDomain string) (int, error) {
	if err := RegisterSampleTaxonomy(ctx, w); err != nil {
		return 0, err
	}

	approvals := []domain.Approval{domain.ApprovalPending, domain.ApprovalApproved, domain.ApprovalRejected}

	created := 0
	for range n {
		user, err := utils.GenerateRandomEmployee(password, emailDomain)
		if err != nil {
			return created, err
		}

		if err := w.CreateUser(ctx, user); err != nil {
			slog.Error("could not insert employee", "email", user.Email, "error", err)
			continue
		}
		created++

		for range rand.IntN(maxSkills + 1) {
			entry := &domain.SkillEntry{
				ID:        uuid.New(),
				Approval:  approvals[rand.IntN(len(approvals))],
				CreatedAt: time.Now(),
			}
			entry.Apply(utils.GenerateRandomSkillFields())

			if err := w.AppendSkill(ctx, user.ID, entry); err != nil {
				slog.Error("could not insert skill", "email", user.Email, "error", err)
			}
		}
	}

	return created, nil
}
