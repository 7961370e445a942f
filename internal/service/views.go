package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
)

// AggregationView serves admin-only read models over all users' collections.
type AggregationView struct {
	skills  SkillStore
	catalog CatalogStore
}

func NewAggregationView(skills SkillStore, catalog CatalogStore) *AggregationView {
	return &AggregationView{skills: skills, catalog: catalog}
}

// PendingByUser lists every user that has at least one pending entry,
// with only the pending entries.
func (v *AggregationView) PendingByUser(ctx context.Context, actor domain.Actor) ([]domain.PendingSkills, error) {
	all, err := v.load(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PendingSkills, 0)
	for _, us := range all {
		if us.User == nil {
			continue
		}
		pending := filterByApproval(us.Skills, domain.ApprovalPending)
		if len(pending) == 0 {
			continue
		}
		out = append(out, domain.PendingSkills{Email: us.User.Email, Skills: pending})
	}
	return out, nil
}

// ApprovedByUser is like PendingByUser for approved entries, plus the department.
// Entries whose owner no longer exists are dropped.
func (v *AggregationView) ApprovedByUser(ctx context.Context, actor domain.Actor) ([]domain.ApprovedSkills, error) {
	all, err := v.load(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ApprovedSkills, 0)
	for _, us := range all {
		if us.User == nil {
			continue
		}
		approved := filterByApproval(us.Skills, domain.ApprovalApproved)
		if len(approved) == 0 {
			continue
		}
		out = append(out, domain.ApprovedSkills{
			Email:      us.User.Email,
			Department: us.User.Department,
			Skills:     approved,
		})
	}
	return out, nil
}

// AllEmployeeSkills lists every user's collection reduced to skill names.
func (v *AggregationView) AllEmployeeSkills(ctx context.Context, actor domain.Actor) ([]domain.EmployeeSkills, error) {
	all, err := v.load(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := make([]domain.EmployeeSkills, 0, len(all))
	for _, us := range all {
		if us.User == nil {
			continue
		}
		names := make([]domain.SkillNameRef, 0, len(us.Skills))
		for _, s := range us.Skills {
			names = append(names, domain.SkillNameRef{SkillName: s.SkillName})
		}
		out = append(out, domain.EmployeeSkills{
			ID:     us.User.ID,
			Name:   us.User.FullName,
			Email:  us.User.Email,
			Skills: names,
		})
	}
	return out, nil
}

// SkillsPerDepartment counts approved entries per department, sorted by department.
func (v *AggregationView) SkillsPerDepartment(ctx context.Context, actor domain.Actor, filter domain.StatsFilter) ([]domain.DepartmentStat, error) {
	approved, err := v.approved(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, a := range approved {
		dept := a.Department
		if dept == "" {
			dept = "Unknown"
		}
		counts[dept] += len(a.Skills)
	}

	out := make([]domain.DepartmentStat, 0, len(counts))
	for dept, n := range counts {
		out = append(out, domain.DepartmentStat{Department: dept, ApprovedSkills: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out, nil
}

// SkillsPerEmployee counts approved entries per employee, sorted by email.
func (v *AggregationView) SkillsPerEmployee(ctx context.Context, actor domain.Actor, filter domain.StatsFilter) ([]domain.EmployeeStat, error) {
	approved, err := v.approved(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	out := make([]domain.EmployeeStat, 0, len(approved))
	for _, a := range approved {
		out = append(out, domain.EmployeeStat{Email: a.Email, ApprovedSkills: len(a.Skills)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// SkillsPerSkillName counts approved entries per registered skill name.
// Names outside the registry are not counted.
func (v *AggregationView) SkillsPerSkillName(ctx context.Context, actor domain.Actor, filter domain.StatsFilter) ([]domain.NameStat, error) {
	return v.perName(ctx, actor, filter, domain.CatalogSkillNames, func(e domain.SkillEntry) string { return e.SkillName })
}

// SkillsPerCourseName is SkillsPerSkillName for the course name registry.
func (v *AggregationView) SkillsPerCourseName(ctx context.Context, actor domain.Actor, filter domain.StatsFilter) ([]domain.NameStat, error) {
	return v.perName(ctx, actor, filter, domain.CatalogCourseNames, func(e domain.SkillEntry) string { return e.CourseName })
}

func (v *AggregationView) perName(ctx context.Context, actor domain.Actor, filter domain.StatsFilter, catalog domain.Catalog, name func(domain.SkillEntry) string) ([]domain.NameStat, error) {
	approved, err := v.approved(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	entries, err := v.catalog.ListCatalogEntries(ctx, catalog)
	if err != nil {
		return nil, err
	}
	// registry lookups are case-insensitive; counts are reported under the registered spelling
	registered := make(map[string]string, len(entries))
	for _, e := range entries {
		registered[strings.ToLower(e.Name)] = e.Name
	}

	counts := make(map[string]int)
	for _, a := range approved {
		for _, s := range a.Skills {
			if canonical, ok := registered[strings.ToLower(name(s))]; ok {
				counts[canonical]++
			}
		}
	}

	out := make([]domain.NameStat, 0, len(counts))
	for n, c := range counts {
		out = append(out, domain.NameStat{Name: n, ApprovedSkills: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *AggregationView) approved(ctx context.Context, actor domain.Actor, filter domain.StatsFilter) ([]domain.ApprovedSkills, error) {
	all, err := v.ApprovedByUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for _, a := range all {
		if filter.Match(a.Skills) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (v *AggregationView) load(ctx context.Context, actor domain.Actor) ([]domain.UserSkills, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return v.skills.ListAllUserSkills(ctx)
}

func filterByApproval(entries []domain.SkillEntry, approval domain.Approval) []domain.SkillEntry {
	out := make([]domain.SkillEntry, 0)
	for _, e := range entries {
		if e.Approval == approval {
			out = append(out, e)
		}
	}
	return out
}
