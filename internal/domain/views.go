package domain

import "strings"

type PendingSkills struct {
	Email  string       `json:"email"`
	Skills []SkillEntry `json:"skills"`
}

type ApprovedSkills struct {
	Email      string       `json:"email"`
	Department string       `json:"department"`
	Skills     []SkillEntry `json:"skills"`
}

type SkillNameRef struct {
	SkillName string `json:"skillName"`
}

// EmployeeSkills is the directory-style projection: names only, no score or approval.
type EmployeeSkills struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Skills []SkillNameRef `json:"skills"`
}

type DepartmentStat struct {
	Department     string `json:"department"`
	ApprovedSkills int    `json:"approvedSkills"`
}

// NameStat counts approved entries carrying a registered skill or course name.
type NameStat struct {
	Name           string `json:"name"`
	ApprovedSkills int    `json:"approvedSkills"`
}

type EmployeeStat struct {
	Email          string `json:"email"`
	ApprovedSkills int    `json:"approvedSkills"`
}

// StatsFilter narrows the analytics to employees holding at least one approved
// entry with the given skill name and one with the given course name.
// Empty fields do not filter.
type StatsFilter struct {
	SkillName  string
	CourseName string
}

func (f StatsFilter) Match(skills []SkillEntry) bool {
	return f.has(skills, func(e SkillEntry) string { return e.SkillName }, f.SkillName) &&
		f.has(skills, func(e SkillEntry) string { return e.CourseName }, f.CourseName)
}

func (StatsFilter) has(skills []SkillEntry, field func(SkillEntry) string, want string) bool {
	if want == "" {
		return true
	}
	for _, s := range skills {
		if strings.EqualFold(field(s), want) {
			return true
		}
	}
	return false
}

// UserSkills is one user's ordered collection as read from the store.
// User is nil when the owning account no longer exists.
type UserSkills struct {
	User   *User
	Skills []SkillEntry
}
