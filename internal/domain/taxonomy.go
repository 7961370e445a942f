package domain

import "time"

// Catalog names one of the controlled vocabularies.
type Catalog string

const (
	CatalogSkillNames  Catalog = "skill_names"
	CatalogCourseNames Catalog = "course_names"
)

type CatalogEntry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
