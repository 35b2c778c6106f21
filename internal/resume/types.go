package resume

import "time"

// SectionKind identifies one reorderable block of the résumé form.
type SectionKind string

const (
	SectionContact    SectionKind = "contact"
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionSkills     SectionKind = "skills"
)

// Field names accepted by FieldContent and SetFieldContent. They match the
// data-for attribute of the editor's suggestion buttons.
const (
	FieldSummary    = "summary"
	FieldExperience = "experience"
)

// Contact holds the header block of the résumé.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Experience is one repeatable work-history entry.
type Experience struct {
	JobTitle    string `json:"job_title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Resume is the document edited in the form.
type Resume struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Contact    Contact       `json:"contact"`
	Summary    string        `json:"summary"`
	Experience []Experience  `json:"experience"`
	Skills     []string      `json:"skills"`
	Sections   []SectionKind `json:"sections"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ListFilter controls which résumés to return.
type ListFilter struct {
	Title  string
	Limit  int
	Offset int
}
