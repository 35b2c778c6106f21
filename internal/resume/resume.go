package resume

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/resumekit/internal/layout"
)

// DefaultSections returns the order in which the editor first shows the
// form sections.
func DefaultSections() []SectionKind {
	return []SectionKind{SectionContact, SectionSummary, SectionExperience, SectionSkills}
}

// ValidSection reports whether k is a known section kind.
func ValidSection(k SectionKind) bool {
	switch k {
	case SectionContact, SectionSummary, SectionExperience, SectionSkills:
		return true
	}
	return false
}

// New returns an empty résumé with the default section order and a single
// blank experience entry, which is what the editor shows on first load.
func New(title string) *Resume {
	return &Resume{
		Title:      title,
		Experience: []Experience{{}},
		Skills:     []string{},
		Sections:   DefaultSections(),
	}
}

// Normalize repairs the section order so it is a permutation of every known
// kind: unknown and repeated kinds are dropped, missing ones are appended in
// default order. Nil slices become empty.
func (r *Resume) Normalize() {
	seen := make(map[SectionKind]bool, len(r.Sections))
	order := make([]SectionKind, 0, len(DefaultSections()))
	for _, k := range r.Sections {
		if !ValidSection(k) || seen[k] {
			continue
		}
		seen[k] = true
		order = append(order, k)
	}
	for _, k := range DefaultSections() {
		if !seen[k] {
			order = append(order, k)
		}
	}
	r.Sections = order

	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
}

// AddExperience appends an entry and returns its index.
func (r *Resume) AddExperience(e Experience) int {
	r.Experience = append(r.Experience, e)
	return len(r.Experience) - 1
}

// AddSkill adds a skill tag. Surrounding whitespace is trimmed; blank input
// and case-insensitive duplicates are ignored. It reports whether the tag
// was added.
func (r *Resume) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	for _, s := range r.Skills {
		if strings.EqualFold(s, skill) {
			return false
		}
	}
	r.Skills = append(r.Skills, skill)
	return true
}

// RemoveSkill removes a skill tag, matching case-insensitively.
func (r *Resume) RemoveSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	for i, s := range r.Skills {
		if strings.EqualFold(s, skill) {
			r.Skills = append(r.Skills[:i], r.Skills[i+1:]...)
			return true
		}
	}
	return false
}

// SetSections replaces the section order. The new order must be a
// permutation of every known kind.
func (r *Resume) SetSections(order []SectionKind) error {
	if len(order) != len(DefaultSections()) {
		return fmt.Errorf("section order must list %d sections, got %d", len(DefaultSections()), len(order))
	}
	seen := make(map[SectionKind]bool, len(order))
	for _, k := range order {
		if !ValidSection(k) {
			return fmt.Errorf("unknown section %q", k)
		}
		if seen[k] {
			return fmt.Errorf("section %q listed twice", k)
		}
		seen[k] = true
	}
	r.Sections = append([]SectionKind(nil), order...)
	return nil
}

// MoveSection applies a reorder directive to the section order.
func (r *Resume) MoveSection(kind SectionKind, d layout.Directive) error {
	if !ValidSection(kind) {
		return fmt.Errorf("unknown section %q", kind)
	}
	r.Normalize()
	moved := layout.Apply(SectionIDs(r.Sections), string(kind), d)
	r.Sections = SectionKinds(moved)
	return nil
}

// FieldContent returns the text an AI suggestion works on for field: the
// summary, or the description of the last experience entry.
func (r *Resume) FieldContent(field string) string {
	switch field {
	case FieldSummary:
		return r.Summary
	case FieldExperience:
		if len(r.Experience) == 0 {
			return ""
		}
		return r.Experience[len(r.Experience)-1].Description
	default:
		return ""
	}
}

// SetFieldContent writes text into the field FieldContent reads from. An
// experience field on a résumé without entries gets a new entry.
func (r *Resume) SetFieldContent(field, text string) error {
	switch field {
	case FieldSummary:
		r.Summary = text
	case FieldExperience:
		if len(r.Experience) == 0 {
			r.Experience = append(r.Experience, Experience{})
		}
		r.Experience[len(r.Experience)-1].Description = text
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// PlainText flattens the résumé into the text sent for analysis.
func (r *Resume) PlainText() string {
	var b strings.Builder
	for _, k := range r.Sections {
		switch k {
		case SectionContact:
			fmt.Fprintf(&b, "%s\n%s | %s\n\n", r.Contact.Name, r.Contact.Email, r.Contact.Phone)
		case SectionSummary:
			fmt.Fprintf(&b, "Professional Summary\n%s\n\n", r.Summary)
		case SectionExperience:
			b.WriteString("Work Experience\n")
			for _, e := range r.Experience {
				fmt.Fprintf(&b, "%s at %s (%s)\n%s\n", e.JobTitle, e.Company, e.Duration, e.Description)
			}
			b.WriteString("\n")
		case SectionSkills:
			fmt.Fprintf(&b, "Skills\n%s\n\n", strings.Join(r.Skills, ", "))
		}
	}
	return strings.TrimSpace(b.String())
}

// SectionIDs converts kinds to the string IDs the layout engine works with.
func SectionIDs(kinds []SectionKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// SectionKinds is the inverse of SectionIDs.
func SectionKinds(ids []string) []SectionKind {
	out := make([]SectionKind, len(ids))
	for i, id := range ids {
		out[i] = SectionKind(id)
	}
	return out
}
