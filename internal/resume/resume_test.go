package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/resumekit/internal/layout"
)

func TestNewResume(t *testing.T) {
	r := New("Backend engineer")
	assert.Equal(t, "Backend engineer", r.Title)
	assert.Equal(t, DefaultSections(), r.Sections)
	assert.Len(t, r.Experience, 1)
	assert.Empty(t, r.Skills)
}

func TestNormalize(t *testing.T) {
	r := &Resume{Sections: []SectionKind{"skills", "bogus", "skills", "summary"}}
	r.Normalize()
	assert.Equal(t, []SectionKind{SectionSkills, SectionSummary, SectionContact, SectionExperience}, r.Sections)
	assert.NotNil(t, r.Experience)
	assert.NotNil(t, r.Skills)
}

func TestAddSkill(t *testing.T) {
	r := New("")
	assert.True(t, r.AddSkill("  Go "))
	assert.False(t, r.AddSkill("go"), "case-insensitive duplicate")
	assert.False(t, r.AddSkill("   "), "blank input")
	assert.True(t, r.AddSkill("PostgreSQL"))
	assert.Equal(t, []string{"Go", "PostgreSQL"}, r.Skills)

	assert.True(t, r.RemoveSkill("GO"))
	assert.False(t, r.RemoveSkill("Rust"))
	assert.Equal(t, []string{"PostgreSQL"}, r.Skills)
}

func TestAddExperience(t *testing.T) {
	r := New("")
	idx := r.AddExperience(Experience{JobTitle: "SRE", Company: "Acme"})
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Acme", r.Experience[1].Company)
}

func TestSetSections(t *testing.T) {
	r := New("")
	require.NoError(t, r.SetSections([]SectionKind{SectionSkills, SectionExperience, SectionSummary, SectionContact}))
	assert.Equal(t, SectionSkills, r.Sections[0])

	assert.Error(t, r.SetSections([]SectionKind{SectionSkills}))
	assert.Error(t, r.SetSections([]SectionKind{SectionSkills, SectionSkills, SectionSummary, SectionContact}))
	assert.Error(t, r.SetSections([]SectionKind{"x", SectionExperience, SectionSummary, SectionContact}))
}

func TestMoveSection(t *testing.T) {
	r := New("")
	require.NoError(t, r.MoveSection(SectionSkills, layout.Directive{Before: string(SectionSummary), Index: 1}))
	assert.Equal(t, []SectionKind{SectionContact, SectionSkills, SectionSummary, SectionExperience}, r.Sections)

	require.NoError(t, r.MoveSection(SectionContact, layout.End))
	assert.Equal(t, []SectionKind{SectionSkills, SectionSummary, SectionExperience, SectionContact}, r.Sections)

	assert.Error(t, r.MoveSection("footer", layout.End))
}

func TestFieldContent(t *testing.T) {
	r := New("")
	r.Summary = "Seasoned engineer"
	r.Experience = []Experience{{Description: "first"}, {Description: "last"}}

	assert.Equal(t, "Seasoned engineer", r.FieldContent(FieldSummary))
	assert.Equal(t, "last", r.FieldContent(FieldExperience))
	assert.Equal(t, "", r.FieldContent("education"))

	r.Experience = nil
	assert.Equal(t, "", r.FieldContent(FieldExperience))
}

func TestSetFieldContent(t *testing.T) {
	r := &Resume{}
	require.NoError(t, r.SetFieldContent(FieldExperience, "Led migrations"))
	require.Len(t, r.Experience, 1)
	assert.Equal(t, "Led migrations", r.Experience[0].Description)

	require.NoError(t, r.SetFieldContent(FieldSummary, "Builder"))
	assert.Equal(t, "Builder", r.Summary)

	assert.Error(t, r.SetFieldContent("education", "x"))
}

func TestPlainTextFollowsSectionOrder(t *testing.T) {
	r := New("")
	r.Contact = Contact{Name: "Ada", Email: "ada@example.com"}
	r.Summary = "Mathematician"
	r.Skills = []string{"Analysis"}
	require.NoError(t, r.SetSections([]SectionKind{SectionSkills, SectionSummary, SectionContact, SectionExperience}))

	text := r.PlainText()
	assert.Less(t, strings.Index(text, "Skills"), strings.Index(text, "Professional Summary"))
	assert.Less(t, strings.Index(text, "Professional Summary"), strings.Index(text, "Ada"))
}
