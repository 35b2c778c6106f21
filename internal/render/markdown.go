// Package render turns a résumé into the Markdown preview, a printable HTML
// page and a PDF.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ziadkadry99/resumekit/internal/resume"
)

// Placeholders shown in the preview for fields the user has not filled in.
const (
	PlaceholderName        = "Your Name"
	PlaceholderEmail       = "email@example.com"
	PlaceholderPhone       = "(123) 456-7890"
	PlaceholderSummary     = "Experienced professional seeking new opportunities."
	PlaceholderJobTitle    = "Job Title"
	PlaceholderCompany     = "Company"
	PlaceholderDuration    = "Duration"
	PlaceholderDescription = "Job description and accomplishments."
)

// Markdown renders the preview document, following the résumé's section
// order. Empty fields fall back to placeholders; an empty skills list is
// left out.
func Markdown(r *resume.Resume) string {
	var b strings.Builder
	for _, k := range r.Sections {
		switch k {
		case resume.SectionContact:
			fmt.Fprintf(&b, "# %s\n\n%s | %s\n\n",
				or(r.Contact.Name, PlaceholderName),
				or(r.Contact.Email, PlaceholderEmail),
				or(r.Contact.Phone, PlaceholderPhone))
		case resume.SectionSummary:
			fmt.Fprintf(&b, "## Professional Summary\n\n%s\n\n", or(r.Summary, PlaceholderSummary))
		case resume.SectionExperience:
			b.WriteString("## Work Experience\n\n")
			for _, e := range r.Experience {
				fmt.Fprintf(&b, "### %s at %s\n\n*%s*\n\n%s\n\n",
					or(e.JobTitle, PlaceholderJobTitle),
					or(e.Company, PlaceholderCompany),
					or(e.Duration, PlaceholderDuration),
					or(e.Description, PlaceholderDescription))
			}
		case resume.SectionSkills:
			if len(r.Skills) == 0 {
				continue
			}
			b.WriteString("## Skills\n\n")
			for _, s := range r.Skills {
				fmt.Fprintf(&b, "- %s\n", escape(s))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func or(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return escape(v)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`#`, `\#`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`|`, `\|`,
	`~`, `\~`,
	`&`, `\&`,
)

// orderedMarker matches an ordered list marker such as "1." or "2)".
var orderedMarker = regexp.MustCompile(`^\d+[.)]`)

// escape keeps user text literal inside the generated Markdown. Inline
// syntax is backslash-escaped everywhere; list, heading underline and code
// block syntax only matters at the start of a line.
func escape(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		line = markdownEscaper.Replace(strings.TrimLeft(line, " \t"))
		switch {
		case line == "":
		case strings.ContainsRune("-+=", rune(line[0])):
			line = `\` + line
		default:
			if m := orderedMarker.FindStringIndex(line); m != nil {
				line = line[:m[1]-1] + `\` + line[m[1]-1:]
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
