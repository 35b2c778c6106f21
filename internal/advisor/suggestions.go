package advisor

import (
	"regexp"
	"strings"

	"github.com/ziadkadry99/resumekit/internal/resume"
)

const maxSuggestions = 3

var builtinSuggestions = map[string][]string{
	resume.FieldSummary: {
		"Consider starting with a strong action word and quantifying your achievements.",
		"Try to align your summary more closely with the job description keywords.",
		"Your summary could benefit from more specific metrics about your impact.",
	},
	resume.FieldExperience: {
		"Reformat your bullet points to start with action verbs and include measurable results.",
		"Consider adding more context about the scale of your projects or responsibilities.",
		"This could be strengthened by showing progression or promotion if applicable.",
	},
}

// listItem matches "1. text", "2) text", "- text" and "* text".
var listItem = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+(.+?)\s*$`)

// parseSuggestions extracts list items from a model reply, keeping at most
// three.
func parseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := listItem.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := strings.Trim(m[1], "*_ ")
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
