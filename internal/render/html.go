package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/resumekit/internal/resume"
)

// GFM without Linkify: URLs typed into the form stay plain text.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.TaskList),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

var page = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Title   string
	Content template.HTML
}

// HTML renders the résumé as a standalone, print-ready HTML page.
func HTML(r *resume.Resume) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	title := r.Title
	if r.Contact.Name != "" {
		title = r.Contact.Name
	}

	var out bytes.Buffer
	if err := page.Execute(&out, pageData{Title: title, Content: template.HTML(body.String())}); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return out.Bytes(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    @page { size: A4; margin: 18mm; }
    body { font-family: "Helvetica Neue", Arial, sans-serif; color: #222; line-height: 1.45; max-width: 800px; margin: 0 auto; }
    h1 { margin-bottom: 0.2em; font-size: 1.9em; }
    h1 + p { color: #555; margin-top: 0; }
    h2 { border-bottom: 1px solid #ccc; padding-bottom: 0.2em; margin-top: 1.4em; font-size: 1.2em; text-transform: uppercase; letter-spacing: 0.04em; }
    h3 { margin-bottom: 0.1em; font-size: 1.05em; }
    h3 + p { margin-top: 0; color: #666; }
    ul { padding-left: 1.2em; }
  </style>
</head>
<body>
{{.Content}}
</body>
</html>
`
