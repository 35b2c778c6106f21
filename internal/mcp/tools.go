package mcp

import "github.com/mark3labs/mcp-go/mcp"

var rectsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":     map[string]any{"type": "string"},
		"top":    map[string]any{"type": "number"},
		"height": map[string]any{"type": "number"},
	},
	"required": []string{"id", "top", "height"},
}

var listResumesTool = mcp.NewTool("list_resumes",
	mcp.WithDescription("List stored résumés, most recently edited first."),
	mcp.WithString("title",
		mcp.Description("Only return résumés whose title contains this text"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of résumés to return (default 20)"),
	),
)

var getResumeTool = mcp.NewTool("get_resume",
	mcp.WithDescription("Get a résumé rendered as Markdown, in its current section order."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Résumé ID"),
	),
)

var insertionPointTool = mcp.NewTool("insertion_point",
	mcp.WithDescription("Compute where a dragged section lands: the sibling it goes before, or the end of the list. Pure computation, nothing is stored."),
	mcp.WithNumber("pointer_y",
		mcp.Required(),
		mcp.Description("Vertical pointer coordinate"),
	),
	mcp.WithArray("rects",
		mcp.Required(),
		mcp.Description("Candidate sibling rectangles in document order, excluding the dragged one"),
		mcp.Items(rectsSchema),
	),
)

var moveSectionTool = mcp.NewTool("move_section",
	mcp.WithDescription("Move a section of a stored résumé to where a pointer at pointer_y would drop it, and save the new order."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Résumé ID"),
	),
	mcp.WithString("section",
		mcp.Required(),
		mcp.Description("Section to move"),
		mcp.Enum("contact", "summary", "experience", "skills"),
	),
	mcp.WithNumber("pointer_y",
		mcp.Required(),
		mcp.Description("Vertical pointer coordinate"),
	),
	mcp.WithArray("rects",
		mcp.Required(),
		mcp.Description("Section rectangles in document order"),
		mcp.Items(rectsSchema),
	),
)

var suggestTool = mcp.NewTool("suggest",
	mcp.WithDescription("Get up to three suggestions for improving the summary or the latest experience entry of a résumé."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Résumé ID"),
	),
	mcp.WithString("field",
		mcp.Required(),
		mcp.Description("Field to improve"),
		mcp.Enum("summary", "experience"),
	),
)
