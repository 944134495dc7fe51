package mcptools

import (
	"time"

	"givingbank/internal/drafts"
	"givingbank/internal/tiers"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Deps are the services the tools read from.
type Deps struct {
	Profiles tiers.Registry
	Drafts   drafts.Store
	MinAge   int
	Now      func() time.Time
}

func RegisterTools(s *server.MCPServer, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handlers{deps: deps}

	s.AddTool(
		mcp.NewTool("volunteer_level",
			mcp.WithDescription("Compute the volunteer level for a number of volunteered hours. The classic profile is used by the calculator page, the stars profile by the hours page."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithNumber("hours", mcp.Required(), mcp.Description("Total volunteered hours")),
			mcp.WithString("profile", mcp.Description("Level profile (classic or stars, default classic)")),
		),
		h.volunteerLevel,
	)

	s.AddTool(
		mcp.NewTool("list_levels",
			mcp.WithDescription("List every level of a profile with its minimum hours."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("profile", mcp.Description("Level profile (classic or stars, default classic)")),
		),
		h.listLevels,
	)

	s.AddTool(
		mcp.NewTool("validate_field",
			mcp.WithDescription("Check a single registration value the same way the site does when the field loses focus."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("field", mcp.Required(), mcp.Description("Field id: email, phone, nationalId, birthDate or totalHours")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to check")),
		),
		h.validateField,
	)

	s.AddTool(
		mcp.NewTool("get_saved_hours",
			mcp.WithDescription("Fetch the hours form a visitor last saved."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("visitor_id", mcp.Required(), mcp.Description("Visitor ID from the visitor cookie")),
		),
		h.getSavedHours,
	)
}
