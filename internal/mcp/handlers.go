package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"givingbank/internal/drafts"
	"givingbank/internal/forms"
	"givingbank/internal/tiers"

	"github.com/mark3labs/mcp-go/mcp"
)

type handlers struct {
	deps Deps
}

func (h *handlers) profile(args map[string]any) (tiers.Profile, error) {
	name, _ := args["profile"].(string)
	if name == "" {
		name = tiers.Classic
	}
	return h.deps.Profiles.Get(name)
}

func (h *handlers) volunteerLevel(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	hours, err := toInt(args["hours"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid hours: %v", err)), nil
	}
	if hours <= 0 {
		return mcp.NewToolResultError("hours must be greater than zero"), nil
	}
	p, err := h.profile(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(levelToDTO(p, hours))
}

func (h *handlers) listLevels(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := h.profile(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tiersToDTO(p))
}

func (h *handlers) validateField(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	field, _ := args["field"].(string)
	value, _ := args["value"].(string)

	message, known := forms.CheckField(field, value, h.deps.Now(), h.deps.MinAge)
	if !known {
		return mcp.NewToolResultError(fmt.Sprintf("unknown field %q", field)), nil
	}
	return jsonResult(FieldCheckDTO{
		Field:   field,
		Value:   value,
		Valid:   message == "",
		Message: message,
	})
}

func (h *handlers) getSavedHours(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["visitor_id"].(string)
	if id == "" {
		return mcp.NewToolResultError("visitor_id cannot be empty"), nil
	}
	d, err := h.deps.Drafts.Load(ctx, id, drafts.HoursKey)
	if errors.Is(err, drafts.ErrNotFound) {
		return mcp.NewToolResultError("no saved hours for this visitor"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load saved hours: %v", err)), nil
	}
	return jsonResult(draftToDTO(d))
}

func toInt(v any) (int, error) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("not a finite number")
		}
		return int(val), nil
	case int:
		return val, nil
	case string:
		return strconv.Atoi(val)
	case json.Number:
		n, err := val.Int64()
		return int(n), err
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
