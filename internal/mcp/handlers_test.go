package mcptools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"givingbank/internal/drafts"
	"givingbank/internal/tiers"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlers(t *testing.T) (*handlers, drafts.Store) {
	t.Helper()
	store := drafts.NewFileStore(afero.NewMemMapFs(), "/drafts")
	return &handlers{deps: Deps{
		Profiles: tiers.Default(),
		Drafts:   store,
		MinAge:   16,
		Now:      func() time.Time { return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC) },
	}}, store
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestVolunteerLevel(t *testing.T) {
	h, _ := newHandlers(t)
	ctx := context.Background()

	res, err := h.volunteerLevel(ctx, call(map[string]any{"hours": float64(250)}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	var lvl LevelDTO
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &lvl))
	assert.Equal(t, tiers.Classic, lvl.Profile)
	assert.Equal(t, "خبير", lvl.Level)

	res, err = h.volunteerLevel(ctx, call(map[string]any{"hours": "320", "profile": tiers.Stars}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &lvl))
	assert.Equal(t, "خبير ⭐⭐⭐⭐", lvl.Level)

	for _, args := range []map[string]any{
		{},
		{"hours": float64(0)},
		{"hours": float64(10), "profile": "gold"},
	} {
		res, err = h.volunteerLevel(ctx, call(args))
		require.NoError(t, err)
		assert.True(t, res.IsError, "args %v", args)
	}
}

func TestListLevels(t *testing.T) {
	h, _ := newHandlers(t)
	res, err := h.listLevels(context.Background(), call(map[string]any{"profile": tiers.Stars}))
	require.NoError(t, err)
	var levels []TierDTO
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &levels))
	require.Len(t, levels, 5)
	assert.Equal(t, 500, levels[0].MinHours)
}

func TestValidateField(t *testing.T) {
	h, _ := newHandlers(t)
	ctx := context.Background()

	res, err := h.validateField(ctx, call(map[string]any{"field": "phone", "value": "0551234567"}))
	require.NoError(t, err)
	var chk FieldCheckDTO
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &chk))
	assert.True(t, chk.Valid)

	res, err = h.validateField(ctx, call(map[string]any{"field": "email", "value": "nope"}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &chk))
	assert.False(t, chk.Valid)
	assert.NotEmpty(t, chk.Message)

	res, err = h.validateField(ctx, call(map[string]any{"field": "city", "value": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetSavedHours(t *testing.T) {
	h, store := newHandlers(t)
	ctx := context.Background()

	res, err := h.getSavedHours(ctx, call(map[string]any{"visitor_id": "v1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	require.NoError(t, store.Save(ctx, "v1", drafts.HoursKey, drafts.Snapshot{"totalHours": "8"}))
	res, err = h.getSavedHours(ctx, call(map[string]any{"visitor_id": "v1"}))
	require.NoError(t, err)
	var d DraftDTO
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &d))
	assert.Equal(t, "8", d.Values["totalHours"])
	assert.Equal(t, "v1", d.VisitorID)
}
