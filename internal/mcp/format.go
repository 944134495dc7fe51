package mcptools

import (
	"time"

	"givingbank/internal/drafts"
	"givingbank/internal/tiers"
)

type LevelDTO struct {
	Profile     string `json:"profile"`
	Title       string `json:"title"`
	Hours       int    `json:"hours"`
	Rank        int    `json:"rank"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

type TierDTO struct {
	Rank        int    `json:"rank"`
	MinHours    int    `json:"min_hours"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

type FieldCheckDTO struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type DraftDTO struct {
	VisitorID string            `json:"visitor_id"`
	Key       string            `json:"key"`
	Values    map[string]string `json:"values"`
	SavedAt   string            `json:"saved_at"`
}

func levelToDTO(p tiers.Profile, hours int) LevelDTO {
	t := p.Lookup(hours)
	return LevelDTO{
		Profile:     p.Name,
		Title:       p.Title,
		Hours:       hours,
		Rank:        t.Rank,
		Level:       t.Label,
		Description: t.Description,
	}
}

func tiersToDTO(p tiers.Profile) []TierDTO {
	out := make([]TierDTO, len(p.Tiers))
	for i, t := range p.Tiers {
		out[i] = TierDTO{Rank: t.Rank, MinHours: t.Min, Level: t.Label, Description: t.Description}
	}
	return out
}

func draftToDTO(d *drafts.Draft) DraftDTO {
	return DraftDTO{
		VisitorID: d.Owner,
		Key:       d.Key,
		Values:    d.Values,
		SavedAt:   d.SavedAt.UTC().Format(time.RFC3339),
	}
}
