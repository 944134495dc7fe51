// Package drafts keeps the last saved snapshot of a form per visitor.
//
// A draft is a flat key/value map stored whole under a fixed key. Saving
// replaces the previous snapshot; there is no merging and no history.
package drafts

import (
	"context"
	"errors"
	"time"
)

// HoursKey is the key the hours-entry form is saved under.
const HoursKey = "savedHours"

var ErrNotFound = errors.New("draft not found")

type Snapshot map[string]string

type Draft struct {
	Owner   string
	Key     string
	Values  Snapshot
	SavedAt time.Time
}

// Store is implemented by every draft backend. Save overwrites; Load returns
// ErrNotFound when nothing was saved for owner and key.
type Store interface {
	Save(ctx context.Context, owner, key string, values Snapshot) error
	Load(ctx context.Context, owner, key string) (*Draft, error)
	Delete(ctx context.Context, owner, key string) error
}

func clone(s Snapshot) Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
