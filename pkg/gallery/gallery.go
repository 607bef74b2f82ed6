// Package gallery records rendered posters so they can be listed and
// downloaded again.
//
// An [Entry] stores the configuration, not the bytes: rendering is
// deterministic, so the server re-runs the pipeline (usually a cache hit)
// when an entry is downloaded. Two stores implement [Store]:
//
//   - [MemoryStore]: bounded in-process history, the default
//   - [MongoStore]: persistent history in a MongoDB collection
package gallery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/genposter/pkg/poster"
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Entry is one rendered poster.
type Entry struct {
	ID        string        `json:"id" bson:"_id"`
	Hash      string        `json:"hash" bson:"hash"`
	Config    poster.Config `json:"config" bson:"config"`
	Width     int           `json:"width" bson:"width"`
	Height    int           `json:"height" bson:"height"`
	Blobs     int           `json:"blobs" bson:"blobs"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// NewEntry stamps a fresh id and creation time.
func NewEntry(cfg poster.Config, hash string, width, height, blobs int) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Hash:      hash,
		Config:    cfg,
		Width:     width,
		Height:    height,
		Blobs:     blobs,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Store persists entries. Implementations must be safe for concurrent use.
type Store interface {
	// Save records e. Saving an existing id replaces it.
	Save(ctx context.Context, e Entry) error

	// Get returns the entry with id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (Entry, error)

	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
