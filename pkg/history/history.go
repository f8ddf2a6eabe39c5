// Package history records completed renders.
//
// Every render produced by the pipeline can be appended to a [Store] as a
// [Record]; the CLI lists and re-renders records and the server exposes them
// at /history. Backends:
//   - [MemoryStore]: in-process storage for the server and tests
//   - [FileStore]: JSON files under the user config directory (CLI default)
//   - [SQLiteStore]: a single SQLite database file
//   - [MongoStore]: MongoDB collection shared between server instances
//
// # Usage
//
//	store := history.NewMemoryStore(0)
//	rec := history.New(fractal.Mandelbrot, 400, 400, "png")
//	if err := store.Add(ctx, rec); err != nil {
//	    return err
//	}
//	recent, err := store.List(ctx, 10)
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fractals/pkg/fractal"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Record describes one completed render.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	Kind      fractal.Kind  `json:"kind" bson:"kind"`
	Width     int           `json:"width" bson:"width"`
	Height    int           `json:"height" bson:"height"`
	Format    string        `json:"format" bson:"format"`
	Size      int           `json:"size" bson:"size"`
	CacheHit  bool          `json:"cache_hit" bson:"cache_hit"`
	Duration  time.Duration `json:"duration" bson:"duration"`
	Output    string        `json:"output,omitempty" bson:"output,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// New creates a record with a fresh ID and the current time.
func New(kind fractal.Kind, width, height int, format string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		Width:     width,
		Height:    height,
		Format:    format,
		CreatedAt: time.Now().UTC(),
	}
}

// Summary returns a one-line description such as "Mandelbrot Set 400x400 png".
func (r *Record) Summary() string {
	return fmt.Sprintf("%s %dx%d %s", r.Kind.Title(), r.Width, r.Height, r.Format)
}

// Store is the interface for history backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Add stores a record. Records without an ID are rejected.
	Add(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit ≤ 0 returns all.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// DefaultLimit is the number of records listed when no limit is given.
const DefaultLimit = 20

var errMissingID = errors.New("history record has no id")

func validate(rec *Record) error {
	if rec == nil || rec.ID == "" {
		return errMissingID
	}
	return nil
}
