// Package store persists saved diagrams for share links.
//
// A [Diagram] is a snapshot of source text together with the graph
// extracted from it. Backends:
//   - [MemoryStore]: in-process, for tests and servers without a database
//   - [MongoStore]: MongoDB, for deployments that keep links across restarts
//
// # Usage
//
//	d := store.NewDiagram("Counter", code, extract.Parse(code))
//	if err := st.Save(ctx, d); err != nil {
//	    return err
//	}
//	link := "/api/diagrams/" + d.ID
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/codeviz/pkg/graph"
)

// ErrNotFound is returned when a diagram does not exist.
var ErrNotFound = errors.New("diagram not found")

// DefaultListLimit caps List when limit <= 0.
const DefaultListLimit = 50

// Diagram is a saved graph.
type Diagram struct {
	ID        string      `json:"id" bson:"_id"`
	Title     string      `json:"title" bson:"title"`
	Source    string      `json:"source" bson:"source"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// NewDiagram creates an unsaved diagram with a fresh ID. An empty title
// becomes "Untitled".
func NewDiagram(title, source string, g graph.Graph) *Diagram {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled"
	}
	return &Diagram{
		ID:        uuid.NewString(),
		Title:     title,
		Source:    source,
		Graph:     g,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// ValidID reports whether id has the shape of a diagram ID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Save inserts or replaces a diagram.
	Save(ctx context.Context, d *Diagram) error

	// Get returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*Diagram, error)

	// List returns up to limit diagrams, newest first.
	List(ctx context.Context, limit int) ([]Diagram, error)

	// Delete returns ErrNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error

	Close(ctx context.Context) error
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
