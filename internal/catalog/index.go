package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/philippgille/chromem-go"
)

// EmbedFunc produces a float32 embedding vector from text. The gateway
// wires this to the backend's embeddings endpoint.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Index is an in-memory semantic search index over catalog entries so
// a free-text query ("something that can read screenshots") can find
// models whose name alone would never match.
type Index struct {
	collection *chromem.Collection

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewIndex creates an empty Index using the given embedder.
func NewIndex(embed EmbedFunc) (*Index, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection("catalog", nil, chromem.EmbeddingFunc(embed))
	if err != nil {
		return nil, fmt.Errorf("create catalog collection: %w", err)
	}
	return &Index{
		collection: col,
		entries:    make(map[string]Entry),
	}, nil
}

// Add indexes the given entries, overwriting previous versions of the
// same name.
func (ix *Index) Add(ctx context.Context, entries []Entry) error {
	for _, entry := range entries {
		doc := chromem.Document{
			ID:      entry.Name,
			Content: entry.Name + ": " + entry.Description,
			Metadata: map[string]string{
				"capabilities": strings.Join(entry.Capabilities, ","),
				"sizes":        strings.Join(entry.Sizes, ","),
			},
		}
		if err := ix.collection.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("index entry %q: %w", entry.Name, err)
		}

		ix.mu.Lock()
		ix.entries[entry.Name] = entry
		ix.mu.Unlock()
	}
	return nil
}

// Count returns the number of indexed entries.
func (ix *Index) Count() int {
	return ix.collection.Count()
}

// Search returns up to limit entries ranked by semantic similarity to
// the query.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}

	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := ix.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query catalog index: %w", err)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Entry, 0, len(results))
	for _, res := range results {
		if entry, ok := ix.entries[res.ID]; ok {
			out = append(out, entry)
		}
	}
	return out, nil
}
