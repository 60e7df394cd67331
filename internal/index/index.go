package index

import "context"

// Reader is the read-only view of the index used while rendering results.
// The same Reader is shared by concurrent requests.
type Reader interface {
	Document(ctx context.Context, id int64) (*Document, error)
	Lines(ctx context.Context, id int64) ([]Line, error)
	History(ctx context.Context, path string) ([]HistoryEntry, error)
	Search(ctx context.Context, terms []string, limit int) ([]Hit, error)
}

// Verify *DB satisfies Reader at compile time.
var _ Reader = (*DB)(nil)
