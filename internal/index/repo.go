package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/xrefview/internal/analysis"
	"github.com/starford/xrefview/internal/apperr"
)

const defaultSearchLimit = 1000

// Hit is one ranked search result.
type Hit struct {
	DocID int64
}

// Document holds the stored fields of one indexed file.
type Document struct {
	ID int64
	// Path is repository-relative and slash-separated. It is empty for a
	// corrupt record whose path field is absent.
	Path   string
	Genre  analysis.Genre
	Date   string // see FormatDate; empty when absent
	Defs   []byte // serialized analysis.Definitions; nil when absent
	Scopes []byte // serialized analysis.Scopes; nil when absent
}

// Line is one stored source line, numbered from 1.
type Line struct {
	Number int
	Text   string
}

// HistoryEntry is one change to a file.
type HistoryEntry struct {
	Path     string
	Revision string
	Author   string
	Date     time.Time
	Message  string
}

// UpsertDocument inserts or replaces a document and its stored lines within
// a transaction and returns the document id. A document with an empty path
// is always inserted as a new record.
func (db *DB) UpsertDocument(ctx context.Context, d Document, lines []Line) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var path sql.NullString
	if d.Path != "" {
		path = sql.NullString{String: d.Path, Valid: true}
	}
	var date sql.NullString
	if d.Date != "" {
		date = sql.NullString{String: d.Date, Valid: true}
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO documents (path, genre, date, defs, scopes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			genre  = excluded.genre,
			date   = excluded.date,
			defs   = excluded.defs,
			scopes = excluded.scopes
		RETURNING id
	`, path, d.Genre.Code(), date, d.Defs, d.Scopes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("index: upsert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lines WHERE doc_id = ?`, id); err != nil {
		return 0, fmt.Errorf("index: clear lines: %w", err)
	}
	if len(lines) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO lines (doc_id, line, text) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("index: prepare line insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range lines {
			if _, err := stmt.ExecContext(ctx, id, l.Number, l.Text); err != nil {
				return 0, fmt.Errorf("index: insert line: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("index: commit: %w", err)
	}
	return id, nil
}

// Document returns the stored fields of document id. A hit pointing at a
// missing document means the index is corrupt.
func (db *DB) Document(ctx context.Context, id int64) (*Document, error) {
	var (
		path, genre, date sql.NullString
		defs, scopes      []byte
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT path, genre, date, defs, scopes FROM documents WHERE id = ?`, id,
	).Scan(&path, &genre, &date, &defs, &scopes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: document %d: %w", id, apperr.ErrCorruptIndex)
	}
	if err != nil {
		return nil, fmt.Errorf("index: document %d: %w", id, err)
	}
	return &Document{
		ID:     id,
		Path:   path.String,
		Genre:  analysis.ParseGenre(genre.String),
		Date:   date.String,
		Defs:   defs,
		Scopes: scopes,
	}, nil
}

// Lines returns the stored lines of document id in line order. Documents
// indexed without line data have none.
func (db *DB) Lines(ctx context.Context, id int64) ([]Line, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT line, text FROM lines WHERE doc_id = ? ORDER BY line`, id)
	if err != nil {
		return nil, fmt.Errorf("index: lines %d: %w", id, err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.Number, &l.Text); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Search returns documents whose path or stored text contains any of terms,
// in id order. Relevance ranking is left to a real search engine.
func (db *DB) Search(ctx context.Context, terms []string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	var (
		conds []string
		args  []any
	)
	for _, t := range terms {
		if t = strings.TrimSpace(t); t == "" {
			continue
		}
		like := "%" + t + "%"
		conds = append(conds, `d.path LIKE ? OR l.text LIKE ?`)
		args = append(args, like, like)
	}
	if len(conds) == 0 {
		return nil, nil
	}
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT d.id
		FROM documents d
		LEFT JOIN lines l ON l.doc_id = d.id
		WHERE `+strings.Join(conds, " OR ")+`
		ORDER BY d.id
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.DocID); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// AddHistory records a change to a file, replacing an entry with the same
// revision.
func (db *DB) AddHistory(ctx context.Context, e HistoryEntry) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO history (path, revision, author, date, message)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path, revision) DO UPDATE SET
			author  = excluded.author,
			date    = excluded.date,
			message = excluded.message
	`, e.Path, e.Revision, e.Author, e.Date.UTC(), e.Message)
	if err != nil {
		return fmt.Errorf("index: add history: %w", err)
	}
	return nil
}

// History returns the changes to path, newest first.
func (db *DB) History(ctx context.Context, path string) ([]HistoryEntry, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT path, revision, author, date, message
		FROM history
		WHERE path = ?
		ORDER BY date DESC, revision DESC
	`, path)
	if err != nil {
		return nil, fmt.Errorf("index: history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Path, &e.Revision, &e.Author, &e.Date, &e.Message); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
