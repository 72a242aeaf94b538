package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/starford/filenav/internal/models"
)

// UpsertDocument inserts or replaces a document. The creation timestamp of an
// existing row is preserved; a new row takes doc.CreatedAt, or doc.ModifiedAt when
// CreatedAt is zero.
func (db *DB) UpsertDocument(doc models.Document) error {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("index: encode tags: %w", err)
	}
	fmJSON, err := json.Marshal(jsonSafe(doc.Frontmatter))
	if err != nil {
		return fmt.Errorf("index: encode frontmatter: %w", err)
	}
	if string(fmJSON) == "null" {
		fmJSON = []byte("{}")
	}

	created := doc.CreatedAt
	if created.IsZero() {
		created = doc.ModifiedAt
	}

	_, err = db.conn.Exec(`
		INSERT INTO documents (path, folder, title, checksum, tags, frontmatter, created_ns, modified_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			folder      = excluded.folder,
			title       = excluded.title,
			checksum    = excluded.checksum,
			tags        = excluded.tags,
			frontmatter = excluded.frontmatter,
			modified_ns = excluded.modified_ns
	`, doc.Path, doc.Folder, doc.Title, doc.Checksum, string(tagsJSON), string(fmJSON),
		unixNano(created), unixNano(doc.ModifiedAt))
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}
	return nil
}

// DeleteDocument removes a document from the index.
func (db *DB) DeleteDocument(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete document: %w", err)
	}
	return nil
}

// Fingerprints returns checksum and modification time for every indexed path.
func (db *DB) Fingerprints() (map[string]models.FileInfo, error) {
	rows, err := db.conn.Query(`SELECT path, checksum, modified_ns FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.FileInfo)
	for rows.Next() {
		var (
			fi models.FileInfo
			ns int64
		)
		if err := rows.Scan(&fi.Path, &fi.Checksum, &ns); err != nil {
			return nil, err
		}
		fi.ModifiedAt = time.Unix(0, ns)
		out[fi.Path] = fi
	}
	return out, rows.Err()
}

// ListDocuments returns the full document snapshot ordered by path.
func (db *DB) ListDocuments(ctx context.Context) ([]models.Document, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT path, folder, title, checksum, tags, frontmatter, created_ns, modified_ns
		FROM documents
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var (
			d                models.Document
			tagsJSON, fmJSON string
			createdNs, modNs int64
		)
		if err := rows.Scan(&d.Path, &d.Folder, &d.Title, &d.Checksum, &tagsJSON, &fmJSON, &createdNs, &modNs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tagsJSON), &d.Tags); err != nil {
			return nil, fmt.Errorf("index: decode tags for %s: %w", d.Path, err)
		}
		if err := json.Unmarshal([]byte(fmJSON), &d.Frontmatter); err != nil {
			return nil, fmt.Errorf("index: decode frontmatter for %s: %w", d.Path, err)
		}
		d.CreatedAt = time.Unix(0, createdNs)
		d.ModifiedAt = time.Unix(0, modNs)
		out = append(out, d)
	}
	return out, rows.Err()
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// jsonSafe rewrites YAML-decoded values so encoding/json accepts them:
// maps with non-string keys become string-keyed maps, and .nan/.inf become
// "NaN", "Infinity" and "-Infinity".
func jsonSafe(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = jsonSafe(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = jsonSafe(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = jsonSafe(val)
		}
		return out
	case float64:
		return nonFinite(x, v)
	case float32:
		return nonFinite(float64(x), v)
	default:
		return v
	}
}

func nonFinite(f float64, v any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return v
}
