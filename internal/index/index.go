package index

import (
	"context"

	"github.com/starford/filenav/internal/models"
)

// DocumentIndex defines the operations the rest of the application needs.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type DocumentIndex interface {
	UpsertDocument(doc models.Document) error
	DeleteDocument(path string) error
	Fingerprints() (map[string]models.FileInfo, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
