// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/filenav/internal/models"

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	// Paths are slash-separated.
	List(dir string) ([]models.FileInfo, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Stat returns metadata for a single .md file.
	Stat(path string) (models.FileInfo, error)
}
