// Package models defines the domain types for filenav.
package models

import "time"

// Document is a Markdown file in the vault as seen by the navigator.
// It is a read-only snapshot; the index owns the data.
type Document struct {
	Path        string         `json:"path"`
	Folder      string         `json:"folder"`
	Title       string         `json:"title,omitempty"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Checksum    string         `json:"checksum,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ModifiedAt  time.Time      `json:"modified_at"`
}

// FileInfo is the lightweight listing entry returned by storage.
type FileInfo struct {
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	ModifiedAt time.Time `json:"modified_at"`
}

// FolderOf returns the parent folder of a slash-separated vault path,
// or "" for files at the vault root.
func FolderOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}
