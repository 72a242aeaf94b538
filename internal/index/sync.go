package index

import (
	"log/slog"

	"github.com/starford/filenav/internal/models"
	"github.com/starford/filenav/internal/parser"
	"github.com/starford/filenav/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new files and files whose checksum or mtime changed are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db DocumentIndex, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	indexed, err := db.Fingerprints()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if !changed(indexed, m) {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range indexed {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

func changed(indexed map[string]models.FileInfo, m models.FileInfo) bool {
	prev, ok := indexed[m.Path]
	if !ok {
		return true
	}
	return prev.Checksum != m.Checksum || !prev.ModifiedAt.Equal(m.ModifiedAt)
}

// indexFile parses data and upserts it into the index.
func indexFile(db DocumentIndex, info models.FileInfo, data []byte) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}
	return db.UpsertDocument(models.Document{
		Path:        info.Path,
		Folder:      models.FolderOf(info.Path),
		Title:       res.Title,
		Tags:        res.Tags,
		Frontmatter: res.Frontmatter,
		Checksum:    storage.Checksum(data),
		ModifiedAt:  info.ModifiedAt,
	})
}

// indexPath stats, reads and indexes a single vault-relative path.
func indexPath(db DocumentIndex, store storage.Provider, rel string) error {
	info, err := store.Stat(rel)
	if err != nil {
		return err
	}
	data, err := store.Read(rel)
	if err != nil {
		return err
	}
	return indexFile(db, info, data)
}
