package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fnscan/internal/adapter/scanner"
	"fnscan/internal/domain"
	"fnscan/internal/port"
)

// ProgressFunc is called after each file is visited.
type ProgressFunc func(processed, total int, currentFile string)

// IndexUseCase extracts a source tree into the record store.
type IndexUseCase struct {
	store   port.RecordStore
	walker  port.FileWalker
	extract *ExtractUseCase
	log     *slog.Logger

	mu     sync.Mutex
	failed map[string]bool
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(
	store port.RecordStore,
	walker port.FileWalker,
	extract *ExtractUseCase,
	log *slog.Logger,
) *IndexUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &IndexUseCase{
		store:   store,
		walker:  walker,
		extract: extract,
		log:     log,
		failed:  make(map[string]bool),
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	FilesIndexed   int
	FilesSkipped   int
	FilesDeleted   int
	FilesFailed    int
	RecordsCreated int
	Errors         []string
}

// Index extracts every selected file under root. Files whose modification
// time is unchanged since the last run are skipped; files that vanished
// are removed from the store.
func (u *IndexUseCase) Index(root string, progress ProgressFunc) (*IndexResult, error) {
	result := &IndexResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existingDocs, err := u.store.ListDocs()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing docs: %w", err)
	}
	existingMap := make(map[string]domain.Document)
	for _, doc := range existingDocs {
		existingMap[doc.Path] = doc
	}

	seenPaths := make(map[string]bool)
	failed := make(map[string]bool)
	totalRecords := 0

	for i, file := range files {
		seenPaths[file.Path] = true

		if existing, ok := existingMap[file.Path]; ok && existing.ModTime.UnixNano() >= file.ModTime {
			result.FilesSkipped++
			records, _ := u.store.GetRecords(existing.ID)
			totalRecords += len(records)
			if progress != nil {
				progress(i+1, len(files), file.Path)
			}
			continue
		}

		n, err := u.indexFile(file)
		switch {
		case err == nil:
			result.FilesIndexed++
			totalRecords += n
		case errors.Is(err, scanner.ErrInvalidArgumentSyntax):
			failed[file.Path] = true
			result.FilesFailed++
			result.Errors = append(result.Errors, err.Error())
			u.log.Warn("rejected file", "path", file.Path, "error", err)
		default:
			failed[file.Path] = true
			result.FilesFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("failed to index %s: %v", file.Path, err))
			u.log.Warn("failed to index file", "path", file.Path, "error", err)
		}

		if progress != nil {
			progress(i+1, len(files), file.Path)
		}
	}

	for path, doc := range existingMap {
		if seenPaths[path] {
			continue
		}
		if err := u.store.DeleteDoc(doc.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		u.log.Debug("removed vanished file", "path", path)
		result.FilesDeleted++
	}

	stats := domain.Stats{
		TotalDocs:    result.FilesIndexed + result.FilesSkipped,
		TotalRecords: totalRecords,
		FailedDocs:   result.FilesFailed,
	}
	if err := u.store.UpdateStats(stats); err != nil {
		return nil, fmt.Errorf("failed to update stats: %w", err)
	}

	u.mu.Lock()
	u.failed = failed
	u.mu.Unlock()

	result.RecordsCreated = totalRecords
	return result, nil
}

// Sync re-extracts a batch of changed paths, removes the ones that no
// longer exist and recomputes the store statistics.
func (u *IndexUseCase) Sync(paths []string) (*IndexResult, error) {
	result := &IndexResult{}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := u.RemovePath(path); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to remove %s: %v", path, err))
				continue
			}
			result.FilesDeleted++
			continue
		}

		n, err := u.IndexPath(path)
		if err != nil {
			result.FilesFailed++
			result.Errors = append(result.Errors, err.Error())
			u.log.Warn("rejected file", "path", path, "error", err)
			continue
		}
		result.FilesIndexed++
		result.RecordsCreated += n
	}

	if err := u.refreshStats(); err != nil {
		return result, err
	}
	return result, nil
}

// IndexPath re-extracts a single file, used when the watcher sees a change.
func (u *IndexUseCase) IndexPath(path string) (int, error) {
	n, err := u.indexFile(port.FileInfo{Path: path, ModTime: time.Now().UnixNano()})
	u.setFailed(path, err != nil)
	return n, err
}

// RemovePath drops a file from the store.
func (u *IndexUseCase) RemovePath(path string) error {
	if err := u.store.DeleteDoc(generateDocID(path)); err != nil {
		return err
	}
	u.setFailed(path, false)
	return nil
}

func (u *IndexUseCase) setFailed(path string, failed bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if failed {
		u.failed[path] = true
	} else {
		delete(u.failed, path)
	}
}

// refreshStats recounts documents and records from the store.
func (u *IndexUseCase) refreshStats() error {
	docs, err := u.store.ListDocs()
	if err != nil {
		return fmt.Errorf("failed to list docs: %w", err)
	}
	total := 0
	for _, doc := range docs {
		records, err := u.store.GetRecords(doc.ID)
		if err != nil {
			return fmt.Errorf("failed to read records: %w", err)
		}
		total += len(records)
	}

	u.mu.Lock()
	failed := len(u.failed)
	u.mu.Unlock()

	if err := u.store.UpdateStats(domain.Stats{
		TotalDocs:    len(docs),
		TotalRecords: total,
		FailedDocs:   failed,
	}); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	return nil
}

// indexFile replaces the stored records of one file. A file that fails to
// scan keeps no records.
func (u *IndexUseCase) indexFile(file port.FileInfo) (int, error) {
	docID := generateDocID(file.Path)

	records, err := u.extract.ExtractFile(file.Path)
	if err != nil {
		if delErr := u.store.DeleteDoc(docID); delErr != nil {
			u.log.Warn("failed to drop stale records", "path", file.Path, "error", delErr)
		}
		return 0, err
	}

	doc := domain.Document{
		ID:      docID,
		Path:    file.Path,
		ModTime: time.Unix(0, file.ModTime),
		Lang:    detectLanguage(file.Path),
	}
	if err := u.store.PutDoc(doc); err != nil {
		return 0, fmt.Errorf("failed to store document: %w", err)
	}
	if err := u.store.PutRecords(docID, records); err != nil {
		return 0, fmt.Errorf("failed to store records: %w", err)
	}

	u.log.Debug("indexed file", "path", file.Path, "records", len(records))
	return len(records), nil
}

// generateDocID creates a stable ID for a document based on its path.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

func detectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".c":
		return "c"
	case ".h":
		return "c-header"
	case ".cpp", ".cc", ".cxx":
		return "cpp"
	case ".hpp", ".hh":
		return "cpp-header"
	default:
		return "unknown"
	}
}
