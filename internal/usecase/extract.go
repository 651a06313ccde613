package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fnscan/internal/adapter/emitter"
	"fnscan/internal/domain"
	"fnscan/internal/port"
)

// ErrIO marks failures reading sources or writing documents, as opposed
// to scan or emit failures.
var ErrIO = errors.New("i/o error")

// ExtractUseCase turns one source file into an output document.
type ExtractUseCase struct {
	reader  port.SourceReader
	scanner port.Scanner
	emitter port.Emitter
	indent  string
	log     *slog.Logger
}

// NewExtractUseCase creates a new extract use case.
func NewExtractUseCase(
	reader port.SourceReader,
	scanner port.Scanner,
	emitter port.Emitter,
	indent string,
	log *slog.Logger,
) *ExtractUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &ExtractUseCase{
		reader:  reader,
		scanner: scanner,
		emitter: emitter,
		indent:  indent,
		log:     log,
	}
}

// ExtractFile reads and scans a single file.
func (u *ExtractUseCase) ExtractFile(path string) ([]domain.FunctionRecord, error) {
	source, err := u.reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}

	records, err := u.scanner.Scan(source)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	u.log.Debug("scanned file", "path", path, "records", len(records), "bytes", len(source))
	return records, nil
}

// Render emits records and normalizes the result into document bytes.
func (u *ExtractUseCase) Render(records []domain.FunctionRecord) ([]byte, error) {
	return emitter.Normalize(u.emitter.Emit(records), u.indent)
}

// WriteDocument renders records and writes them to dest. "-" or an empty
// dest writes to stdout. Nothing is written when rendering fails.
func (u *ExtractUseCase) WriteDocument(records []domain.FunctionRecord, dest string) error {
	doc, err := u.Render(records)
	if err != nil {
		return err
	}
	doc = append(doc, '\n')

	if dest == "" || dest == "-" {
		if _, err := os.Stdout.Write(doc); err != nil {
			return fmt.Errorf("%w: writing stdout: %w", ErrIO, err)
		}
		return nil
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: creating %s: %w", ErrIO, dir, err)
		}
	}
	if err := os.WriteFile(dest, doc, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, dest, err)
	}

	u.log.Debug("wrote document", "path", dest, "records", len(records))
	return nil
}

// Run extracts src and writes the document to dest.
func (u *ExtractUseCase) Run(src, dest string) (int, error) {
	records, err := u.ExtractFile(src)
	if err != nil {
		return 0, err
	}
	if err := u.WriteDocument(records, dest); err != nil {
		return 0, err
	}
	return len(records), nil
}
