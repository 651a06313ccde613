package port

import "fnscan/internal/domain"

// Scanner segments source text into function records.
type Scanner interface {
	Scan(source string) ([]domain.FunctionRecord, error)
}

// Emitter renders function records as an output document.
type Emitter interface {
	Emit(records []domain.FunctionRecord) string
}
