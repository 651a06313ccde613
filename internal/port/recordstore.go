package port

import "fnscan/internal/domain"

type RecordStore interface {
	PutDoc(doc domain.Document) error

	GetDoc(id string) (domain.Document, error)

	DeleteDoc(id string) error

	ListDocs() ([]domain.Document, error)

	PutRecords(docID string, records []domain.FunctionRecord) error

	GetRecords(docID string) ([]domain.FunctionRecord, error)

	AllRecords() ([]domain.FunctionRecord, error)

	GetStats() (domain.Stats, error)

	UpdateStats(stats domain.Stats) error

	Close() error
}
