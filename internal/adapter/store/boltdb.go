package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"fnscan/internal/domain"
)

var (
	bucketDocs    = []byte("docs")
	bucketRecords = []byte("records")
	bucketStats   = []byte("stats")
	keyStats      = []byte("corpus_stats")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocs, bucketRecords, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type docMeta struct {
	Path    string `json:"path"`
	ModTime int64  `json:"mod_time"`
	Lang    string `json:"lang"`
}

func (s *BoltStore) PutDoc(doc domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(docMeta{
			Path:    doc.Path,
			ModTime: doc.ModTime.UnixNano(),
			Lang:    doc.Lang,
		})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Put([]byte(doc.ID), data)
	})
}

func (s *BoltStore) GetDoc(id string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("document not found: %s", id)
		}
		var meta docMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		doc = meta.toDocument(id)
		return nil
	})
	return doc, err
}

// DeleteDoc removes a document together with its records.
func (s *BoltStore) DeleteDoc(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketRecords).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Delete([]byte(id))
	})
}

// ListDocs returns all documents ordered by path.
func (s *BoltStore) ListDocs() ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var meta docMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			docs = append(docs, meta.toDocument(string(k)))
			return nil
		})
	})
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, err
}

func (m docMeta) toDocument(id string) domain.Document {
	return domain.Document{
		ID:      id,
		Path:    m.Path,
		ModTime: time.Unix(0, m.ModTime),
		Lang:    m.Lang,
	}
}

// PutRecords replaces the records stored for a document.
func (s *BoltStore) PutRecords(docID string, records []domain.FunctionRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketRecords).Put([]byte(docID), data)
	})
}

func (s *BoltStore) GetRecords(docID string) ([]domain.FunctionRecord, error) {
	var records []domain.FunctionRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get([]byte(docID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &records)
	})
	return records, err
}

// AllRecords concatenates every document's records, documents in path
// order and records in source order.
func (s *BoltStore) AllRecords() ([]domain.FunctionRecord, error) {
	docs, err := s.ListDocs()
	if err != nil {
		return nil, err
	}

	all := []domain.FunctionRecord{}
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		for _, doc := range docs {
			data := b.Get([]byte(doc.ID))
			if data == nil {
				continue
			}
			var records []domain.FunctionRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("decode records for %s: %w", doc.Path, err)
			}
			all = append(all, records...)
		}
		return nil
	})
	return all, err
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyStats, data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
