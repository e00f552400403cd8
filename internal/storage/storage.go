// Package storage archives evaluation runs. It uses BoltDB as the
// underlying storage engine so past cross-validation results stay
// queryable across invocations. Model state is never persisted, only
// run outcomes.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const runsBucket = "runs"

// Store provides persistent storage for run records.
type Store struct {
	db *bbolt.DB
}

// RunRecord is the archived outcome of one cross-validation run.
type RunRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	Rows           int       `json:"rows"`
	Folds          int       `json:"folds"`
	Members        int       `json:"members"`
	Seed           int64     `json:"seed"`
	Accuracy       float64   `json:"accuracy"`
	FoldAccuracies []float64 `json:"fold_accuracies"`
	Predictions    []int     `json:"predictions"`
}

// New opens (or creates) the archive database under dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "titanic-runs.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StoreRun archives one run record keyed by its timestamp.
func (s *Store) StoreRun(record RunRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal run record: %w", err)
		}

		key := fmt.Sprintf("run_%d", record.Timestamp.UnixNano())
		return b.Put([]byte(key), data)
	})
}

// GetRuns retrieves run records within a time range, oldest first. The
// range is inclusive of both ends.
func (s *Store) GetRuns(start, end time.Time) ([]RunRecord, error) {
	var runs []RunRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		c := b.Cursor()

		startKey := []byte(fmt.Sprintf("run_%d", start.UnixNano()))
		endKey := []byte(fmt.Sprintf("run_%d", end.UnixNano()))

		for k, v := c.Seek(startKey); k != nil && bytes.Compare(k, endKey) <= 0; k, v = c.Next() {
			var record RunRecord
			if err := json.Unmarshal(v, &record); err != nil {
				continue // Skip malformed records
			}
			runs = append(runs, record)
		}
		return nil
	})

	return runs, err
}

// LatestRun returns the most recent archived run, or false when the
// archive is empty.
func (s *Store) LatestRun() (RunRecord, bool, error) {
	var record RunRecord
	var found bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(runsBucket)).Cursor()
		k, v := c.Last()
		if k == nil {
			return nil
		}
		if err := json.Unmarshal(v, &record); err != nil {
			return fmt.Errorf("unmarshal run record: %w", err)
		}
		found = true
		return nil
	})

	return record, found, err
}
