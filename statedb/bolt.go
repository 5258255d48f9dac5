package statedb

import (
	"bytes"
	"encoding/json"
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/triviad/round"
	"go.etcd.io/bbolt"
	"os"
	"time"
)

const lockTimeout = time.Second

var (
	roundBucket = []byte("round")
	currentKey  = []byte("current")
)

// BoltStore keeps the record in a bbolt database. The database file is only
// held open for the duration of a single operation, so a display process can
// take the file lock between two writes.
type BoltStore struct {
	path string
}

// Compile time check for protocol compatibility
var _ Store = (*BoltStore)(nil)

func NewBoltStore(path string) *BoltStore {
	return &BoltStore{path: path}
}

func (b *BoltStore) Publish(snapshot *round.Snapshot) error {
	if snapshot == nil {
		return errors.New("cannot publish nil snapshot")
	}

	db, err := bbolt.Open(b.path, 0644, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return errors.Errorf("could not open %v: %v", b.path, err)
	}

	err = setJSON(db, roundBucket, currentKey, snapshot)

	if cerr := db.Close(); cerr != nil && err == nil {
		err = errors.Errorf("could not close %v: %v", b.path, cerr)
	}

	return err
}

func (b *BoltStore) ReadLatest() (*round.Snapshot, bool) {
	if _, err := os.Stat(b.path); err != nil {
		return nil, false
	}

	db, err := bbolt.Open(b.path, 0644, &bbolt.Options{Timeout: lockTimeout, ReadOnly: true})
	if err != nil {
		return nil, false
	}
	defer db.Close()

	var payload []byte
	if err := getJSON(db, roundBucket, currentKey, &payload); err != nil || payload == nil {
		return nil, false
	}

	return decodeSnapshot(payload)
}

func (b *BoltStore) Close() error {
	return nil
}

func setJSON(db *bbolt.DB, bucket []byte, bucketKey []byte, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Errorf("could not marshal data: %v", err)
	}

	return db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}

		return bucket.Put(bucketKey, payload)
	})
}

// getJSON copies the raw value stored under bucketKey into payload. A
// missing bucket, key or a JSON null leaves payload nil.
func getJSON(db *bbolt.DB, bucket []byte, bucketKey []byte, payload *[]byte) error {
	return db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}

		value := b.Get(bucketKey)
		if value == nil || bytes.Equal(value, []byte("null")) {
			return nil
		}

		// values are only valid for the life of the transaction
		*payload = append([]byte(nil), value...)

		return nil
	})
}
