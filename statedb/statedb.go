// Package statedb holds the single current-round record shared between the
// game daemon and any number of display processes.
package statedb

import (
	"github.com/go-errors/errors"
	"github.com/the-lightning-land/triviad/round"
)

var ErrNoSnapshot = errors.New("no snapshot published")

// Store keeps the most recently published snapshot. Publish always
// replaces the whole record; readers never observe a partial write.
type Store interface {
	Publish(snapshot *round.Snapshot) error
	// ReadLatest reports false when nothing was published yet or the record
	// cannot be read.
	ReadLatest() (*round.Snapshot, bool)
	Close() error
}

type Backend string

const (
	BackendFile Backend = "file"
	BackendBolt Backend = "bolt"
)

// Open returns the store for the given backend at path.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendBolt:
		return NewBoltStore(path), nil
	default:
		return nil, errors.Errorf("unknown state backend %v", backend)
	}
}

// Latest is ReadLatest with absence mapped to ErrNoSnapshot.
func Latest(s Store) (*round.Snapshot, error) {
	snapshot, ok := s.ReadLatest()
	if !ok {
		return nil, ErrNoSnapshot
	}

	return snapshot, nil
}
