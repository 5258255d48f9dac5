package statedb

import (
	"encoding/json"
	"github.com/go-errors/errors"
	"github.com/google/renameio/v2"
	"github.com/the-lightning-land/triviad/round"
	"os"
)

// FileStore keeps the record as an indented JSON file. Writes go to a
// temporary file in the same directory which is then renamed over the
// record.
type FileStore struct {
	path string
}

// Compile time check for protocol compatibility
var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Publish(snapshot *round.Snapshot) error {
	if snapshot == nil {
		return errors.New("cannot publish nil snapshot")
	}

	payload, err := json.MarshalIndent(snapshot, "", "    ")
	if err != nil {
		return errors.Errorf("could not marshal snapshot: %v", err)
	}

	if err := renameio.WriteFile(f.path, payload, 0644); err != nil {
		return errors.Errorf("could not write %v: %v", f.path, err)
	}

	return nil
}

func (f *FileStore) ReadLatest() (*round.Snapshot, bool) {
	payload, err := os.ReadFile(f.path)
	if err != nil {
		return nil, false
	}

	return decodeSnapshot(payload)
}

func (f *FileStore) Close() error {
	return nil
}

func decodeSnapshot(payload []byte) (*round.Snapshot, bool) {
	snapshot := &round.Snapshot{}
	if err := json.Unmarshal(payload, snapshot); err != nil {
		return nil, false
	}

	return snapshot, true
}
