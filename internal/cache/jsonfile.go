package cache

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// SnapshotFileName is the file written by the JSON driver inside DataDir.
const SnapshotFileName = "snapshot.json"

// JSONFile persists the snapshot as a single JSON document.
type JSONFile struct {
	path string
}

var _ Cache = (*JSONFile)(nil)

// NewJSONFile returns a JSON cache rooted at dataDir.
func NewJSONFile(dataDir string) *JSONFile {
	return &JSONFile{path: filepath.Join(dataDir, SnapshotFileName)}
}

// Path returns the snapshot file location.
func (j *JSONFile) Path() string { return j.path }

// Load reads the snapshot. A missing file is an empty snapshot.
func (j *JSONFile) Load() (types.Snapshot, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.Snapshot{}, nil
		}
		return types.Snapshot{}, fmt.Errorf("reading %s: %w", j.path, err)
	}
	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("parsing %s: %w", j.path, err)
	}
	return snap, nil
}

// Save writes the snapshot atomically.
func (j *JSONFile) Save(snap types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return writeAtomic(j.path, data)
}

// Close is a no-op.
func (j *JSONFile) Close() error { return nil }

// writeAtomic writes data using the temp-file, fsync, rename pattern so a
// crash never leaves a truncated snapshot behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing newline: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
