// Package snapshot reads and writes the persisted four-collection snapshot
// files used by backups and the integrity monitor.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
)

var ErrMalformed = errors.New("snapshot: file is structurally invalid")

// Read loads and structurally validates a snapshot file. All four collections
// must be present; an unknown schemaVersion is rejected rather than guessed
// at.
func Read(path string) (*dto.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}

	var snap dto.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if snap.Products == nil || snap.Sales == nil || snap.Customers == nil || snap.Debts == nil {
		return nil, fmt.Errorf("%w: missing collection", ErrMalformed)
	}
	if snap.SchemaVersion != dto.SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schemaVersion %d", ErrMalformed, snap.SchemaVersion)
	}
	return &snap, nil
}

// Write persists a snapshot atomically: the file is fully written to a temp
// name in the same directory, then renamed over the target. A crashed write
// never leaves a half-written snapshot behind under the final name.
func Write(path string, snap *dto.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}
