// Package persistence saves and loads word frequency tables so totals can be
// carried across runs and merged later.
package persistence

import (
	"errors"
	"fmt"
	"os"
	"time"

	wcerrors "github.com/gcbaptista/go-wc/internal/errors"
	"github.com/gcbaptista/go-wc/internal/frequency"
)

// SnapshotVersion is bumped whenever the Snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is the on-disk form of a frequency table.
type Snapshot struct {
	Version   int
	CreatedAt time.Time
	Inputs    []string // names of the inputs that fed the table
	Counts    map[string]int
}

// SaveTable writes table, and the names of the inputs it was built from, to path.
func SaveTable(path string, table frequency.Table, inputs []string) error {
	snap := Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC(),
		Inputs:    inputs,
		Counts:    table,
	}
	if snap.Counts == nil {
		snap.Counts = map[string]int{}
	}
	return SaveGob(path, &snap)
}

// LoadTable reads a table saved by SaveTable. A missing file yields
// os.ErrNotExist; undecodable or incompatible files yield an error matching
// errors.ErrSnapshotCorrupt.
func LoadTable(path string) (frequency.Table, *Snapshot, error) {
	var snap Snapshot
	if err := LoadGob(path, &snap); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, err
		}
		return nil, nil, wcerrors.NewSnapshotError(path, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, nil, wcerrors.NewSnapshotError(path,
			fmt.Errorf("unsupported version %d (want %d)", snap.Version, SnapshotVersion))
	}
	for tok, c := range snap.Counts {
		if c < 0 {
			return nil, nil, wcerrors.NewSnapshotError(path,
				fmt.Errorf("negative count %d for %q", c, tok))
		}
	}
	table := frequency.Table(snap.Counts)
	if table == nil {
		table = frequency.New()
	}
	return table, &snap, nil
}

// LoadTables loads every path and merges the tables into one.
func LoadTables(paths []string) (frequency.Table, error) {
	total := frequency.New()
	for _, path := range paths {
		table, _, err := LoadTable(path)
		if err != nil {
			return nil, fmt.Errorf("loading table %s: %w", path, err)
		}
		total.MergeFrom(table)
	}
	return total, nil
}
