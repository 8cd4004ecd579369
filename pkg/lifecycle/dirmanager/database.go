package dirmanager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pf4j/pf4j-update/pkg/fsutil"
	"github.com/pf4j/pf4j-update/pkg/lifecycle"
)

// Record is one installed plugin in the state database.
type Record struct {
	lifecycle.Plugin
	InstalledAt time.Time `json:"installed_at"`
}

// Database is the JSON-backed list of installed plugins.
type Database struct {
	FormatVersion string    `json:"format_version"`
	LastUpdate    time.Time `json:"last_update"`
	Plugins       []*Record `json:"plugins"`
	rwMutex       sync.RWMutex
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		FormatVersion: "1",
		LastUpdate:    time.Now(),
		Plugins:       []*Record{},
	}
}

// LoadDatabase reads the database at dbPath. A missing file leaves it empty.
func (db *Database) LoadDatabase(dbPath string) error {
	data, err := os.ReadFile(filepath.Clean(dbPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read database: %w", err)
	}

	db.rwMutex.Lock()
	defer db.rwMutex.Unlock()
	if err := json.Unmarshal(data, db); err != nil {
		return fmt.Errorf("failed to parse database: %w", err)
	}
	return nil
}

// SaveDatabase atomically writes the database to dbPath.
func (db *Database) SaveDatabase(dbPath string) error {
	db.rwMutex.RLock()
	data, err := json.MarshalIndent(db, "", "  ")
	db.rwMutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal database to JSON: %w", err)
	}
	return fsutil.WriteFileAtomic(filepath.Clean(dbPath), data, fsutil.FileModeDefault)
}

// Find returns the record for id, or nil.
func (db *Database) Find(id string) *Record {
	db.rwMutex.RLock()
	defer db.rwMutex.RUnlock()

	for _, r := range db.Plugins {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Put inserts rec or replaces the record with the same id.
func (db *Database) Put(rec *Record) {
	db.rwMutex.Lock()
	defer db.rwMutex.Unlock()

	db.LastUpdate = time.Now()
	for i, existing := range db.Plugins {
		if existing.ID == rec.ID {
			db.Plugins[i] = rec
			return
		}
	}
	if rec.InstalledAt.IsZero() {
		rec.InstalledAt = time.Now()
	}
	db.Plugins = append(db.Plugins, rec)
}

// Remove deletes the record for id and reports whether it existed.
func (db *Database) Remove(id string) bool {
	db.rwMutex.Lock()
	defer db.rwMutex.Unlock()

	for i, r := range db.Plugins {
		if r.ID == id {
			db.Plugins = slices.Delete(db.Plugins, i, i+1)
			db.LastUpdate = time.Now()
			return true
		}
	}
	return false
}

// All returns the records sorted by id.
func (db *Database) All() []*Record {
	db.rwMutex.RLock()
	defer db.rwMutex.RUnlock()

	out := slices.Clone(db.Plugins)
	slices.SortFunc(out, func(a, b *Record) int { return strings.Compare(a.ID, b.ID) })
	return out
}
