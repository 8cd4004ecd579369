package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pf4j/pf4j-update/internal/logger"
	pkgerrors "github.com/pf4j/pf4j-update/pkg/errors"
	"github.com/pf4j/pf4j-update/pkg/fsutil"
)

// Entry is one element of a repositories.json file.
type Entry struct {
	ID                  string `json:"id" yaml:"id"`
	URL                 string `json:"url" yaml:"url"`
	PluginsJSONFileName string `json:"pluginsJsonFileName,omitempty" yaml:"plugins_json_file_name,omitempty"`
}

// LoadRepositoriesFile reads a repositories.json file. A missing file yields
// no entries.
func LoadRepositoriesFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Repositories file not found", logger.Fields{"path": path})
			return nil, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to read repositories file %s", path)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse repositories file %s", path)
	}
	return entries, nil
}

// SaveRepositoriesFile atomically writes entries to path.
func SaveRepositoriesFile(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode repositories")
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'), fsutil.FileModeDefault)
}

// FromEntries builds DefaultRepository values. Entries must carry an id and url.
func FromEntries(entries []Entry, opts ...Option) ([]Repository, error) {
	repos := make([]Repository, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, pkgerrors.ErrEmptyRepositoryIDWithIndex(i)
		}
		if e.URL == "" {
			return nil, pkgerrors.ErrRepositoryURLEmptyWithID(e.ID)
		}
		entryOpts := append([]Option{WithPluginsJSONFileName(e.PluginsJSONFileName)}, opts...)
		r, err := NewDefaultRepositoryFromString(e.ID, e.URL, entryOpts...)
		if err != nil {
			return nil, fmt.Errorf("repository %s: invalid url %q: %w", e.ID, e.URL, err)
		}
		repos = append(repos, r)
	}
	return repos, nil
}

// ToEntry describes r as a repositories.json element. The metadata file name
// is omitted when it is the default.
func ToEntry(r Repository) Entry {
	e := Entry{ID: r.ID(), URL: r.URL().String()}
	if d, ok := r.(*DefaultRepository); ok && d.PluginsJSONFileName() != DefaultPluginsJSONFileName {
		e.PluginsJSONFileName = d.PluginsJSONFileName()
	}
	return e
}
