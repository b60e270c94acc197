package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/favstats/zwemsterdam/internal/session"
)

const (
	dataFile     = "data.json"
	metadataFile = "metadata.json"
)

// Storage handles persistence of the exported dataset and the Optisport
// cache under one data directory.
type Storage struct {
	dataDir   string
	cacheFile string
}

// New creates a Storage rooted at dataDir, creating the directory if needed.
// A leading "~/" expands to the user's home directory.
func New(dataDir, cacheFile string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	if cacheFile == "" {
		cacheFile = "optisport.json"
	}
	return &Storage{dataDir: dataDir, cacheFile: cacheFile}, nil
}

// DataPath returns the full path of a file inside the data directory.
func (s *Storage) DataPath(name string) string {
	return filepath.Join(s.dataDir, name)
}

// WriteDataset writes data.json and metadata.json. Both are full rewrites;
// the previous export is replaced, never edited.
func (s *Storage) WriteDataset(sessions []session.Session, metadata interface{}) error {
	if sessions == nil {
		sessions = []session.Session{}
	}
	if err := writeJSON(s.DataPath(dataFile), sessions); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := writeJSON(s.DataPath(metadataFile), metadata); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// LoadPrevious reads the previous export for change reporting. A missing
// file is an empty previous export, not an error.
func (s *Storage) LoadPrevious() ([]session.Session, error) {
	data, err := os.ReadFile(s.DataPath(dataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading previous export: %w", err)
	}

	var sessions []session.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("parsing previous export: %w", err)
	}
	return sessions, nil
}

// OptisportCache is the intermediate file the browser step writes and the
// pipeline step reads.
type OptisportCache struct {
	FetchedAt string            `json:"fetchedAt"` // RFC3339 UTC
	Sessions  []session.Session `json:"sessions"`
}

// SaveOptisportCache persists the browser step's output.
func (s *Storage) SaveOptisportCache(sessions []session.Session) error {
	cache := &OptisportCache{
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		Sessions:  sessions,
	}
	if cache.Sessions == nil {
		cache.Sessions = []session.Session{}
	}
	if err := writeJSON(s.DataPath(s.cacheFile), cache); err != nil {
		return fmt.Errorf("writing optisport cache: %w", err)
	}
	return nil
}

// LoadOptisportCache reads the cached browser output. A missing cache file
// means the Optisport source simply does not contribute this run.
func (s *Storage) LoadOptisportCache() (*OptisportCache, error) {
	data, err := os.ReadFile(s.DataPath(s.cacheFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading optisport cache: %w", err)
	}

	var cache OptisportCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing optisport cache: %w", err)
	}
	return &cache, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
