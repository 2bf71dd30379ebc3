package wrangler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	// ManifestVersion is the current schema version
	ManifestVersion = 1

	// ManifestFilename is the default manifest filename
	ManifestFilename = "manifest.json"
)

// Manifest records the processing state of every BOM version across
// regeneration runs. A completed BOM version is immutable and skipped on
// later runs.
type Manifest struct {
	Version int                 `json:"version"`
	LastRun time.Time           `json:"last_run"`
	Boms    map[string]BomState `json:"boms"`
	mu      sync.RWMutex        `json:"-"`
}

// BomState stores the outcome of one BOM version's processing pass.
type BomState struct {
	Coordinate  string    `json:"coordinate"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	Components  int       `json:"components"`
	Unpacked    int       `json:"unpacked"`
	Skipped     int       `json:"skipped"`
	Error       string    `json:"error,omitempty"`
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// Complete reports whether this BOM version finished a full pass.
func (s BomState) Complete() bool {
	return !s.CompletedAt.IsZero() && s.Error == ""
}

// NewManifest creates a new empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Version: ManifestVersion,
		Boms:    make(map[string]BomState),
	}
}

// LoadManifest reads a manifest from disk, or creates a new one if it
// doesn't exist.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.Boms == nil {
		manifest.Boms = make(map[string]BomState)
	}
	return &manifest, nil
}

// Save writes the manifest to disk atomically, using the
// write-to-temp + rename pattern to prevent corruption.
func (m *Manifest) Save(path string) error {
	m.mu.Lock()
	m.LastRun = nowUTC()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	return writeFileAtomic(path, data)
}

// IsComplete reports whether the BOM identified by coordinate finished a
// full processing pass.
func (m *Manifest) IsComplete(coordinate string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Boms[coordinate].Complete()
}

// SetBomState records the state for a BOM version.
func (m *Manifest) SetBomState(coordinate string, state BomState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Boms[coordinate] = state
}

// BomCoordinates returns all recorded BOM coordinates, sorted.
func (m *Manifest) BomCoordinates() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coords := make([]string, 0, len(m.Boms))
	for c := range m.Boms {
		coords = append(coords, c)
	}
	sort.Strings(coords)
	return coords
}

// BomsWithErrors returns the coordinates that failed their last pass,
// mapped to the recorded error.
func (m *Manifest) BomsWithErrors() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]string)
	for c, state := range m.Boms {
		if state.Error != "" {
			result[c] = state.Error
		}
	}
	return result
}
