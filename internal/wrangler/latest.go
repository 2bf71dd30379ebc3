package wrangler

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/scijava/javadoc-wrangler/internal/maven"
)

// LatestFilename is the state file recording the highest processed BOM
// version.
const LatestFilename = "latest.json"

// LatestState is the persisted latest-BOM pointer.
type LatestState struct {
	Coordinate string    `json:"coordinate"`
	Version    string    `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LatestPointer tracks the highest-versioned BOM processed so far across
// regeneration runs. The state file is only ever replaced atomically, so a
// reader never observes a half-updated pointer.
type LatestPointer struct {
	path  string
	state LatestState
}

// LoadLatest reads the pointer state from dir, or starts empty if no state
// file exists yet.
func LoadLatest(dir string) (*LatestPointer, error) {
	p := &LatestPointer{path: dir + string(os.PathSeparator) + LatestFilename}
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read latest pointer: %w", err)
	}
	if err := json.Unmarshal(data, &p.state); err != nil {
		return nil, fmt.Errorf("failed to parse latest pointer: %w", err)
	}
	return p, nil
}

// Version returns the current latest BOM version, or "" if none has been
// recorded yet.
func (p *LatestPointer) Version() string {
	return p.state.Version
}

// Advance repoints the latest pointer at bom if its version compares
// strictly greater than the stored one under semantic-version ordering,
// and reports whether it did. Processing an older or republished version
// never regresses the pointer. A version that does not parse as a semver
// is treated as not greater.
func (p *LatestPointer) Advance(bom maven.Coordinate) (bool, error) {
	if p.state.Version != "" {
		current, err := semver.NewVersion(p.state.Version)
		if err != nil {
			return false, fmt.Errorf("stored latest version %q is not a semver: %w", p.state.Version, err)
		}
		candidate, err := semver.NewVersion(bom.Version)
		if err != nil || !candidate.GreaterThan(current) {
			return false, nil
		}
	} else if _, err := semver.NewVersion(bom.Version); err != nil {
		return false, nil
	}

	p.state = LatestState{
		Coordinate: bom.String(),
		Version:    bom.Version,
		UpdatedAt:  time.Now().UTC(),
	}
	data, err := json.MarshalIndent(p.state, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal latest pointer: %w", err)
	}
	if err := writeFileAtomic(p.path, append(data, '\n')); err != nil {
		return false, err
	}
	return true, nil
}

// WriteAliases writes the global rule file mapping every legacy prefix to
// the latest BOM root, plus the trailing-slash canonicalization directive.
// The file is replaced atomically on every latest-pointer advance.
func WriteAliases(path string, prefixes []string, target string) error {
	sorted := make([]string, len(prefixes))
	copy(sorted, prefixes)
	sort.Strings(sorted)

	var sb strings.Builder
	sb.WriteString("DirectorySlash On\n")
	for _, prefix := range sorted {
		fmt.Fprintf(&sb, "RedirectMatch permanent \"^%s(.*)$\" %s$1\n", regexp.QuoteMeta(prefix), target)
	}
	return writeFileAtomic(path, []byte(sb.String()))
}
