package wrangler

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// hostLinkPattern matches the legacy version-agnostic host links that old
// javadoc builds embedded, e.g. "https://javadoc.scijava.org/ImageJ/".
var hostLinkPattern = regexp.MustCompile(`https?://javadoc\.(scijava\.org|imagej\.net)/[^/"]*/`)

// Rewriter performs textual substitution of legacy link prefixes with
// canonical versioned site paths. It never parses HTML; the legacy link
// formats in use are narrow enough for pattern substitution, and anything
// not matching a known prefix passes through byte-for-byte unchanged.
type Rewriter struct {
	hostTarget string
	prefixes   []string // sorted longest-first
	targets    map[string]string
}

// NewRewriter builds a rewriter.
//
// hostTarget, when non-empty, replaces every legacy javadoc host link with
// the given root-relative path (the component's parent BOM root). legacy
// maps deprecated URL prefixes such as "/SciJava/" to their current
// canonical roots.
//
// Construction fails if a mapping would break idempotency: a target that
// itself contains a mapped prefix would be rewritten again on the next
// pass, so overlapping prefix/target pairs are rejected outright rather
// than resolved by precedence.
func NewRewriter(hostTarget string, legacy map[string]string) (*Rewriter, error) {
	if hostTarget != "" && (!strings.HasPrefix(hostTarget, "/") || !strings.HasSuffix(hostTarget, "/")) {
		return nil, fmt.Errorf("host target %q must start and end with a slash", hostTarget)
	}

	prefixes := make([]string, 0, len(legacy))
	for prefix, target := range legacy {
		if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
			return nil, fmt.Errorf("legacy prefix %q must start and end with a slash", prefix)
		}
		if !strings.HasPrefix(target, "/") || !strings.HasSuffix(target, "/") {
			return nil, fmt.Errorf("target %q for prefix %q must start and end with a slash", target, prefix)
		}
		prefixes = append(prefixes, prefix)
	}
	for _, prefix := range prefixes {
		if hostTarget != "" && strings.Contains(hostTarget, prefix) {
			return nil, fmt.Errorf("host target %q contains legacy prefix %q", hostTarget, prefix)
		}
		for _, other := range prefixes {
			if strings.Contains(legacy[other], prefix) {
				return nil, fmt.Errorf("target %q for prefix %q contains legacy prefix %q", legacy[other], other, prefix)
			}
		}
	}

	// Longest-first so nested prefixes rewrite deterministically.
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	targets := make(map[string]string, len(legacy))
	for prefix, target := range legacy {
		targets[prefix] = target
	}
	return &Rewriter{hostTarget: hostTarget, prefixes: prefixes, targets: targets}, nil
}

// Rewrite returns the HTML text with all known legacy links replaced by
// their canonical forms. Idempotent: rewriting already-canonical text is
// a no-op.
func (r *Rewriter) Rewrite(html string) string {
	if r.hostTarget != "" {
		html = hostLinkPattern.ReplaceAllString(html, r.hostTarget)
	}
	for _, prefix := range r.prefixes {
		html = strings.ReplaceAll(html, prefix, r.targets[prefix])
	}
	return html
}

// RewriteTree rewrites every .html file under dir in place. A failure on a
// single file is logged and leaves that file untouched; a missed rewrite
// only leaves a stale but functional legacy link, so aborting the whole
// component would be disproportionate. Returns the number of files changed.
func (r *Rewriter) RewriteTree(dir string, logger *slog.Logger) int {
	changed := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable path during link rewrite", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read HTML file for link rewrite", "path", path, "error", err)
			return nil
		}
		rewritten := r.Rewrite(string(data))
		if rewritten == string(data) {
			return nil
		}
		if err := os.WriteFile(path, []byte(rewritten), 0644); err != nil {
			logger.Warn("Failed to write rewritten HTML file", "path", path, "error", err)
			return nil
		}
		changed++
		return nil
	})
	return changed
}
