package wrangler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/scijava/javadoc-wrangler/internal/maven"
)

// toplevelDocs are the javadoc documents that live at the root of every
// unpacked archive. They describe one component's build, not a class or
// package, so the BOM's virtual namespace never redirects to them.
var toplevelDocs = map[string]bool{
	"about.html":              true,
	"allclasses-frame.html":   true,
	"allclasses-index.html":   true,
	"allclasses-noframe.html": true,
	"allclasses.html":         true,
	"allpackages-index.html":  true,
	"constant-values.html":    true,
	"deprecated-list.html":    true,
	"help-doc.html":           true,
	"index-all.html":          true,
	"index.html":              true,
	"overview-frame.html":     true,
	"overview-summary.html":   true,
	"overview-tree.html":      true,
	"serialized-form.html":    true,
}

// Rule is one redirect from a BOM virtual path to a canonical component
// path, both root-relative with a leading slash.
type Rule struct {
	Source string
	Target string
}

// String renders the rule in the .htaccess RedirectMatch form consumed by
// the static web server. The source path is a regex, so its dots are
// escaped to keep the match exact. Exact-path anchors take precedence
// over the prefix rules in the global alias file.
func (r Rule) String() string {
	return fmt.Sprintf("RedirectMatch permanent \"^%s$\" %s", regexp.QuoteMeta(r.Source), r.Target)
}

// ListPackageFiles returns the sorted HTML documents of one package in an
// owner's unpacked tree under siteDir, as paths relative to the owner's
// root (e.g. "net/imglib2/img/Img.html"). class-use subdirectories are
// included; subpackage directories are not, since each subpackage is
// enumerated through its own ownership entry.
//
// A package with no directory in the unpacked tree is a
// DanglingReferenceError.
func ListPackageFiles(siteDir string, owner maven.Coordinate, pkg string) ([]string, error) {
	pkgPath := PackagePath(pkg)
	dir := filepath.Join(siteDir, filepath.FromSlash(owner.CanonicalPath()), filepath.FromSlash(pkgPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &DanglingReferenceError{Coordinate: owner, Package: pkg, Path: dir}
		}
		return nil, fmt.Errorf("failed to list package %s of %s: %w", pkg, owner, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if name != "class-use" {
				continue
			}
			subEntries, err := os.ReadDir(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("failed to list class-use of %s in %s: %w", pkg, owner, err)
			}
			for _, sub := range subEntries {
				if !sub.IsDir() && strings.HasSuffix(sub.Name(), ".html") {
					files = append(files, pkgPath+"/class-use/"+sub.Name())
				}
			}
			continue
		}
		if strings.HasSuffix(name, ".html") {
			files = append(files, pkgPath+"/"+name)
		}
	}

	if len(files) == 0 {
		return nil, &DanglingReferenceError{Coordinate: owner, Package: pkg, Path: dir}
	}
	sort.Strings(files)
	return files, nil
}

// BuildRedirects synthesizes the redirect rule list for one BOM version:
// one rule per class and package document of every owned package, mapping
// the BOM's virtual namespace onto the owning component's canonical
// namespace, plus a catch-all from the BOM root to its generated index.
//
// Output is deterministic: rules are sorted by source path and
// de-duplicated, with no dependence on filesystem iteration order. Every
// target is verified to exist in the owner's unpacked tree before a rule
// is emitted; a package without unpacked documents aborts synthesis with a
// DanglingReferenceError.
func BuildRedirects(bom maven.Coordinate, own *Ownership, siteDir string) ([]Rule, error) {
	bomRoot := bom.SitePath()
	rules := []Rule{{Source: bomRoot, Target: bomRoot + "index.html"}}

	for _, pkg := range own.Packages() {
		owner, _ := own.Owner(pkg)
		files, err := ListPackageFiles(siteDir, owner, pkg)
		if err != nil {
			return nil, err
		}
		ownerRoot := owner.SitePath()
		for _, rel := range files {
			if toplevelDocs[filepath.Base(rel)] {
				continue
			}
			rules = append(rules, Rule{Source: bomRoot + rel, Target: ownerRoot + rel})
		}
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Source != rules[j].Source {
			return rules[i].Source < rules[j].Source
		}
		return rules[i].Target < rules[j].Target
	})
	rules = dedupeRules(rules)
	return rules, nil
}

func dedupeRules(rules []Rule) []Rule {
	out := rules[:0]
	for i, r := range rules {
		if i == 0 || r != rules[i-1] {
			out = append(out, r)
		}
	}
	return out
}

// WriteRules serializes rules to an .htaccess-style file, one per line,
// atomically via a temp file and rename so the server never reads a
// half-written rule set.
func WriteRules(path string, rules []Rule) error {
	var sb strings.Builder
	for _, r := range rules {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return writeFileAtomic(path, []byte(sb.String()))
}

// writeFileAtomic writes data to path via write-temp-then-rename.
func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return nil
}
