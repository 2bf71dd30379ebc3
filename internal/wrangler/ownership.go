package wrangler

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scijava/javadoc-wrangler/internal/maven"
)

// ComponentPackages pairs a component coordinate with the packages its
// javadoc index declares.
type ComponentPackages struct {
	Coordinate maven.Coordinate
	Packages   []string
}

// Ownership maps each package of a BOM's managed set to the single
// component that owns it.
type Ownership struct {
	owners map[string]maven.Coordinate
}

// BuildOwnership merges per-component package sets into one ownership map,
// iterating components in BOM declaration order.
//
// A package declared by two distinct components is an
// OwnershipConflictError naming the package and both coordinates; the
// conflict is never resolved by keeping the first or last writer.
func BuildOwnership(components []ComponentPackages) (*Ownership, error) {
	owners := make(map[string]maven.Coordinate)
	for _, comp := range components {
		for _, pkg := range comp.Packages {
			if first, ok := owners[pkg]; ok {
				// The same coordinate listed twice still resolves to
				// exactly one owner; only distinct components conflict.
				if first == comp.Coordinate {
					continue
				}
				return nil, &OwnershipConflictError{Package: pkg, First: first, Second: comp.Coordinate}
			}
			owners[pkg] = comp.Coordinate
		}
	}
	return &Ownership{owners: owners}, nil
}

// Len returns the number of owned packages.
func (o *Ownership) Len() int {
	return len(o.owners)
}

// Owner returns the owning coordinate for a package.
func (o *Ownership) Owner(pkg string) (maven.Coordinate, bool) {
	c, ok := o.owners[pkg]
	return c, ok
}

// Packages returns all owned packages in sorted order.
func (o *Ownership) Packages() []string {
	packages := make([]string, 0, len(o.owners))
	for pkg := range o.owners {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	return packages
}

// WriteMergedIndexes writes the BOM's aggregated element-list and
// package-list files: the union of every owner's packages, sorted and
// de-duplicated.
func (o *Ownership) WriteMergedIndexes(dir string) error {
	content := strings.Join(o.Packages(), "\n")
	if content != "" {
		content += "\n"
	}
	for _, name := range indexFilenames {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
