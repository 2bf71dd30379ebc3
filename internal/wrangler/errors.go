package wrangler

import (
	"errors"
	"fmt"

	"github.com/scijava/javadoc-wrangler/internal/maven"
)

// ErrMissingIndex indicates a component's unpacked javadoc has neither an
// element-list nor a package-list file.
var ErrMissingIndex = errors.New("javadoc index file not found")

// MalformedIndexError indicates a line of an element-list or package-list
// file is not a valid Java package identifier.
type MalformedIndexError struct {
	Path  string
	Line  int
	Entry string
}

func (e *MalformedIndexError) Error() string {
	return fmt.Sprintf("malformed index %s line %d: %q is not a valid package name", e.Path, e.Line, e.Entry)
}

// OwnershipConflictError indicates two managed components of the same BOM
// both declare the same package. Managed components are expected to have
// disjoint package namespaces; a collision is a packaging defect that must
// surface rather than be resolved by insertion order.
type OwnershipConflictError struct {
	Package string
	First   maven.Coordinate
	Second  maven.Coordinate
}

func (e *OwnershipConflictError) Error() string {
	return fmt.Sprintf("package %s owned by both %s and %s", e.Package, e.First, e.Second)
}

// DanglingReferenceError indicates a package listed in a component's index
// has no corresponding directory in its unpacked javadoc tree, so a
// redirect to it would target a nonexistent location.
type DanglingReferenceError struct {
	Coordinate maven.Coordinate
	Package    string
	Path       string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("package %s of %s has no unpacked javadoc at %s", e.Package, e.Coordinate, e.Path)
}
