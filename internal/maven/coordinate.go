package maven

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCoordinate indicates a coordinate string or triple is incomplete.
var ErrInvalidCoordinate = errors.New("invalid maven coordinate")

// Coordinate identifies a published Maven artifact by its GAV triple.
// The zero value is invalid; use Valid to check.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// ParseCoordinate parses a "groupId:artifactId:version" string.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return c, nil
}

// Valid reports whether all three coordinate parts are non-empty.
func (c Coordinate) Valid() bool {
	return c.GroupID != "" && c.ArtifactID != "" && c.Version != ""
}

// String returns the "groupId:artifactId:version" form.
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// CanonicalPath returns the stable site path for this coordinate:
// "{groupId}/{artifactId}/{version}/". The mapping is injective because
// Maven identifiers cannot contain slashes, so the separators are
// unambiguous. No I/O, no failure mode for valid coordinates.
func (c Coordinate) CanonicalPath() string {
	return c.GroupID + "/" + c.ArtifactID + "/" + c.Version + "/"
}

// SitePath returns the root-relative URL path for this coordinate,
// always with a leading and trailing slash.
func (c Coordinate) SitePath() string {
	return "/" + c.CanonicalPath()
}

// JarName returns the javadoc classifier JAR filename for this coordinate.
func (c Coordinate) JarName() string {
	return c.ArtifactID + "-" + c.Version + "-javadoc.jar"
}

// PomName returns the POM filename for this coordinate.
func (c Coordinate) PomName() string {
	return c.ArtifactID + "-" + c.Version + ".pom"
}
