package maven

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// pomXML mirrors the handful of POM elements this tool reads.
// encoding/xml ignores namespaces on local element names, so the same
// struct handles both namespaced and plain POMs.
type pomXML struct {
	GroupID              string        `xml:"groupId"`
	ArtifactID           string        `xml:"artifactId"`
	Version              string        `xml:"version"`
	Parent               gavXML        `xml:"parent"`
	Properties           propertiesXML `xml:"properties"`
	DependencyManagement dependencyMgr `xml:"dependencyManagement"`
}

type gavXML struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// propertiesXML captures <properties> children, whose element names are
// the property names themselves.
type propertiesXML struct {
	Entries []propertyXML `xml:",any"`
}

type propertyXML struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type dependencyMgr struct {
	Dependencies []gavXML `xml:"dependencies>dependency"`
}

// Pom is the parsed subset of a Maven POM relevant to javadoc wrangling.
type Pom struct {
	Coordinate Coordinate
	Parent     Coordinate
	// Managed is the dependencyManagement list in declaration order,
	// de-duplicated. Entries with incomplete coordinates or unresolved
	// property references are dropped by ParsePom.
	Managed []Coordinate
	// Skipped counts dependencyManagement entries dropped for having
	// incomplete or unresolvable coordinates.
	Skipped int
}

// propertyRef matches one ${name} reference in a coordinate field.
var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ParsePom decodes a POM document.
//
// Managed versions in real BOMs are pinned through <properties>
// references, so every coordinate field is interpolated against the
// document's own properties plus the project.* builtins. A reference
// this document cannot resolve (a parent-defined property, say) makes
// the entry invalid; it is counted in Skipped rather than kept as a
// literal ${...} version.
func ParsePom(r io.Reader) (*Pom, error) {
	var raw pomXML
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse pom: %w", err)
	}

	p := &Pom{
		Coordinate: Coordinate{raw.GroupID, raw.ArtifactID, raw.Version},
		Parent:     Coordinate{raw.Parent.GroupID, raw.Parent.ArtifactID, raw.Parent.Version},
	}
	// Children often inherit groupId/version from the parent.
	if p.Coordinate.GroupID == "" {
		p.Coordinate.GroupID = p.Parent.GroupID
	}
	if p.Coordinate.Version == "" {
		p.Coordinate.Version = p.Parent.Version
	}

	props := make(map[string]string, len(raw.Properties.Entries)+3)
	for _, entry := range raw.Properties.Entries {
		props[entry.XMLName.Local] = strings.TrimSpace(entry.Value)
	}
	props["project.groupId"] = p.Coordinate.GroupID
	props["project.artifactId"] = p.Coordinate.ArtifactID
	props["project.version"] = p.Coordinate.Version

	seen := make(map[Coordinate]bool)
	for _, dep := range raw.DependencyManagement.Dependencies {
		c, ok := resolveGAV(dep, props)
		if !ok || !c.Valid() {
			p.Skipped++
			continue
		}
		// Classifier and type variants collapse to the same GAV; one
		// coordinate means one unpacked tree.
		if seen[c] {
			continue
		}
		seen[c] = true
		p.Managed = append(p.Managed, c)
	}
	return p, nil
}

func resolveGAV(dep gavXML, props map[string]string) (Coordinate, bool) {
	g, ok := interpolate(dep.GroupID, props)
	if !ok {
		return Coordinate{}, false
	}
	a, ok := interpolate(dep.ArtifactID, props)
	if !ok {
		return Coordinate{}, false
	}
	v, ok := interpolate(dep.Version, props)
	if !ok {
		return Coordinate{}, false
	}
	return Coordinate{g, a, v}, true
}

// interpolate expands ${name} references in s against props. Property
// values may themselves reference other properties, so expansion repeats
// until the string is stable, with a depth cap against reference cycles.
func interpolate(s string, props map[string]string) (string, bool) {
	for depth := 0; depth < 10; depth++ {
		if !strings.Contains(s, "${") {
			return s, true
		}
		resolved := true
		next := propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
			name := ref[2 : len(ref)-1]
			if value, ok := props[name]; ok {
				return value
			}
			resolved = false
			return ref
		})
		if !resolved {
			return s, false
		}
		s = next
	}
	return s, false
}

// ParsePomFile decodes the POM at the given path.
func ParsePomFile(path string) (*Pom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pom %s: %w", path, err)
	}
	defer f.Close()
	return ParsePom(f)
}
