package maven

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ErrNoRelease indicates maven-metadata.xml carries no release version.
var ErrNoRelease = errors.New("maven metadata has no release version")

type metadataXML struct {
	Versioning struct {
		Release  string   `xml:"release"`
		Latest   string   `xml:"latest"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// ParseReleaseVersion extracts the current release version from a
// maven-metadata.xml document, falling back to <latest> when <release>
// is absent.
func ParseReleaseVersion(r io.Reader) (string, error) {
	var raw metadataXML
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return "", fmt.Errorf("failed to parse maven metadata: %w", err)
	}
	if raw.Versioning.Release != "" {
		return raw.Versioning.Release, nil
	}
	if raw.Versioning.Latest != "" {
		return raw.Versioning.Latest, nil
	}
	return "", ErrNoRelease
}
