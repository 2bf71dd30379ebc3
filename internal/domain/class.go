package domain

// ClassDocument represents one documented Java class in the search index.
type ClassDocument struct {
	// ID is the deterministic document identifier.
	// Format: "groupId:artifactId:version/package.ClassName"
	ID string `json:"id"`

	// Class is the simple class name, e.g. "Img" or "Img.Builder".
	Class string `json:"class"`

	// Package is the fully-qualified package name, e.g. "net.imglib2.img".
	Package string `json:"package"`

	// Coordinate is the owning component in "groupId:artifactId:version" form.
	Coordinate string `json:"coordinate"`

	// Path is the root-relative canonical URL of the class document.
	// Example: "/net.imglib2/imglib2/5.12.0/net/imglib2/img/Img.html"
	Path string `json:"path"`
}

// Bleve field name constants for consistent field references in queries
// and mappings.
const (
	ClassFieldID         = "id"
	ClassFieldClass      = "class"
	ClassFieldPackage    = "package"
	ClassFieldCoordinate = "coordinate"
	ClassFieldPath       = "path"
)
