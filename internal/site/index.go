// Package site renders the toplevel HTML index pages listing the javadoc
// roots available on the generated site.
package site

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Root is one available javadoc root on the site.
type Root struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// Path returns the root-relative URL of this javadoc root.
func (r Root) Path() string {
	return "/" + r.GroupID + "/" + r.ArtifactID + "/" + r.Version + "/"
}

var rootTemplate = template.Must(template.New("root").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<ul>
{{- range .Roots}}
<li><a href="{{.Path}}">{{.GroupID}} : {{.ArtifactID}} : {{.Version}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

type indexData struct {
	Title string
	Roots []Root
}

// RenderIndex writes an index page listing the given roots, sorted for
// reproducible output.
func RenderIndex(w io.Writer, title string, roots []Root) error {
	sorted := make([]Root, len(roots))
	copy(sorted, roots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path() < sorted[j].Path()
	})
	return rootTemplate.Execute(w, indexData{Title: title, Roots: sorted})
}

// WriteIndex renders an index page to path via a temp file and rename.
func WriteIndex(path, title string, roots []Root) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}
	if err := RenderIndex(f, title, roots); err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return nil
}

// ScanRoots walks siteDir for {group}/{artifact}/{version} directories and
// returns them sorted. Non-directory entries and dot-prefixed names are
// ignored.
func ScanRoots(siteDir string) ([]Root, error) {
	var roots []Root

	groups, err := readDirNames(siteDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, group := range groups {
		artifacts, err := readDirNames(filepath.Join(siteDir, group))
		if err != nil {
			return nil, err
		}
		for _, artifact := range artifacts {
			versions, err := readDirNames(filepath.Join(siteDir, group, artifact))
			if err != nil {
				return nil, err
			}
			for _, version := range versions {
				roots = append(roots, Root{GroupID: group, ArtifactID: artifact, Version: version})
			}
		}
	}

	sort.Slice(roots, func(i, j int) bool {
		return roots[i].Path() < roots[j].Path()
	})
	return roots, nil
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && entry.Name()[0] != '.' {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
