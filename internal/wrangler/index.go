package wrangler

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Javadoc index filenames, in preference order. element-list is written by
// javadoc 10+, package-list by older releases.
var indexFilenames = []string{"element-list", "package-list"}

// packagePattern matches a syntactically valid Java package identifier.
var packagePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// ParseIndex reads the package index of an unpacked javadoc tree and
// returns the sorted, de-duplicated package list.
//
// element-list is preferred over package-list. "module:" lines emitted for
// modular javadoc are skipped. Returns ErrMissingIndex if neither file
// exists and MalformedIndexError for entries that are not valid package
// identifiers.
func ParseIndex(dir string) ([]string, error) {
	for _, name := range indexFilenames {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open index %s: %w", path, err)
		}
		defer f.Close()
		return parseIndexFile(f, path)
	}
	return nil, fmt.Errorf("%w: no element-list or package-list in %s", ErrMissingIndex, dir)
}

func parseIndexFile(f *os.File, path string) ([]string, error) {
	seen := make(map[string]bool)
	var packages []string

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" || strings.HasPrefix(entry, "module:") {
			continue
		}
		if !packagePattern.MatchString(entry) {
			return nil, &MalformedIndexError{Path: path, Line: line, Entry: entry}
		}
		if !seen[entry] {
			seen[entry] = true
			packages = append(packages, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", path, err)
	}

	sort.Strings(packages)
	return packages, nil
}

// PackagePath converts a package name to its directory path form,
// e.g. "net.imglib2.img" -> "net/imglib2/img".
func PackagePath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}
