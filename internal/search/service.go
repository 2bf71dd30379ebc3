package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/scijava/javadoc-wrangler/internal/domain"
)

// Hit is one class search result.
type Hit struct {
	Class      string
	Package    string
	Coordinate string
	Path       string
}

// Service provides read-only queries over all built class indexes,
// combined through a Bleve index alias.
type Service struct {
	alias   bleve.IndexAlias
	indexes []bleve.Index
}

// Open opens every index under baseDir/indexes read-only. Returns an
// error if no index has been built yet.
func Open(baseDir string) (*Service, error) {
	indexesDir := filepath.Join(baseDir, "indexes")
	entries, err := os.ReadDir(indexesDir)
	if err != nil {
		return nil, fmt.Errorf("no search indexes at %s: %w", indexesDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(entry.Name(), IndexSuffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("no search indexes at %s", indexesDir)
	}

	var indexes []bleve.Index
	for _, name := range names {
		index, err := bleve.OpenUsing(filepath.Join(indexesDir, name), map[string]interface{}{
			"read_only": true,
		})
		if err != nil {
			for _, idx := range indexes {
				_ = idx.Close()
			}
			return nil, fmt.Errorf("failed to open index %s: %w", name, err)
		}
		indexes = append(indexes, index)
	}

	return &Service{alias: bleve.NewIndexAlias(indexes...), indexes: indexes}, nil
}

// Close closes all underlying indexes.
func (s *Service) Close() error {
	var firstErr error
	for _, index := range s.indexes {
		if err := index.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Search runs a full-text query over class names and returns up to size
// hits.
func (s *Service) Search(queryStr string, size int) ([]Hit, uint64, error) {
	classQuery := bleve.NewMatchQuery(queryStr)
	classQuery.SetField(domain.ClassFieldClass)

	req := bleve.NewSearchRequest(classQuery)
	req.Size = size
	req.Fields = []string{domain.ClassFieldClass, domain.ClassFieldPackage, domain.ClassFieldCoordinate, domain.ClassFieldPath}

	results, err := s.alias.Search(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}
	return toHits(results), results.Total, nil
}

// Locate finds the canonical site paths of classes with the exact given
// package, or of all packages when pkg is empty.
func (s *Service) Locate(class, pkg string, size int) ([]Hit, error) {
	classQuery := bleve.NewMatchQuery(class)
	classQuery.SetField(domain.ClassFieldClass)

	var searchQuery = bleve.NewConjunctionQuery(classQuery)
	if pkg != "" {
		pkgQuery := bleve.NewTermQuery(pkg)
		pkgQuery.SetField(domain.ClassFieldPackage)
		searchQuery.AddQuery(pkgQuery)
	}

	req := bleve.NewSearchRequest(searchQuery)
	req.Size = size
	req.Fields = []string{domain.ClassFieldClass, domain.ClassFieldPackage, domain.ClassFieldCoordinate, domain.ClassFieldPath}

	results, err := s.alias.Search(req)
	if err != nil {
		return nil, fmt.Errorf("locate failed: %w", err)
	}
	return toHits(results), nil
}

func toHits(results *bleve.SearchResult) []Hit {
	hits := make([]Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		h := Hit{}
		if v, ok := hit.Fields[domain.ClassFieldClass].(string); ok {
			h.Class = v
		}
		if v, ok := hit.Fields[domain.ClassFieldPackage].(string); ok {
			h.Package = v
		}
		if v, ok := hit.Fields[domain.ClassFieldCoordinate].(string); ok {
			h.Coordinate = v
		}
		if v, ok := hit.Fields[domain.ClassFieldPath].(string); ok {
			h.Path = v
		}
		hits = append(hits, h)
	}
	return hits
}
