// Package search maintains the Bleve class index over the generated site,
// one index per BOM version, queried through a combined alias.
package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/scijava/javadoc-wrangler/internal/domain"
	"github.com/scijava/javadoc-wrangler/internal/maven"
	"github.com/scijava/javadoc-wrangler/internal/wrangler"
)

const (
	// IndexSuffix is the suffix for index directories
	IndexSuffix = ".bleve"

	// MaxBatchSize is the maximum number of documents per batch
	MaxBatchSize = 500
)

// Indexer builds per-BOM class indexes under baseDir/indexes.
type Indexer struct {
	baseDir string
}

// NewIndexer creates an indexer rooted at baseDir.
func NewIndexer(baseDir string) *Indexer {
	return &Indexer{baseDir: baseDir}
}

// indexPath returns the index directory for a BOM coordinate.
func (i *Indexer) indexPath(bom maven.Coordinate) string {
	name := strings.NewReplacer("/", "_", ":", "_").Replace(bom.String())
	return filepath.Join(i.baseDir, "indexes", name+IndexSuffix)
}

// CreateIndexMapping creates the Bleve index mapping for class documents.
func CreateIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	// Class name - analyzed for search, stored for retrieval
	classField := bleve.NewTextFieldMapping()
	classField.Analyzer = standard.Name
	classField.Store = true
	docMapping.AddFieldMappingsAt(domain.ClassFieldClass, classField)

	// Package - keyword (not analyzed), stored
	packageField := bleve.NewTextFieldMapping()
	packageField.Analyzer = keyword.Name
	packageField.Store = true
	docMapping.AddFieldMappingsAt(domain.ClassFieldPackage, packageField)

	// Coordinate - keyword, stored
	coordField := bleve.NewTextFieldMapping()
	coordField.Analyzer = keyword.Name
	coordField.Store = true
	docMapping.AddFieldMappingsAt(domain.ClassFieldCoordinate, coordField)

	// Path - stored but not indexed
	pathField := bleve.NewTextFieldMapping()
	pathField.Index = false
	pathField.Store = true
	docMapping.AddFieldMappingsAt(domain.ClassFieldPath, pathField)

	// ID - stored but not indexed (we use the document ID)
	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	idField.Store = true
	docMapping.AddFieldMappingsAt(domain.ClassFieldID, idField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// IndexBOM rebuilds the class index for a BOM version from the unpacked
// trees under siteDir. It satisfies the pipeline's SearchIndexer hook.
func (i *Indexer) IndexBOM(bom maven.Coordinate, own *wrangler.Ownership, siteDir string) error {
	docs, err := CollectDocuments(siteDir, own)
	if err != nil {
		return err
	}
	return i.Index(bom, docs)
}

// Index replaces the class index for a BOM version with the given
// documents. The previous index directory, if any, is removed first so a
// re-run never accumulates stale documents.
func (i *Indexer) Index(bom maven.Coordinate, docs []domain.ClassDocument) (err error) {
	indexPath := i.indexPath(bom)
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to remove stale index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	index, err := bleve.New(indexPath, CreateIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	batch := index.NewBatch()
	batchSize := 0
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to batch document %s: %w", doc.ID, err)
		}
		batchSize++
		if batchSize >= MaxBatchSize {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("batch index failed: %w", err)
			}
			batch = index.NewBatch()
			batchSize = 0
		}
	}
	if batchSize > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("final batch index failed: %w", err)
		}
	}
	return nil
}

// CollectDocuments enumerates the class documents of every package in the
// ownership map from the unpacked trees under siteDir. Package machinery
// documents (package-summary.html and friends) and class-use pages are
// not class documents and are skipped. Output order follows the sorted
// package and file enumeration, so document IDs are deterministic.
func CollectDocuments(siteDir string, own *wrangler.Ownership) ([]domain.ClassDocument, error) {
	var docs []domain.ClassDocument
	for _, pkg := range own.Packages() {
		owner, _ := own.Owner(pkg)
		files, err := wrangler.ListPackageFiles(siteDir, owner, pkg)
		if err != nil {
			return nil, err
		}
		for _, rel := range files {
			base := strings.TrimSuffix(filepath.Base(rel), ".html")
			if strings.Contains(rel, "/class-use/") || strings.Contains(base, "-") {
				continue
			}
			docs = append(docs, domain.ClassDocument{
				ID:         owner.String() + "/" + pkg + "." + base,
				Class:      base,
				Package:    pkg,
				Coordinate: owner.String(),
				Path:       owner.SitePath() + rel,
			})
		}
	}
	return docs, nil
}
