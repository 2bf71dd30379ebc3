package wrangler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/scijava/javadoc-wrangler/internal/config"
	"github.com/scijava/javadoc-wrangler/internal/maven"
	"github.com/scijava/javadoc-wrangler/internal/site"
)

// LockFilename is the name of the regeneration lock file
const LockFilename = "run.lock"

// rootIndexTitle is the heading of the generated toplevel site index.
const rootIndexTitle = "Javadoc"

// ArtifactSource provides the Maven repository operations the pipeline
// consumes. Implemented by maven.Repository; narrowed here for testing.
type ArtifactSource interface {
	ReleaseVersion(ctx context.Context, groupID, artifactID string) (string, error)
	FetchPom(ctx context.Context, c maven.Coordinate) (*maven.Pom, error)
	FetchJavadocJars(ctx context.Context, coords []maven.Coordinate, workers int) []maven.JarResult
}

// SearchIndexer rebuilds the class search index for a processed BOM.
// Implemented by the search package; optional.
type SearchIndexer interface {
	IndexBOM(bom maven.Coordinate, own *Ownership, siteDir string) error
}

// Service runs the wrangling pipeline: fetch a BOM, unpack its managed
// components' javadoc archives, rewrite legacy links, and synthesize the
// unioned redirect index.
type Service struct {
	settings *config.Settings
	source   ArtifactSource
	manifest *Manifest
	latest   *LatestPointer
	lock     *FileLock
	search   SearchIndexer
	logger   *slog.Logger
}

// NewService creates the pipeline service. search may be nil to disable
// class index maintenance.
func NewService(settings *config.Settings, source ArtifactSource, search SearchIndexer) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	for _, dir := range []string{settings.SiteDir(), settings.WorkDir(), settings.JarDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	manifest, err := LoadManifest(filepath.Join(settings.WorkDir(), ManifestFilename))
	if err != nil {
		return nil, err
	}
	latest, err := LoadLatest(settings.WorkDir())
	if err != nil {
		return nil, err
	}

	return &Service{
		settings: settings,
		source:   source,
		manifest: manifest,
		latest:   latest,
		lock:     NewFileLock(filepath.Join(settings.WorkDir(), LockFilename)),
		search:   search,
		logger:   slog.Default(),
	}, nil
}

// Latest returns the current latest BOM version, or "" if none yet.
func (s *Service) Latest() string {
	return s.latest.Version()
}

// ResolveBOMs turns command-line arguments into BOM coordinates. Each arg
// is either a full "g:a:v" coordinate or a bare version of the configured
// default BOM. With no args, the current release version is resolved from
// the repositories' maven-metadata.
func (s *Service) ResolveBOMs(ctx context.Context, args []string) ([]maven.Coordinate, error) {
	if len(args) == 0 {
		version, err := s.source.ReleaseVersion(ctx, s.settings.BOM.GroupID, s.settings.BOM.ArtifactID)
		if err != nil {
			return nil, fmt.Errorf("cannot glean latest version of %s:%s: %w",
				s.settings.BOM.GroupID, s.settings.BOM.ArtifactID, err)
		}
		args = []string{version}
	}

	boms := make([]maven.Coordinate, 0, len(args))
	for _, arg := range args {
		if strings.Contains(arg, ":") {
			c, err := maven.ParseCoordinate(arg)
			if err != nil {
				return nil, err
			}
			boms = append(boms, c)
			continue
		}
		boms = append(boms, maven.Coordinate{
			GroupID:    s.settings.BOM.GroupID,
			ArtifactID: s.settings.BOM.ArtifactID,
			Version:    arg,
		})
	}
	return boms, nil
}

// Run processes each requested BOM version to completion. Failures are
// fatal per BOM version but never affect versions already published; the
// returned error summarizes every failed coordinate.
func (s *Service) Run(ctx context.Context, args []string) error {
	if err := s.lock.TryLock(); err != nil {
		return err
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Error("Failed to release run lock", "error", err)
		}
	}()

	boms, err := s.ResolveBOMs(ctx, args)
	if err != nil {
		return err
	}

	var failures []error
	for _, bom := range boms {
		if err := s.ProcessBOM(ctx, bom); err != nil {
			s.logger.Error("BOM processing failed", "bom", bom.String(), "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", bom, err))
		}
	}

	if err := s.manifest.Save(filepath.Join(s.settings.WorkDir(), ManifestFilename)); err != nil {
		failures = append(failures, err)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d BOM versions failed: %w", len(failures), len(boms), errors.Join(failures...))
	}
	return nil
}

// ProcessBOM runs one BOM version's full pass: fetch, unpack, rewrite,
// merge, synthesize redirects, publish atomically, and update the latest
// pointer. Index, ownership, and dangling-reference errors abort the pass
// before anything is published for this version.
func (s *Service) ProcessBOM(ctx context.Context, bom maven.Coordinate) (err error) {
	if s.manifest.IsComplete(bom.String()) {
		s.logger.Info("Skipping already processed BOM", "bom", bom.String())
		return nil
	}
	s.logger.Info("Processing BOM", "bom", bom.String())

	state := BomState{Coordinate: bom.String()}
	defer func() {
		if err != nil {
			state.Error = err.Error()
			state.CompletedAt = nowUTC()
		}
		s.manifest.SetBomState(bom.String(), state)
	}()

	pom, err := s.source.FetchPom(ctx, bom)
	if err != nil {
		return err
	}
	if pom.Skipped > 0 {
		s.logger.Warn("Skipped invalid managed components", "bom", bom.String(), "count", pom.Skipped)
	}
	state.Components = len(pom.Managed)

	results := s.source.FetchJavadocJars(ctx, pom.Managed, s.settings.Workers)

	var unpacked []maven.Coordinate
	for _, res := range results {
		if res.Err != nil {
			if errors.Is(res.Err, maven.ErrArtifactNotFound) {
				s.logger.Warn("No javadoc archive", "component", res.Coordinate.String())
				state.Skipped++
				continue
			}
			return res.Err
		}
		if err := s.unpackComponent(ctx, bom, res.Coordinate, res.Path); err != nil {
			return err
		}
		unpacked = append(unpacked, res.Coordinate)
	}
	state.Unpacked = len(unpacked)

	components := make([]ComponentPackages, 0, len(unpacked))
	for _, c := range unpacked {
		packages, err := ParseIndex(filepath.Join(s.settings.SiteDir(), filepath.FromSlash(c.CanonicalPath())))
		if err != nil {
			return err
		}
		components = append(components, ComponentPackages{Coordinate: c, Packages: packages})
	}

	own, err := BuildOwnership(components)
	if err != nil {
		return err
	}

	rules, err := BuildRedirects(bom, own, s.settings.SiteDir())
	if err != nil {
		return err
	}

	if err := s.publishBOM(bom, own, rules, unpacked); err != nil {
		return err
	}

	if s.search != nil {
		// The redirect set is already published and consistent; a search
		// index failure degrades lookup, not the served site.
		if err := s.search.IndexBOM(bom, own, s.settings.SiteDir()); err != nil {
			s.logger.Error("Failed to build search index", "bom", bom.String(), "error", err)
		}
	}

	if err := s.updateLatest(bom); err != nil {
		return err
	}
	if err := s.writeRootIndex(); err != nil {
		return err
	}

	state.CompletedAt = nowUTC()
	s.logger.Info("Done processing BOM", "bom", bom.String(),
		"components", state.Components, "unpacked", state.Unpacked, "skipped", state.Skipped)
	return nil
}

// unpackComponent extracts one component's javadoc archive into a work
// directory, rewrites its legacy links, and moves it to its canonical site
// location in one rename. Components already on the site are immutable
// and left untouched.
func (s *Service) unpackComponent(ctx context.Context, bom, c maven.Coordinate, jarPath string) error {
	componentDir := filepath.Join(s.settings.SiteDir(), filepath.FromSlash(c.CanonicalPath()))
	if _, err := os.Stat(componentDir); err == nil {
		s.logger.Info("Skipping already unpacked component", "component", c.String())
		return nil
	}

	s.logger.Info("Unpacking javadoc archive", "component", c.String())
	tmpDir := filepath.Join(s.settings.WorkDir(), "unpack", sanitize(c.String()))
	if err := os.RemoveAll(tmpDir); err != nil {
		return err
	}
	if err := Extract(jarPath, tmpDir); err != nil {
		return err
	}

	hostTarget := ""
	if pom, err := s.source.FetchPom(ctx, c); err != nil {
		s.logger.Warn("Could not fetch POM; skipping host link replacement", "component", c.String(), "error", err)
	} else if !pom.Parent.Valid() {
		s.logger.Warn("Could not glean parent POM; skipping host link replacement", "component", c.String())
	} else {
		hostTarget = pom.Parent.SitePath()
	}

	legacy := make(map[string]string, len(s.settings.LegacyPrefixes))
	for _, prefix := range s.settings.LegacyPrefixes {
		legacy[prefix] = bom.SitePath()
	}
	rewriter, err := NewRewriter(hostTarget, legacy)
	if err != nil {
		return err
	}
	changed := rewriter.RewriteTree(tmpDir, s.logger)
	if changed > 0 {
		s.logger.Info("Rewrote legacy links", "component", c.String(), "files", changed)
	}

	if err := os.MkdirAll(filepath.Dir(componentDir), 0755); err != nil {
		return err
	}
	if err := os.Rename(tmpDir, componentDir); err != nil {
		return fmt.Errorf("failed to publish component %s: %w", c, err)
	}
	return nil
}

// publishBOM assembles the BOM's virtual directory in a staging location
// and swaps it into the site in one rename, so the served tree never holds
// a partial redirect set.
func (s *Service) publishBOM(bom maven.Coordinate, own *Ownership, rules []Rule, unpacked []maven.Coordinate) error {
	stageDir := filepath.Join(s.settings.WorkDir(), "stage", sanitize(bom.String()))
	if err := os.RemoveAll(stageDir); err != nil {
		return err
	}
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return err
	}

	if err := WriteRules(filepath.Join(stageDir, ".htaccess"), rules); err != nil {
		return err
	}
	if err := own.WriteMergedIndexes(stageDir); err != nil {
		return err
	}

	roots := make([]site.Root, 0, len(unpacked))
	for _, c := range unpacked {
		roots = append(roots, site.Root{GroupID: c.GroupID, ArtifactID: c.ArtifactID, Version: c.Version})
	}
	if err := site.WriteIndex(filepath.Join(stageDir, "index.html"), bom.String(), roots); err != nil {
		return err
	}

	bomDir := filepath.Join(s.settings.SiteDir(), filepath.FromSlash(bom.CanonicalPath()))
	// A leftover directory can only come from an earlier incomplete pass;
	// completed versions are skipped before reaching here.
	if err := os.RemoveAll(bomDir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(bomDir), 0755); err != nil {
		return err
	}
	if err := os.Rename(stageDir, bomDir); err != nil {
		return fmt.Errorf("failed to publish BOM %s: %w", bom, err)
	}
	return nil
}

// updateLatest advances the latest pointer and repoints the legacy alias
// rules when bom is the highest version seen so far.
func (s *Service) updateLatest(bom maven.Coordinate) error {
	advanced, err := s.latest.Advance(bom)
	if err != nil {
		return err
	}
	if !advanced {
		return nil
	}
	s.logger.Info("Advanced latest pointer", "bom", bom.String())
	return WriteAliases(filepath.Join(s.settings.SiteDir(), ".htaccess"), s.settings.LegacyPrefixes, bom.SitePath())
}

func (s *Service) writeRootIndex() error {
	roots, err := site.ScanRoots(s.settings.SiteDir())
	if err != nil {
		return err
	}
	return site.WriteIndex(filepath.Join(s.settings.SiteDir(), "index.html"), rootIndexTitle, roots)
}

func sanitize(coordinate string) string {
	return strings.NewReplacer(":", "_", "/", "_").Replace(coordinate)
}
