package maven

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrArtifactNotFound indicates no configured repository serves the artifact.
var ErrArtifactNotFound = errors.New("artifact not found in any repository")

// MissingSuffix marks cached knowledge that a coordinate publishes no
// javadoc archive, so later runs skip the download attempt.
const MissingSuffix = ".missing"

// Repository downloads POMs, metadata, and javadoc archives from one or
// more Maven repository base URLs, caching JARs on disk.
// All methods are safe for concurrent use.
type Repository struct {
	baseURLs []string
	jarDir   string
	client   *http.Client
}

// NewRepository creates a fetcher over the given repository base URLs.
// Downloads are cached under jarDir.
func NewRepository(baseURLs []string, jarDir string, timeout time.Duration) *Repository {
	urls := make([]string, len(baseURLs))
	for i, u := range baseURLs {
		urls[i] = strings.TrimSuffix(u, "/")
	}
	return &Repository{
		baseURLs: urls,
		jarDir:   jarDir,
		client:   &http.Client{Timeout: timeout},
	}
}

// groupPath converts a groupId to its repository path form.
func groupPath(groupID string) string {
	return strings.ReplaceAll(groupID, ".", "/")
}

// artifactURL builds the repository URL for a coordinate file.
func artifactURL(base string, c Coordinate, filename string) string {
	return base + "/" + groupPath(c.GroupID) + "/" + c.ArtifactID + "/" + c.Version + "/" + filename
}

// ReleaseVersion resolves the current release version of groupId:artifactId
// from the first repository that serves its maven-metadata.xml.
func (r *Repository) ReleaseVersion(ctx context.Context, groupID, artifactID string) (string, error) {
	var lastErr error
	for _, base := range r.baseURLs {
		url := base + "/" + groupPath(groupID) + "/" + artifactID + "/maven-metadata.xml"
		body, err := r.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		version, err := ParseReleaseVersion(body)
		body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return version, nil
	}
	if lastErr == nil {
		lastErr = ErrArtifactNotFound
	}
	return "", fmt.Errorf("failed to resolve release of %s:%s: %w", groupID, artifactID, lastErr)
}

// FetchPom downloads and parses the POM for a coordinate.
func (r *Repository) FetchPom(ctx context.Context, c Coordinate) (*Pom, error) {
	var lastErr error
	for _, base := range r.baseURLs {
		body, err := r.get(ctx, artifactURL(base, c, c.PomName()))
		if err != nil {
			lastErr = err
			continue
		}
		pom, err := ParsePom(body)
		body.Close()
		if err != nil {
			return nil, err
		}
		return pom, nil
	}
	return nil, fmt.Errorf("failed to fetch pom for %s: %w", c, lastErr)
}

// FetchJavadocJar downloads the javadoc classifier JAR for a coordinate
// into the jar cache and returns its local path.
//
// A 404 from every repository is remembered with a .missing marker file;
// subsequent calls return ErrArtifactNotFound without any network traffic.
// Components without published javadoc are common and callers treat this
// error as a skip, not a failure.
func (r *Repository) FetchJavadocJar(ctx context.Context, c Coordinate) (string, error) {
	jarPath := filepath.Join(r.jarDir, c.JarName())
	if _, err := os.Stat(jarPath); err == nil {
		return jarPath, nil
	}
	if _, err := os.Stat(jarPath + MissingSuffix); err == nil {
		return "", fmt.Errorf("%w: %s (cached)", ErrArtifactNotFound, c)
	}

	if err := os.MkdirAll(r.jarDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create jar cache: %w", err)
	}

	notFound := true
	var lastErr error
	for _, base := range r.baseURLs {
		body, err := r.get(ctx, artifactURL(base, c, c.JarName()))
		if err != nil {
			if !errors.Is(err, ErrArtifactNotFound) {
				notFound = false
			}
			lastErr = err
			continue
		}
		err = writeAtomic(jarPath, body)
		body.Close()
		if err != nil {
			return "", err
		}
		return jarPath, nil
	}

	if notFound {
		// Remember the absence so later runs skip the lookup.
		if err := os.WriteFile(jarPath+MissingSuffix, nil, 0644); err != nil {
			return "", fmt.Errorf("failed to write missing marker: %w", err)
		}
		return "", fmt.Errorf("%w: %s", ErrArtifactNotFound, c)
	}
	return "", fmt.Errorf("failed to fetch javadoc jar for %s: %w", c, lastErr)
}

// JarResult is the outcome of one javadoc JAR download.
type JarResult struct {
	Coordinate Coordinate
	Path       string
	Err        error
}

// FetchJavadocJars downloads javadoc JARs for all coordinates using a
// bounded worker pool. Results preserve the input order.
func (r *Repository) FetchJavadocJars(ctx context.Context, coords []Coordinate, workers int) []JarResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]JarResult, len(coords))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				path, err := r.FetchJavadocJar(ctx, coords[i])
				results[i] = JarResult{Coordinate: coords[i], Path: path, Err: err}
			}
		}()
	}
	for i := range coords {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (r *Repository) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for %s: %w", url, err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, url)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
}

// writeAtomic streams body to path via a temp file and rename, so a
// partially downloaded JAR is never mistaken for a cached one.
func writeAtomic(path string, body io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return nil
}
