package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/scijava/javadoc-wrangler/internal/config"
	"github.com/scijava/javadoc-wrangler/internal/maven"
	mcputil "github.com/scijava/javadoc-wrangler/internal/mcp"
	"github.com/scijava/javadoc-wrangler/internal/search"
	"github.com/scijava/javadoc-wrangler/internal/wrangler"
	"github.com/spf13/pflag"
)

// RunParams contains dependencies for the run functions
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	NewService        func(*config.Settings) (*wrangler.Service, error)
	OpenSearch        func(*config.Settings) (*search.Service, error)
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:  config.LoadSettingsWithFlags,
		ValidSettings: config.ValidateSettings,
		NewService:    NewService,
		OpenSearch: func(s *config.Settings) (*search.Service, error) {
			return search.Open(s.BaseDir)
		},
	}
}

// NewService builds the production wrangling service from settings.
func NewService(settings *config.Settings) (*wrangler.Service, error) {
	source := maven.NewRepository(settings.Repositories, settings.JarDir(), settings.HTTPTimeout)
	var indexer wrangler.SearchIndexer
	if settings.Search.Enabled {
		indexer = search.NewIndexer(settings.BaseDir)
	}
	return wrangler.NewService(settings, source, indexer)
}

// RunWithDeps executes a wrangling pass with the provided dependencies.
// args are BOM versions or full g:a:v coordinates; empty args resolve the
// current release version from the repositories.
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string, args []string) error {
	settings, err := setup(params, flags, version)
	if err != nil {
		return err
	}

	service, err := params.NewService(settings)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return service.Run(ctx, args)
}

// RunMCPWithDeps starts the MCP stdio server over the built search index.
func RunMCPWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := setup(params, flags, version)
	if err != nil {
		return err
	}

	searchSvc, err := params.OpenSearch(settings)
	if err != nil {
		return fmt.Errorf("failed to open search index: %w", err)
	}
	defer func() {
		if err := searchSvc.Close(); err != nil {
			slog.Error("Failed to close search index", "error", err)
		}
	}()

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:       "javadoc-wrangler",
		Version:    version,
		SearchSvc:  searchSvc,
		MaxResults: settings.Search.MaxResults,
	})

	// Use custom transport if provided (for testing), otherwise use stdio
	transport := params.CustomIOTransport
	if transport == nil {
		transport = &mcp.StdioTransport{}
	}
	return server.Run(ctx, transport)
}

func setup(params RunParams, flags *pflag.FlagSet, version string) (*config.Settings, error) {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := params.ValidSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Configure logging - always use stderr to avoid buffering issues
	handler := slog.NewTextHandler(os.Stderr, nil)
	slog.SetDefault(slog.New(handler))

	slog.Info("Starting javadoc wrangler", "version", version)
	config.Log(settings)
	return settings, nil
}
