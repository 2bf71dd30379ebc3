package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/scijava/javadoc-wrangler/internal/search"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name       string
	Version    string
	SearchSvc  *search.Service
	MaxResults int
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.SearchSvc != nil {
		search.RegisterSearchTool(s, cfg.SearchSvc, cfg.MaxResults)
		search.RegisterLocateTool(s, cfg.SearchSvc, cfg.MaxResults)
	}

	return s
}
