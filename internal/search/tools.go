package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgument defines class search parameters.
type SearchArgument struct {
	Query string `json:"query" jsonschema_description:"Class name query (e.g. Img, DatasetService)"`
}

// LocateArgument defines class location parameters.
type LocateArgument struct {
	Class   string `json:"class" jsonschema_description:"Simple class name (e.g. Img)"`
	Package string `json:"package,omitempty" jsonschema_description:"Fully-qualified package to disambiguate (e.g. net.imglib2.img)"`
}

// SearchHandler handles the javadoc_search MCP tool.
type SearchHandler struct {
	service    *Service
	maxResults int
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *Service, maxResults int) *SearchHandler {
	return &SearchHandler{service: service, maxResults: maxResults}
}

// Handle executes the search and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Query) == "" {
		return errorResult("Query cannot be empty"), nil, nil
	}

	hits, total, err := h.service.Search(args.Query, h.maxResults)
	if err != nil {
		return errorResult(fmt.Sprintf("Search failed: %s", err)), nil, nil
	}
	if total == 0 {
		return textResult(fmt.Sprintf("No classes found for query: %s", args.Query)), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d classes for '%s':\n\n", total, args.Query)
	for i, hit := range hits {
		fmt.Fprintf(&sb, "%d. %s.%s (%s)\n   %s\n", i+1, hit.Package, hit.Class, hit.Coordinate, hit.Path)
	}
	return textResult(sb.String()), nil, nil
}

// LocateHandler handles the javadoc_locate MCP tool.
type LocateHandler struct {
	service    *Service
	maxResults int
}

// NewLocateHandler creates a new locate handler.
func NewLocateHandler(service *Service, maxResults int) *LocateHandler {
	return &LocateHandler{service: service, maxResults: maxResults}
}

// Handle resolves a class name to its canonical site paths.
func (h *LocateHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args LocateArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Class) == "" {
		return errorResult("Class cannot be empty"), nil, nil
	}

	hits, err := h.service.Locate(args.Class, args.Package, h.maxResults)
	if err != nil {
		return errorResult(fmt.Sprintf("Locate failed: %s", err)), nil, nil
	}
	if len(hits) == 0 {
		return textResult(fmt.Sprintf("No class named %q found", args.Class)), nil, nil
	}

	var sb strings.Builder
	for _, hit := range hits {
		fmt.Fprintf(&sb, "%s.%s -> %s\n", hit.Package, hit.Class, hit.Path)
	}
	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "javadoc_search",
		Description: "Search documented Java classes across all wrangled BOM versions",
	}
}

// GetToolDefinition returns the MCP tool definition.
func (h *LocateHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "javadoc_locate",
		Description: "Resolve a Java class name to its canonical javadoc URL path",
	}
}

// RegisterSearchTool registers the javadoc_search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *Service, maxResults int) {
	handler := NewSearchHandler(service, maxResults)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// RegisterLocateTool registers the javadoc_locate tool with an MCP server.
func RegisterLocateTool(server *mcp.Server, service *Service, maxResults int) {
	handler := NewLocateHandler(service, maxResults)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
