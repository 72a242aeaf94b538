// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes filenav tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/filenav/internal/commands"
	"github.com/starford/filenav/internal/navigation"
	"github.com/starford/filenav/internal/navservice"
	"github.com/starford/filenav/internal/settings"
	"github.com/starford/filenav/internal/storage"
)

const settingsFormatURI = "filenav://settings-format"

// Deps are the components the tools operate on.
type Deps struct {
	Settings  *settings.Store
	Commands  *commands.Registry
	Navigator *navservice.Service
	Documents navservice.DocumentSource
	Store     storage.Provider
}

// Server wraps the MCP server with filenav tools.
type Server struct {
	mcp  *server.MCPServer
	deps Deps
}

// New creates a new MCP server with all filenav tools registered.
func New(deps Deps, version string) *Server {
	s := &Server{deps: deps}

	s.mcp = server.NewMCPServer(
		"filenav",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List navigation groups with their ordered rules. "+
			"See the filenav://settings-format resource for field semantics."),
	), s.listGroups)

	s.mcp.AddTool(mcp.NewTool("list_commands",
		mcp.WithDescription("List the navigation commands (four per group) with ids and labels."),
	), s.listCommands)

	s.mcp.AddTool(mcp.NewTool("run_command",
		mcp.WithDescription("Invoke a navigation command relative to the active document."),
		mcp.WithString("command_id", mcp.Required(), mcp.Description("Full or base command id, e.g. filenav:group-<id>-next")),
		mcp.WithString("active_path", mcp.Description("Vault-relative path of the active document")),
	), s.runCommand)

	s.mcp.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Resolve the next/previous/latest/oldest document of a group relative to the active document."),
		mcp.WithString("group_id", mcp.Required(), mcp.Description("Group id")),
		mcp.WithString("direction", mcp.Required(), mcp.Description("Navigation direction"),
			mcp.Enum("previous", "next", "latest", "oldest")),
		mcp.WithString("active_path", mcp.Description("Vault-relative path of the active document")),
	), s.navigate)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List indexed documents with folder, tags, frontmatter and timestamps."),
		mcp.WithString("folder", mcp.Description("Optional folder prefix (empty for all)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the raw Markdown of a document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. folder/note.md)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("get_settings_format",
		mcp.WithDescription("Returns the settings format and rule semantics."),
	), s.getSettingsFormat)

	// Resource: settings format contract.
	s.mcp.AddResource(
		mcp.NewResource(settingsFormatURI, "Settings Format",
			mcp.WithResourceDescription("Settings blob structure and navigation rule semantics."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSettingsFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listGroups(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.deps.Settings.Snapshot()), nil
}

func (s *Server) listCommands(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.deps.Commands.List()), nil
}

func (s *Server) runCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("command_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cmd, err := s.deps.Commands.Lookup(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown command: %s", id)), nil
	}
	out, err := s.deps.Navigator.RunCommand(ctx, cmd.ID, req.GetString("active_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out), nil
}

func (s *Server) navigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groupID, err := req.RequireString("group_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawDir, err := req.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := navigation.ParseDirection(rawDir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.deps.Navigator.Navigate(ctx, groupID, dir, req.GetString("active_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.deps.Documents.ListDocuments(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	folder := strings.Trim(req.GetString("folder", ""), "/")
	if folder != "" {
		filtered := docs[:0]
		for _, d := range docs {
			if d.Folder == folder || strings.HasPrefix(d.Folder, folder+"/") {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}
	return jsonResult(docs), nil
}

func (s *Server) readDocument(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.deps.Store.Read(navservice.CleanPath(path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getSettingsFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SettingsFormatContract), nil
}

func (s *Server) readSettingsFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      settingsFormatURI,
			MIMEType: "text/markdown",
			Text:     SettingsFormatContract,
		},
	}, nil
}
