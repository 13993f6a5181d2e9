// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes blog management tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/virel/pagesmith/internal/content"
	"github.com/virel/pagesmith/internal/frontmatter"
)

// Server wraps the MCP server with blog management tools.
type Server struct {
	mcp  *server.MCPServer
	repo *content.Repository
}

// New creates a new MCP server with all tools registered.
func New(repo *content.Repository) *Server {
	s := &Server{repo: repo}

	s.mcp = server.NewMCPServer(
		"Pagesmith",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List all blog posts, newest first."),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("read_post",
		mcp.WithDescription("Read a blog post: its front matter metadata and Markdown body."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository path of the post (e.g. posts/_posts_2025-01-15-hello.md)")),
	), s.readPost)

	s.mcp.AddTool(mcp.NewTool("create_post",
		mcp.WithDescription("Create a new blog post. The filename is derived from the title "+
			"and date automatically. Read the format contract first via the get_post_format "+
			"tool or the pagesmith://post-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Post title")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Markdown body of the post")),
		mcp.WithString("metadata", mcp.Description("Optional JSON object of front matter overrides (string or string-array values)")),
	), s.createPost)

	s.mcp.AddTool(mcp.NewTool("update_post",
		mcp.WithDescription("Update an existing blog post. The stored path never changes, "+
			"even when the title does."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository path of the post")),
		mcp.WithString("body", mcp.Required(), mcp.Description("New Markdown body")),
		mcp.WithString("title", mcp.Description("New title (empty keeps the stored one)")),
		mcp.WithString("metadata", mcp.Description("Optional JSON object of front matter overrides")),
	), s.updatePost)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the standalone site pages."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read a standalone page: its front matter metadata and Markdown body."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository path of the page (e.g. about.md)")),
	), s.readPage)

	s.mcp.AddTool(mcp.NewTool("get_post_format",
		mcp.WithDescription("Returns the canonical post format contract. "+
			"Call this before creating or updating posts to ensure correct structure."),
	), s.getPostFormat)

	s.mcp.AddTool(mcp.NewTool("upload_media",
		mcp.WithDescription("Download an image from a URL or data URI and store it in the "+
			"site's media library. Returns a ready-to-paste Markdown image reference."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL or base64 data URI of the image")),
		mcp.WithString("filename", mcp.Description("Optional filename override")),
	), s.uploadMedia)

	// Resource: post format contract.
	s.mcp.AddResource(
		mcp.NewResource("pagesmith://post-format", "Post Format Contract",
			mcp.WithResourceDescription("Canonical front matter and Markdown format for blog posts."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPostFormatResource,
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

func (s *Server) listPosts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(posts, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.repo.GetPost(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read %s: %v", path, err)), nil
	}
	return mcp.NewToolResultText(documentText(doc)), nil
}

func (s *Server) createPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	overrides, err := metadataArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.repo.CreatePost(ctx, title, body, overrides)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", doc.Path)), nil
}

func (s *Server) updatePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := ""
	if v, tErr := req.RequireString("title"); tErr == nil {
		title = v
	}
	overrides, err := metadataArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.repo.UpdatePost(ctx, path, title, body, overrides)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s", doc.Path)), nil
}

func (s *Server) listPages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.repo.ListPages(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var paths []string
	for _, p := range pages {
		paths = append(paths, p.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.repo.GetPage(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read %s: %v", path, err)), nil
	}
	return mcp.NewToolResultText(documentText(doc)), nil
}

func (s *Server) getPostFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PostFormatContract), nil
}

func (s *Server) readPostFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "pagesmith://post-format",
			MIMEType: "text/markdown",
			Text:     PostFormatContract,
		},
	}, nil
}

func metadataArg(req mcp.CallToolRequest) (*frontmatter.Metadata, error) {
	raw := ""
	if v, err := req.RequireString("metadata"); err == nil {
		raw = v
	}
	if raw == "" {
		return nil, nil
	}
	values := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("metadata must be a JSON object: %w", err)
	}
	return content.MetadataFromMap(values)
}

func documentText(doc *content.Document) string {
	meta, _ := json.MarshalIndent(content.MetadataToMap(doc.Metadata), "", "  ")
	return fmt.Sprintf("path: %s\nrevision: %s\nmetadata: %s\n\n%s", doc.Path, doc.Revision, meta, doc.Body)
}
