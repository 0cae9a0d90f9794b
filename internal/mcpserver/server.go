// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes note search and authoring tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/noteservice"
)

// Server wraps the MCP server with note tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all note tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Faceted search over notes: free text plus optional tag and sentiment filters."),
		mcp.WithString("query", mcp.Description("Free-text search query")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags; notes matching any of them are returned")),
		mcp.WithString("sentiment", mcp.Description("Filter by sentiment label: positive, negative, or neutral")),
		mcp.WithString("sort_by", mcp.Description("Sort order: relevance, date, or title")),
		mcp.WithNumber("limit", mcp.Description("Max results per page (1-50, default 20)")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Read a single note by id, including its metadata."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Tags are lowercased and deduplicated on save."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title (max 200 chars)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown body")),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Short summary of the note")),
		mcp.WithString("key_points", mcp.Description("Newline-separated key points (max 20)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags (max 50)")),
		mcp.WithString("sentiment_label", mcp.Description("positive, negative, or neutral (default neutral)")),
		mcp.WithNumber("sentiment_score", mcp.Description("Sentiment score in [-1, 1] (default 0)")),
	), s.createNote)

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

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	searchReq := &models.SearchRequest{
		Query:     req.GetString("query", ""),
		Tags:      splitList(req.GetString("tags", ""), ","),
		Sentiment: req.GetString("sentiment", ""),
		SortBy:    req.GetString("sort_by", ""),
		Limit:     req.GetInt("limit", 0),
	}
	resp, err := s.svc.Search(ctx, searchReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := req.RequireString("summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	label := req.GetString("sentiment_label", models.SentimentNeutral)
	payload := &models.NotePayload{
		Title:     title,
		Content:   content,
		Summary:   summary,
		KeyPoints: splitList(req.GetString("key_points", ""), "\n"),
		Tags:      splitList(req.GetString("tags", ""), ","),
		Sentiment: models.Sentiment{
			Score: req.GetFloat("sentiment_score", 0),
			Label: label,
		},
	}

	note, err := s.svc.Create(ctx, payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func splitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
