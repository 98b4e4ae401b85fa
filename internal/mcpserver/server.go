// Package mcpserver exposes the signed-in user's transcriptions as Model
// Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/transcript"
)

// Source is the read side of the API client.
type Source interface {
	Transcriptions(ctx context.Context) ([]transcript.Record, error)
	Transcription(ctx context.Context, id int64) (transcript.Record, error)
	Profile(ctx context.Context) (api.User, error)
}

// Server wraps an MCP server bound to a Source.
type Server struct {
	source Source
	logger zerolog.Logger
	mcp    *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool calls.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New registers the tools and returns the server.
func New(source Source, version string, opts ...Option) *Server {
	s := &Server{source: source, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer("voicevista", version, server.WithToolCapabilities(false))

	s.mcp.AddTool(mcp.NewTool("list_transcriptions",
		mcp.WithDescription("List the signed-in user's transcriptions, newest first."),
		mcp.WithString("status",
			mcp.Description("Only return records with this status"),
			mcp.Enum(string(transcript.StatusProcessing), string(transcript.StatusCompleted), string(transcript.StatusFailed)),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records to return"),
		),
	), s.handleList)

	s.mcp.AddTool(mcp.NewTool("get_transcription",
		mcp.WithDescription("Get one transcription with its summary and transcript."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Transcription id"),
		),
	), s.handleGet)

	s.mcp.AddTool(mcp.NewTool("whoami",
		mcp.WithDescription("Show the signed-in account."),
	), s.handleWhoami)

	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := transcript.Status(req.GetString("status", ""))
	limit := int(req.GetFloat("limit", 0))

	recs, err := s.source.Transcriptions(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("list_transcriptions")
		return mcp.NewToolResultError(api.Message(err)), nil
	}

	var list transcript.List
	for _, r := range recs {
		if status != "" && r.Status != status {
			continue
		}
		list = append(list, r)
	}
	list = list.Limit(limit)

	if len(list) == 0 {
		return mcp.NewToolResultText("No transcriptions found."), nil
	}

	var b strings.Builder
	for _, r := range list {
		fmt.Fprintf(&b, "#%d  %s  [%s]  %s", r.ID, r.Title, r.Status.Label(), r.Date)
		if r.Duration != "" {
			fmt.Fprintf(&b, "  %s", r.Duration)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func (s *Server) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id := int64(raw)
	if id <= 0 || float64(id) != raw {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id %v", raw)), nil
	}

	rec, err := s.source.Transcription(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Msg("get_transcription")
		return mcp.NewToolResultError(api.Message(err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rec.Title)
	fmt.Fprintf(&b, "Status: %s\n", rec.Status.Label())
	fmt.Fprintf(&b, "Date: %s\n", rec.Date)
	if rec.Duration != "" {
		fmt.Fprintf(&b, "Duration: %s\n", rec.Duration)
	}
	fmt.Fprintf(&b, "\nSummary:\n%s\n\nTranscript:\n%s", rec.SummaryText(), rec.TranscriptText())
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleWhoami(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := s.source.Profile(ctx)
	if err != nil {
		return mcp.NewToolResultError(api.Message(err)), nil
	}
	settings := u.EffectiveSettings()
	text := fmt.Sprintf("%s <%s>\nLanguage: %s\nDiarization: %t\nExport format: %s",
		u.DisplayName(), u.Email, settings.TranscriptionLanguage, settings.VoiceDiarization, settings.ExportFormat)
	return mcp.NewToolResultText(text), nil
}
