package main

import (
	"github.com/spf13/cobra"

	"github.com/voicevista/voicevista/internal/logging"
	"github.com/voicevista/voicevista/internal/mcpserver"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve transcriptions as MCP tools over stdio",
		Long: "Runs a Model Context Protocol server on stdin/stdout exposing the signed-in\n" +
			"user's transcriptions as the tools list_transcriptions, get_transcription and whoami.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(app *appContext) error {
				srv := mcpserver.New(app.client, version, mcpserver.WithLogger(logging.WithComponent("mcp")))
				return srv.ServeStdio()
			})
		},
	}
}
