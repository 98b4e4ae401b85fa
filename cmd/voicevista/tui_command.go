package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/voicevista/voicevista/internal/app"
	"github.com/voicevista/voicevista/internal/logging"
	"github.com/voicevista/voicevista/internal/router"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	var startPath string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *appContext) error {
				m := app.New(app.Deps{
					Context:        cmd.Context(),
					Client:         a.client,
					Session:        a.session,
					Theme:          a.theme,
					Downloader:     a.downloader,
					Cache:          a.cache,
					PollInterval:   a.cfg.PollInterval(),
					DashboardLimit: a.cfg.UI.DashboardLimit,
					StartPath:      startPath,
					Logger:         logging.WithComponent("tui"),
				})

				p := tea.NewProgram(m,
					tea.WithAltScreen(),
					tea.WithContext(cmd.Context()),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()),
				)
				if _, err := p.Run(); err != nil {
					return fmt.Errorf("run tui: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&startPath, "path", router.PathRoot, "Route to open first, e.g. /history or /transcription-result/12")
	return cmd
}
