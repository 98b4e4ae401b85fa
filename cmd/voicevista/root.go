package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

func newRootCommand() *cobra.Command {
	var configFlag string
	var apiURLFlag string

	ctx := newCommandContext(&configFlag, &apiURLFlag)

	rootCmd := &cobra.Command{
		Use:           "voicevista",
		Short:         "VoiceVista transcription client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is normal.
			_ = godotenv.Load()
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend base URL (overrides config and VOICEVISTA_API_URL)")

	for _, cmd := range newAuthCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range newTranscriptionCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range newAccountCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newTUICommand(ctx))
	rootCmd.AddCommand(newMCPCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
