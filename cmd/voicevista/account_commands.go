package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/config"
	"github.com/voicevista/voicevista/internal/theme"
)

func newAccountCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newProfileCommand(ctx),
		newSettingsCommand(ctx),
		newAvatarCommand(ctx),
		newThemeCommand(ctx),
	}
}

func newProfileCommand(ctx *commandContext) *cobra.Command {
	var name, email string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the profile name and email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(app *appContext) error {
				out := cmd.OutOrStdout()
				user, err := app.client.Profile(cmd.Context())
				if err != nil {
					return fmt.Errorf("load profile: %w", err)
				}

				if cmd.Flags().Changed("name") || cmd.Flags().Changed("email") {
					update := api.ProfileUpdate{Name: user.Name, Email: user.Email}
					if cmd.Flags().Changed("name") {
						update.Name = strings.TrimSpace(name)
					}
					if cmd.Flags().Changed("email") {
						update.Email = strings.TrimSpace(email)
					}
					if update.Name == "" || update.Email == "" {
						return fmt.Errorf("name and email must not be empty")
					}
					resp, err := app.client.UpdateProfile(cmd.Context(), update)
					if err != nil {
						return fmt.Errorf("update profile: %w", err)
					}
					if user, err = refreshUser(cmd, app); err != nil {
						return err
					}
					fmt.Fprintln(out, resp.Message)
				}

				if asJSON {
					return writeJSON(cmd, user)
				}
				fmt.Fprintf(out, "Name:   %s\n", user.DisplayName())
				fmt.Fprintf(out, "Email:  %s\n", user.Email)
				if user.AvatarURL != "" {
					fmt.Fprintf(out, "Avatar: %s\n", app.client.AvatarURL(user.AvatarURL))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	var language, exportFormat string
	var diarization bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update transcription settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(app *appContext) error {
				out := cmd.OutOrStdout()
				settings, err := app.client.Settings(cmd.Context())
				if err != nil {
					return fmt.Errorf("load settings: %w", err)
				}

				flags := cmd.Flags()
				if flags.Changed("language") || flags.Changed("diarization") || flags.Changed("export-format") {
					if flags.Changed("language") {
						v, err := pick(api.TranscriptionLanguages, language, "language")
						if err != nil {
							return err
						}
						settings.TranscriptionLanguage = v
					}
					if flags.Changed("diarization") {
						settings.VoiceDiarization = diarization
					}
					if flags.Changed("export-format") {
						v, err := pick(api.ExportFormats, exportFormat, "export format")
						if err != nil {
							return err
						}
						settings.ExportFormat = v
					}

					if _, err := app.client.UpdateSettings(cmd.Context(), settings); err != nil {
						return fmt.Errorf("save settings: %w", err)
					}
					if _, err := refreshUser(cmd, app); err != nil {
						return err
					}
					fmt.Fprintln(out, "Your settings have been saved successfully!")
				}

				fmt.Fprintf(out, "Language:      %s\n", settings.TranscriptionLanguage)
				fmt.Fprintf(out, "Diarization:   %s\n", yesNo(settings.VoiceDiarization))
				fmt.Fprintf(out, "Export format: %s\n", settings.ExportFormat)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Transcription language: "+strings.Join(api.TranscriptionLanguages, ", "))
	cmd.Flags().BoolVar(&diarization, "diarization", true, "Separate speakers in transcripts")
	cmd.Flags().StringVar(&exportFormat, "export-format", "", "Preferred export format: "+strings.Join(api.ExportFormats, ", "))
	return cmd
}

// pick matches value case-insensitively against options.
func pick(options []string, value, what string) (string, error) {
	i := slices.IndexFunc(options, func(o string) bool {
		return strings.EqualFold(o, strings.TrimSpace(value))
	})
	if i < 0 {
		return "", fmt.Errorf("unsupported %s %q (want %s)", what, value, strings.Join(options, ", "))
	}
	return options[i], nil
}

func newAvatarCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image>",
		Short: "Upload a new avatar image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := api.CheckAvatarFile(path); err != nil {
				return err
			}
			return ctx.withSession(func(app *appContext) error {
				resp, err := app.client.UploadAvatarFile(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("upload avatar: %w", err)
				}
				user, _ := app.session.User()
				user.AvatarURL = resp.AvatarURL
				if err := app.session.UpdateUser(user); err != nil {
					return fmt.Errorf("store session: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Avatar updated successfully!")
				fmt.Fprintln(out, app.client.AvatarURL(resp.AvatarURL))
				return nil
			})
		},
	}
}

func newThemeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(app *appContext) error {
				mode := app.theme.Mode()
				if len(args) == 1 {
					var err error
					if strings.EqualFold(args[0], "toggle") {
						mode, err = app.theme.Toggle()
					} else {
						if mode, err = theme.ParseMode(args[0]); err == nil {
							err = app.theme.Set(mode)
						}
					}
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", mode)
				return nil
			})
		},
	}
}

// refreshUser re-reads the profile and replaces the cached session user.
func refreshUser(cmd *cobra.Command, app *appContext) (api.User, error) {
	user, err := app.client.Profile(cmd.Context())
	if err != nil {
		return api.User{}, fmt.Errorf("reload profile: %w", err)
	}
	if err := app.session.UpdateUser(user); err != nil {
		return api.User{}, fmt.Errorf("store session: %w", err)
	}
	return user, nil
}
