package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/voicevista/voicevista/internal/api"
)

const minPasswordLength = 6

func newAuthCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newLoginCommand(ctx),
		newRegisterCommand(ctx),
		newLogoutCommand(ctx),
		newWhoamiCommand(ctx),
	}
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(app *appContext) error {
				in := bufio.NewReader(cmd.InOrStdin())
				var err error
				if email, err = promptIfEmpty(cmd.OutOrStdout(), in, "Email", email); err != nil {
					return err
				}
				if password, err = promptPassword(cmd.OutOrStdout(), cmd.InOrStdin(), in, password); err != nil {
					return err
				}

				resp, err := app.client.Login(cmd.Context(), email, password)
				if err != nil {
					return fmt.Errorf("login: %w", err)
				}
				if err := app.session.Login(resp.Token, resp.User); err != nil {
					return fmt.Errorf("store session: %w", err)
				}
				app.logger.Info().Int64("user_id", resp.User.ID).Msg("logged in")
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", resp.User.DisplayName(), resp.User.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(app *appContext) error {
				in := bufio.NewReader(cmd.InOrStdin())
				var err error
				if name, err = promptIfEmpty(cmd.OutOrStdout(), in, "Name", name); err != nil {
					return err
				}
				if email, err = promptIfEmpty(cmd.OutOrStdout(), in, "Email", email); err != nil {
					return err
				}
				if password, err = promptPassword(cmd.OutOrStdout(), cmd.InOrStdin(), in, password); err != nil {
					return err
				}
				if len([]rune(password)) < minPasswordLength {
					return errors.New("password must be at least 6 characters long")
				}

				resp, err := app.client.Register(cmd.Context(), name, email, password)
				if err != nil {
					return fmt.Errorf("register: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Please log in to continue.\n", resp.Message)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(app *appContext) error {
				owner := app.owner()
				if err := app.session.Logout(); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				if owner != "" {
					if err := app.cache.Forget(context.Background(), owner); err != nil {
						app.logger.Warn().Err(err).Msg("forget cached transcriptions")
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(app *appContext) error {
				out := cmd.OutOrStdout()
				user, err := app.client.Profile(cmd.Context())
				if err != nil {
					cached, _ := app.session.User()
					user = cached
					fmt.Fprintf(out, "Warning: showing saved profile (%s)\n", api.Message(err))
				}

				fmt.Fprintf(out, "Name:     %s\n", user.DisplayName())
				fmt.Fprintf(out, "Email:    %s\n", user.Email)
				if user.AvatarURL != "" {
					fmt.Fprintf(out, "Avatar:   %s\n", app.client.AvatarURL(user.AvatarURL))
				}
				if user.CreatedAt != "" {
					fmt.Fprintf(out, "Joined:   %s\n", user.CreatedAt)
				}
				fmt.Fprintf(out, "Server:   %s\n", app.client.BaseURL())
				if exp, ok := app.session.TokenExpiry(); ok {
					fmt.Fprintf(out, "Session:  expires %s (%s)\n", humanize.Time(exp), exp.Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}
}

// promptPassword reads the password without echo when stdin is a terminal
// and falls back to a plain line read otherwise.
func promptPassword(out io.Writer, stdin io.Reader, in *bufio.Reader, value string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	fd, ok := terminalFd(stdin)
	if !ok {
		return promptIfEmpty(out, in, "Password", value)
	}
	fmt.Fprint(out, "Password: ")
	secret, err := term.ReadPassword(int(fd))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if strings.TrimSpace(string(secret)) == "" {
		return "", errors.New("password is required")
	}
	return string(secret), nil
}

// promptIfEmpty reads a line from in when value is blank.
func promptIfEmpty(out io.Writer, in *bufio.Reader, label, value string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	fmt.Fprintf(out, "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return line, nil
}
