package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/config"
	"github.com/voicevista/voicevista/internal/download"
	"github.com/voicevista/voicevista/internal/transcript"
)

func newTranscriptionCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newListCommand(ctx),
		newShowCommand(ctx),
		newUploadCommand(ctx),
		newDeleteCommand(ctx),
		newDownloadCommand(ctx),
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON, cached bool
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transcriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(app *appContext) error {
				var list transcript.List
				var note string
				if cached {
					l, fetchedAt, ok, err := app.cache.Load(cmd.Context(), app.owner())
					if err != nil {
						return fmt.Errorf("read cached transcriptions: %w", err)
					}
					if !ok {
						return errors.New("no cached transcriptions; run `voicevista list` while online first")
					}
					list = l
					note = fmt.Sprintf("Cached %s.", humanize.Time(fetchedAt))
				} else {
					recs, err := app.client.Transcriptions(cmd.Context())
					if err != nil {
						return fmt.Errorf("list transcriptions: %w", err)
					}
					list = recs
					if err := app.cache.Save(cmd.Context(), app.owner(), list); err != nil {
						app.logger.Warn().Err(err).Msg("cache transcriptions")
					}
				}

				if status != "" {
					filtered := make(transcript.List, 0, len(list))
					for _, r := range list {
						if string(r.Status) == status {
							filtered = append(filtered, r)
						}
					}
					list = filtered
				}

				if asJSON {
					if list == nil {
						list = transcript.List{}
					}
					return writeJSON(cmd, list)
				}

				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "No transcriptions found.")
					return nil
				}
				fmt.Fprintln(out, renderRecords(list, shouldColorize(out)))
				if note != "" {
					fmt.Fprintln(out, note)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&cached, "cached", false, "Show the last list fetched on this machine without contacting the server")
	cmd.Flags().StringVar(&status, "status", "", "Only show processing, completed or failed records")
	return cmd
}

func renderRecords(list transcript.List, colorize bool) string {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			statusText(r.Status, colorize),
			r.Date,
			r.Duration,
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Status", "Date", "Duration"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(func(app *appContext) error {
				rec, err := app.client.Transcription(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("get transcription %d: %w", id, err)
				}
				if asJSON {
					return writeJSON(cmd, rec)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\n", rec.Title)
				fmt.Fprintf(out, "Status:   %s\n", statusText(rec.Status, shouldColorize(out)))
				fmt.Fprintf(out, "Date:     %s\n", rec.Date)
				if rec.Duration != "" {
					fmt.Fprintf(out, "Duration: %s\n", rec.Duration)
				}
				fmt.Fprintf(out, "\nSummary:\n%s\n\nTranscript:\n%s\n", rec.SummaryText(), rec.TranscriptText())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an audio file for transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			info, err := api.CheckAudioFile(path)
			if err != nil {
				return fmt.Errorf("upload %s: %w", args[0], err)
			}

			return ctx.withSession(func(app *appContext) error {
				out := cmd.OutOrStdout()
				resp, err := app.client.UploadAudioFile(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("file upload failed: %w", err)
				}
				fmt.Fprintf(out, "Uploaded %s as #%d. Transcription started.\n", api.DescribeFile(info), resp.FileID)
				if !wait {
					return nil
				}
				return waitForTranscription(cmd, app, resp.FileID, filepath.Base(path))
			})
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the transcription finishes")
	return cmd
}

// waitForTranscription polls until record id leaves the processing state.
func waitForTranscription(cmd *cobra.Command, app *appContext, id int64, title string) error {
	out := cmd.OutOrStdout()
	list := transcript.List{}.Prepend(transcript.Provisional(id, title, time.Now()))

	last := transcript.StatusProcessing
	poller := transcript.NewPoller(app.client, app.cfg.PollInterval(),
		transcript.WithPollLogger(app.logger),
		transcript.WithUpdateHook(func(l transcript.List) {
			if rec, ok := l.Find(id); ok && rec.Status != last {
				last = rec.Status
				fmt.Fprintf(out, "Status: %s\n", rec.Status.Label())
			}
		}),
	)

	fmt.Fprintln(out, "Waiting for transcription...")
	final, err := poller.Run(cmd.Context(), list)
	if err != nil {
		return err
	}
	if err := app.cache.Save(cmd.Context(), app.owner(), final); err != nil {
		app.logger.Warn().Err(err).Msg("cache transcriptions")
	}

	rec, ok := final.Find(id)
	if !ok {
		return fmt.Errorf("transcription #%d is no longer listed", id)
	}
	if rec.Status == transcript.StatusFailed {
		return fmt.Errorf("transcription #%d failed", id)
	}
	fmt.Fprintf(out, "Transcription #%d %s.\n", id, strings.ToLower(rec.Status.Label()))
	return nil
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one transcription, or all with --all",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("pass an id or --all, not both")
			}
			if !all && len(args) != 1 {
				return errors.New("an id is required (or --all)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(app *appContext) error {
				out := cmd.OutOrStdout()
				if all {
					if err := app.client.DeleteAllTranscriptions(cmd.Context()); err != nil {
						return fmt.Errorf("delete all transcriptions: %w", err)
					}
					if err := app.cache.Save(cmd.Context(), app.owner(), nil); err != nil {
						app.logger.Warn().Err(err).Msg("cache transcriptions")
					}
					fmt.Fprintln(out, "All transcriptions deleted.")
					return nil
				}

				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := app.client.DeleteTranscription(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete transcription %d: %w", id, err)
				}
				if l, _, ok, err := app.cache.Load(cmd.Context(), app.owner()); err == nil && ok {
					if err := app.cache.Save(cmd.Context(), app.owner(), l.Remove(id)); err != nil {
						app.logger.Warn().Err(err).Msg("cache transcriptions")
					}
				}
				fmt.Fprintf(out, "Transcription #%d deleted.\n", id)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete every transcription")
	return cmd
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var formatFlag, langFlag, dirFlag string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a completed transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			format, err := transcript.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			lang, err := transcript.ParseLanguage(langFlag)
			if err != nil {
				return err
			}

			return ctx.withSession(func(app *appContext) error {
				rec, err := app.client.Transcription(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("get transcription %d: %w", id, err)
				}
				if !rec.Completed() {
					return fmt.Errorf("transcription #%d is %s; only completed transcriptions can be downloaded", id, strings.ToLower(rec.Status.Label()))
				}

				d := app.downloader
				if strings.TrimSpace(dirFlag) != "" {
					dir, err := config.ExpandPath(dirFlag)
					if err != nil {
						return err
					}
					d = download.New(app.client, dir, download.WithLogger(app.logger))
				}

				res, err := d.Download(cmd.Context(), rec, format, lang)
				if err != nil {
					return fmt.Errorf("download transcription %d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", res.Path, res.Size())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", string(transcript.DefaultFormat), "File format: txt, pdf or docx")
	cmd.Flags().StringVar(&langFlag, "lang", string(transcript.DefaultLanguage), "Language code: en, hi, ja, ko, zh, es, de, ru or co")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "Destination directory (defaults to paths.download_dir)")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transcription id %q", s)
	}
	return id, nil
}
