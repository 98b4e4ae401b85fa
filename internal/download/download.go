// Package download saves rendered transcripts to disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/voicevista/voicevista/internal/transcript"
)

// ErrInFlight is returned when a download for the same record is running.
var ErrInFlight = errors.New("download already in progress")

// Fetcher returns the transcript blob for a record.
type Fetcher interface {
	DownloadTranscript(ctx context.Context, id int64, format transcript.Format, lang transcript.Language) (io.ReadCloser, error)
}

// Result describes a saved file.
type Result struct {
	Path  string
	Bytes int64
}

// Size returns the byte count in human form.
func (r Result) Size() string {
	return humanize.Bytes(uint64(r.Bytes))
}

// Downloader fetches and saves transcripts, one per record at a time.
type Downloader struct {
	fetcher Fetcher
	dir     string
	logger  zerolog.Logger

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithLogger sets the downloader's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Downloader) { d.logger = logger }
}

// New creates a Downloader saving into dir.
func New(fetcher Fetcher, dir string, opts ...Option) *Downloader {
	d := &Downloader{
		fetcher:  fetcher,
		dir:      dir,
		logger:   zerolog.Nop(),
		inFlight: make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dir returns the target directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// InFlight reports whether a download for id is running.
func (d *Downloader) InFlight(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.inFlight[id]
	return ok
}

// Download saves the record's transcript as <title>_transcript.<ext> in the
// target directory. The blob is written to a temporary file first, which is
// removed on any failure.
func (d *Downloader) Download(ctx context.Context, rec transcript.Record, format transcript.Format, lang transcript.Language) (Result, error) {
	if !d.acquire(rec.ID) {
		return Result{}, ErrInFlight
	}
	defer d.release(rec.ID)

	if format == "" {
		format = transcript.DefaultFormat
	}
	if lang == "" {
		lang = transcript.DefaultLanguage
	}

	body, err := d.fetcher.DownloadTranscript(ctx, rec.ID, format, lang)
	if err != nil {
		return Result{}, err
	}
	defer body.Close()

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, ".voicevista-download-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("write transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("close temp file: %w", err)
	}

	dest, err := d.commit(tmpPath, transcript.Filename(rec.Title, format))
	if err != nil {
		return Result{}, fmt.Errorf("save transcript: %w", err)
	}
	committed = true

	d.logger.Info().Int64("id", rec.ID).Str("path", dest).Str("format", string(format)).
		Str("lang", string(lang)).Int64("bytes", n).Msg("transcript saved")
	return Result{Path: dest, Bytes: n}, nil
}

// commit moves tmpPath to name in the target directory. An existing file is
// never replaced; the name gains a " (n)" suffix before the extension instead.
func (d *Downloader) commit(tmpPath, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 0; ; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}
		dest := filepath.Join(d.dir, candidate)
		if _, err := os.Lstat(dest); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if err := os.Rename(tmpPath, dest); err != nil {
			return "", err
		}
		return dest, nil
	}
}

func (d *Downloader) acquire(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.inFlight[id]; ok {
		return false
	}
	d.inFlight[id] = struct{}{}
	return true
}

func (d *Downloader) release(id int64) {
	d.mu.Lock()
	delete(d.inFlight, id)
	d.mu.Unlock()
}
