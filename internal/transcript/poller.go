package transcript

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPollInterval is the refresh period while any record is processing.
const DefaultPollInterval = 5 * time.Second

// Lister fetches the authoritative transcription list.
type Lister interface {
	Transcriptions(ctx context.Context) ([]Record, error)
}

// Poller re-fetches the list while any record is processing.
type Poller struct {
	lister   Lister
	interval time.Duration
	logger   zerolog.Logger
	onUpdate func(List)
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollLogger sets the poller's logger.
func WithPollLogger(logger zerolog.Logger) PollerOption {
	return func(p *Poller) { p.logger = logger }
}

// WithUpdateHook registers a callback invoked after every successful fetch.
func WithUpdateHook(fn func(List)) PollerOption {
	return func(p *Poller) { p.onUpdate = fn }
}

// NewPoller constructs a Poller. A non-positive interval uses
// DefaultPollInterval.
func NewPoller(lister Lister, interval time.Duration, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poller{
		lister:   lister,
		interval: interval,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until no record in the list is processing, then returns the
// final list. Fetch errors are logged and the previous list is kept; polling
// continues on the next tick. Cancelling ctx stops polling and returns the
// last known list with ctx's error.
func (p *Poller) Run(ctx context.Context, initial List) (List, error) {
	current := initial
	if !current.AnyProcessing() {
		return current, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return current, ctx.Err()
		case <-ticker.C:
		}

		fetched, err := p.lister.Transcriptions(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return current, ctx.Err()
			}
			p.logger.Warn().Err(err).Msg("poll transcriptions")
			continue
		}
		current = current.Reconcile(fetched)
		if p.onUpdate != nil {
			p.onUpdate(current)
		}
		p.logger.Debug().Int("records", len(current)).Bool("processing", current.AnyProcessing()).Msg("poll tick")
		if !current.AnyProcessing() {
			return current, nil
		}
	}
}
