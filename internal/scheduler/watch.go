package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/kjannette/fmp-backend/internal/calendar"
	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

// SnapshotSource is satisfied by research.Service.
type SnapshotSource interface {
	Snapshot(ctx context.Context, sym string) (models.WatchSnapshot, error)
}

type Notifier interface {
	Send(ctx context.Context, msg string) error
}

type WatchConfig struct {
	Schedule string // standard 5-field cron spec or a descriptor such as "@hourly"
	List     string
	Symbols  []string
	Timeout  time.Duration

	// BusinessDaysOnly skips scheduled runs on weekends and NYSE holidays.
	BusinessDaysOnly bool
}

// WatchSummary is the outcome of one pass over the watchlist.
type WatchSummary struct {
	List      string
	Snapshots []models.WatchSnapshot
	Failed    map[string]error
	Took      time.Duration
}

// WatchScheduler snapshots every symbol of a watchlist on a cron schedule and
// sends the table to the notifier.
type WatchScheduler struct {
	src    SnapshotSource
	notify Notifier
	cfg    WatchConfig
	log    zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewWatchScheduler(src SnapshotSource, notify Notifier, cfg WatchConfig, log zerolog.Logger) (*WatchScheduler, error) {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("watch schedule %q: %w", cfg.Schedule, err)
	}
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("watchlist %q has no symbols", cfg.List)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &WatchScheduler{
		src:    src,
		notify: notify,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}, nil
}

func (s *WatchScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.log.Warn().Msg("watch scheduler already running")
		return nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.cfg.Schedule, s.tick); err != nil {
		return fmt.Errorf("register watch job: %w", err)
	}
	c.Start()

	s.cron = c
	s.running = true
	s.log.Info().
		Str("schedule", s.cfg.Schedule).
		Str("list", s.cfg.List).
		Int("symbols", len(s.cfg.Symbols)).
		Msg("watch scheduler started")
	return nil
}

// Stop waits for an in-flight run to finish.
func (s *WatchScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	c := s.cron
	s.running = false
	s.cron = nil
	s.mu.Unlock()

	<-c.Stop().Done()
	s.log.Info().Msg("watch scheduler stopped")
}

func (s *WatchScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *WatchScheduler) tick() {
	if s.cfg.BusinessDaysOnly && !calendar.IsBusinessDay(s.now()) {
		s.log.Debug().Msg("market closed, skipping watchlist run")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	if _, err := s.RunNow(ctx); err != nil {
		s.log.Error().Err(err).Str("list", s.cfg.List).Msg("watchlist run failed")
	}
}

// RunNow snapshots the watchlist immediately. Symbols are fetched one at a
// time and failures are skipped. It errors only when every symbol failed or
// the summary could not be delivered.
func (s *WatchScheduler) RunNow(ctx context.Context) (*WatchSummary, error) {
	start := time.Now()
	sum := &WatchSummary{List: s.cfg.List, Failed: make(map[string]error)}

	for _, sym := range s.cfg.Symbols {
		if ctx.Err() != nil {
			sum.Failed[sym] = ctx.Err()
			continue
		}
		snap, err := s.src.Snapshot(ctx, sym)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", sym).Msg("snapshot failed")
			sum.Failed[sym] = err
			continue
		}
		sum.Snapshots = append(sum.Snapshots, snap)
	}
	sum.Took = time.Since(start)

	s.log.Info().
		Str("list", sum.List).
		Int("ok", len(sum.Snapshots)).
		Int("failed", len(sum.Failed)).
		Dur("took", sum.Took).
		Msg("watchlist run complete")

	if len(sum.Snapshots) == 0 {
		return sum, fmt.Errorf("watchlist %q: all %d symbols failed", sum.List, len(sum.Failed))
	}
	if s.notify != nil {
		if err := s.notify.Send(ctx, sum.Message()); err != nil {
			return sum, fmt.Errorf("deliver watchlist summary: %w", err)
		}
	}
	return sum, nil
}

// Message renders the summary as a heading, a table and the failed symbols.
func (w *WatchSummary) Message() string {
	t := format.Table{Headers: []string{"symbol", "price", "chg", "ret %", "rsi", "stoch"}}
	for _, snap := range w.Snapshots {
		t.Rows = append(t.Rows, []string{
			snap.Symbol,
			format.Fixed(snap.Price, 2),
			format.Fixed(snap.Chg, 2),
			format.Fixed(snap.Ret, 2),
			format.Fixed(snap.RSI, 2),
			format.Fixed(snap.Stochastic, 2),
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "watchlist %s: %d symbols\n", w.List, len(w.Snapshots))
	b.WriteString(t.Render())
	if len(w.Failed) > 0 {
		failed := make([]string, 0, len(w.Failed))
		for sym := range w.Failed {
			failed = append(failed, sym)
		}
		sort.Strings(failed)
		fmt.Fprintf(&b, "\nfailed: %s", strings.Join(failed, ", "))
	}
	return b.String()
}
