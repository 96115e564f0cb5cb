package research

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kjannette/fmp-backend/internal/analytics"
	"github.com/kjannette/fmp-backend/internal/calendar"
	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/models"
)

// ErrNotFound is returned when FMP has no data for the requested symbol.
var ErrNotFound = errors.New("no data for symbol")

// Service composes FMP fetches with the derived metrics in analytics.
type Service struct {
	fmp *external.FMPClient
	log zerolog.Logger
	now func() time.Time
}

func NewService(fmp *external.FMPClient, log zerolog.Logger) *Service {
	return &Service{fmp: fmp, log: log, now: time.Now}
}

// Quote returns the live price with its change from the latest close.
func (s *Service) Quote(ctx context.Context, sym string) (*models.PriceChange, error) {
	q, err := s.fmp.QuoteShort(ctx, sym)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%s: %w", sym, ErrNotFound)
	}

	bars, err := s.fmp.LastCloses(ctx, sym, 2)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: no previous close: %w", sym, ErrNotFound)
	}

	pc := analytics.PriceChange(q.Symbol, q.Price, bars[len(bars)-1].Close)
	return &pc, nil
}

// Snapshot is the watchlist view of a symbol: live change plus RSI(3) and
// the 8/3 stochastic.
func (s *Service) Snapshot(ctx context.Context, sym string) (models.WatchSnapshot, error) {
	q, err := s.Quote(ctx, sym)
	if err != nil {
		return models.WatchSnapshot{}, err
	}
	rsi, err := s.RSI(ctx, sym, analytics.DefaultRSIPeriods)
	if err != nil {
		return models.WatchSnapshot{}, err
	}
	stoch, err := s.Stochastic(ctx, sym, analytics.DefaultStochasticLength, analytics.DefaultStochasticSmooth)
	if err != nil {
		return models.WatchSnapshot{}, err
	}
	return models.WatchSnapshot{
		Symbol:     sym,
		Price:      q.Price,
		Chg:        q.Chg,
		Ret:        q.Ret,
		RSI:        rsi,
		Stochastic: stoch,
	}, nil
}

// ActiveStatus checks each symbol's profile for isActivelyTrading.
func (s *Service) ActiveStatus(ctx context.Context, syms []string) ([]models.ActiveStatus, error) {
	out := make([]models.ActiveStatus, 0, len(syms))
	for _, sym := range syms {
		p, err := s.fmp.Profile(ctx, sym)
		if err != nil {
			return nil, err
		}
		st := models.ActiveStatus{Symbol: sym}
		if active, ok := p["isActivelyTrading"].(bool); ok {
			st.Known = true
			st.Active = active
		}
		if !st.Active {
			s.log.Info().Str("symbol", sym).Bool("known", st.Known).Msg("symbol not actively trading")
		}
		out = append(out, st)
	}
	return out, nil
}

// since returns the business day d sessions back from today.
func (s *Service) since(d int) (time.Time, error) {
	return calendar.BusinessDaysBack(d, s.now())
}
