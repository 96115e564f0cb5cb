package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/research"
)

// Function types offered by the web form.
const (
	Intraday  = "Intraday Data"
	Profile   = "Company Profile"
	Search    = "Search Data"
	Earnings  = "Earnings Dates"
	Dividends = "Dividends"
)

// FunctionTypes lists the form's options in display order.
var FunctionTypes = []string{Intraday, Profile, Search, Earnings, Dividends}

var (
	// ErrNoData matches every empty-result error. The error text is the
	// message shown to the user.
	ErrNoData = errors.New("no data")

	ErrUnknownFunction = errors.New("unknown function type")
	ErrMissingSymbol   = errors.New("symbol is required")
)

type noDataError string

func (e noDataError) Error() string        { return string(e) }
func (e noDataError) Is(target error) bool { return target == ErrNoData }

const (
	noIntraday  noDataError = "No intraday data found for the given symbol."
	noProfile   noDataError = "No profile data found for the given symbol."
	noSearch    noDataError = "No search results found for the given term."
	noEarnings  noDataError = "No earnings data found for the given symbol."
	noDividends noDataError = "No dividend data found for the given symbol."
)

// Report is a rendered table plus the records it was built from.
type Report struct {
	Table       string `json:"data"`
	Rows        any    `json:"rows"`
	Description string `json:"description,omitempty"`
}

type Options struct {
	DefaultPeriod string
	SearchLimit   int
}

// Builder turns a form request into a Report.
type Builder struct {
	fmp      *external.FMPClient
	research *research.Service
	opts     Options
}

func NewBuilder(fmp *external.FMPClient, rs *research.Service, opts Options) *Builder {
	if opts.DefaultPeriod == "" {
		opts.DefaultPeriod = "30min"
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 1000
	}
	return &Builder{fmp: fmp, research: rs, opts: opts}
}

// Build dispatches on the function type. symbol is upper-cased; period only
// applies to intraday data and falls back to the default when empty.
func (b *Builder) Build(ctx context.Context, functionType, symbol, period string) (*Report, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrMissingSymbol
	}

	switch functionType {
	case Intraday:
		if period == "" {
			period = b.opts.DefaultPeriod
		}
		return b.Intraday(ctx, symbol, period)
	case Profile:
		return b.Profile(ctx, symbol)
	case Search:
		return b.Search(ctx, symbol)
	case Earnings:
		return b.Earnings(ctx, symbol)
	case Dividends:
		return b.Dividends(ctx, symbol)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, functionType)
	}
}
