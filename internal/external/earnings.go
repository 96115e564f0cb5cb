package external

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/kjannette/fmp-backend/internal/models"
)

// EarningsHistory returns past and scheduled earnings for sym, oldest first.
// Scheduled reports have nil actuals.
func (c *FMPClient) EarningsHistory(ctx context.Context, sym string) ([]models.EarningsEvent, error) {
	var rows []models.EarningsEvent
	if err := c.get(ctx, "v3", "historical/earning_calendar/"+symbol(sym), nil, &rows); err != nil {
		return nil, err
	}
	sortEvents(rows)
	return rows, nil
}

// EarningsCalendar returns every report scheduled between from and to.
func (c *FMPClient) EarningsCalendar(ctx context.Context, from, to time.Time) ([]models.EarningsEvent, error) {
	q := url.Values{}
	q.Set("from", from.Format(models.DateLayout))
	q.Set("to", to.Format(models.DateLayout))

	var rows []models.EarningsEvent
	if err := c.get(ctx, "v3", "earning_calendar", q, &rows); err != nil {
		return nil, err
	}
	sortEvents(rows)
	return rows, nil
}

// AnalystEstimates returns consensus estimates, oldest first. period is
// "quarter" or "annual".
func (c *FMPClient) AnalystEstimates(ctx context.Context, sym, period string) ([]models.Record, error) {
	q := url.Values{}
	q.Set("period", statementPeriod(period))

	var rows []models.Record
	if err := c.get(ctx, "v3", "analyst-estimates/"+symbol(sym), q, &rows); err != nil {
		return nil, err
	}
	models.SortByDate(rows)
	return rows, nil
}

func sortEvents(rows []models.EarningsEvent) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
}
