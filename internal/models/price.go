package models

import "time"

// PriceBar is one OHLCV row from a daily or intraday chart.
// Date is "2006-01-02" for daily bars and "2006-01-02 15:04:05" for intraday.
type PriceBar struct {
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose,omitempty"`
	Volume   float64 `json:"volume"`
}

// Time parses Date in either daily or intraday layout.
func (b PriceBar) Time() (time.Time, error) {
	return ParseDate(b.Date)
}

type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// PriceChange is the live price against the previous close.
type PriceChange struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"prevClose"`
	Chg       float64 `json:"chg"`
	Ret       float64 `json:"ret"`
}

// Point is a dated scalar, the unit of every derived series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// ParseDate accepts the date layouts FMP returns.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(DateTimeLayout, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
	}
	return time.Parse(DateLayout, s)
}

// PriceTable holds one price field for several symbols on the dates they
// all traded. Row values follow Symbols order.
type PriceTable struct {
	Field   string     `json:"field"`
	Symbols []string   `json:"symbols"`
	Rows    []PriceRow `json:"rows"`
}

type PriceRow struct {
	Date   string    `json:"date"`
	Values []float64 `json:"values"`
}
