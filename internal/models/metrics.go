package models

// ShareholderYieldRow is one quarter of trailing-four-quarter capital returns.
type ShareholderYieldRow struct {
	Date                   string  `json:"date"`
	CommonStockIssued      float64 `json:"commonStockIssued"`
	CommonStockRepurchased float64 `json:"commonStockRepurchased"`
	DividendsPaid          float64 `json:"dividendsPaid"`
	MktCap                 float64 `json:"mktCap"`
	DivYield               float64 `json:"divYield"`
	BBYield                float64 `json:"bbYield"`
	SHYield                float64 `json:"shYield"`
}

const (
	Peak   = 1
	Valley = -1
)

// Pivot is a confirmed swing high (Peak) or low (Valley).
type Pivot struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
	Kind  int     `json:"kind"`
	Label string  `json:"label"`
	Dur   int     `json:"dur"`
	Chg   float64 `json:"chg"`
	Ave   float64 `json:"ave"`
	HV    float64 `json:"hv"`
}

type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
	RSquared  float64 `json:"rSquared"`
	P         float64 `json:"p"`
	StdErr    float64 `json:"stdErr"`
	N         int     `json:"n"`
}

// WatchSnapshot is one watchlist row: live change plus short-term oscillators.
type WatchSnapshot struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Chg        float64 `json:"chg"`
	Ret        float64 `json:"ret"`
	RSI        float64 `json:"rsi"`
	Stochastic float64 `json:"stochastic"`
}

// MergerArbRow prices a stock-plus-cash deal on one date. Arb is nil when
// the target close is zero and the spread is asked for in percent.
type MergerArbRow struct {
	Date     string   `json:"date"`
	Acquirer float64  `json:"acquirer"`
	Target   float64  `json:"target"`
	Arb      *float64 `json:"arb"`
}

// CorrelationMatrix is symmetric, indexed by Symbols on both axes. Pairs
// involving a flat series are nil.
type CorrelationMatrix struct {
	Symbols []string     `json:"symbols"`
	Matrix  [][]*float64 `json:"matrix"`
	N       int          `json:"n"`
}
