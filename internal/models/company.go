package models

type SearchResult struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Currency          string `json:"currency"`
	StockExchange     string `json:"stockExchange"`
	ExchangeShortName string `json:"exchangeShortName"`
}

type Peer struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	MktCapM           float64 `json:"mktCapM"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	Country           string  `json:"country"`
	ExchangeShortName string  `json:"exchangeShortName"`
}

type ShareFloat struct {
	Symbol            string  `json:"symbol"`
	Date              string  `json:"date"`
	FloatShares       float64 `json:"floatShares"`
	OutstandingShares float64 `json:"outstandingShares"`
	FloatRatio        float64 `json:"floatRatio"`
}

type CIKMatch struct {
	CIK  string `json:"cik"`
	Name string `json:"name"`
}

// ActiveStatus reports whether FMP lists a symbol as actively trading.
// Known is false when the symbol has no profile at all.
type ActiveStatus struct {
	Symbol string `json:"symbol"`
	Active bool   `json:"active"`
	Known  bool   `json:"known"`
}
