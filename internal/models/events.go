package models

type Dividend struct {
	Date            string  `json:"date"`
	Label           string  `json:"label"`
	AdjDividend     float64 `json:"adjDividend"`
	Dividend        float64 `json:"dividend"`
	RecordDate      string  `json:"recordDate"`
	PaymentDate     string  `json:"paymentDate"`
	DeclarationDate string  `json:"declarationDate"`
}

// DividendYield is a dividend event enriched with trailing and current yield.
// Close and the yields are nil when there was no close on the ex-date.
type DividendYield struct {
	ExDate          string   `json:"exDate"`
	Dividend        float64  `json:"dividend"`
	AdjDividend     float64  `json:"adjDividend"`
	RecordDate      string   `json:"recordDate"`
	PaymentDate     string   `json:"paymentDate"`
	DeclarationDate string   `json:"declarationDate"`
	Trail           float64  `json:"trail"`
	Close           *float64 `json:"close"`
	TrailYield      *float64 `json:"trailYield"`
	CurYield        *float64 `json:"curYield"`
}

// EarningsEvent is a past or scheduled report. Future events have nil actuals.
type EarningsEvent struct {
	Date             string   `json:"date"`
	Symbol           string   `json:"symbol"`
	EPS              *float64 `json:"eps"`
	EPSEstimated     *float64 `json:"epsEstimated"`
	Time             string   `json:"time"`
	Revenue          *float64 `json:"revenue"`
	RevenueEstimated *float64 `json:"revenueEstimated"`
	FiscalDateEnding string   `json:"fiscalDateEnding"`
	UpdatedFromDate  string   `json:"updatedFromDate"`
}

type NewsItem struct {
	Symbol        string `json:"symbol"`
	PublishedDate string `json:"publishedDate"`
	Title         string `json:"title"`
	Image         string `json:"image"`
	Site          string `json:"site"`
	Text          string `json:"text"`
	URL           string `json:"url"`
}

type Filing struct {
	Symbol       string `json:"symbol"`
	FillingDate  string `json:"fillingDate"`
	AcceptedDate string `json:"acceptedDate"`
	CIK          string `json:"cik"`
	Type         string `json:"type"`
	Link         string `json:"link"`
	FinalLink    string `json:"finalLink"`
}
