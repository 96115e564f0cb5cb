package models

// Holding13F is one line of an institutional 13F filing. Px and Bps are
// derived after fetch.
type Holding13F struct {
	Date         string  `json:"date"`
	AcceptedDate string  `json:"acceptedDate"`
	CIK          string  `json:"cik"`
	Cusip        string  `json:"cusip"`
	TickerCusip  string  `json:"tickercusip"`
	NameOfIssuer string  `json:"nameOfIssuer"`
	TitleOfClass string  `json:"titleOfClass"`
	Shares       float64 `json:"shares"`
	Value        float64 `json:"value"`
	Px           float64 `json:"px"`
	Bps          int     `json:"bps"`
}

type ETFHolding struct {
	Asset            string  `json:"asset"`
	Name             string  `json:"name"`
	ISIN             string  `json:"isin"`
	SharesNumber     float64 `json:"sharesNumber"`
	WeightPercentage float64 `json:"weightPercentage"`
	MarketValue      float64 `json:"marketValue"`
	Updated          string  `json:"updated"`
	Country          string  `json:"country"`
}
