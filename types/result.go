package types

// BacktestResult is the outcome of a single run: every closed trade in the
// order it was recorded, plus the sum of their signed profits.
type BacktestResult struct {
	Trades      []ClosedTrade `json:"trades"`
	TotalProfit float64       `json:"total_profit"`
	Symbol      string        `json:"symbol,omitempty"`
	Exchange    string        `json:"exchange,omitempty"`
}
