package types

// OpenTrade is a live position. The engine owns at most one at any time.
type OpenTrade struct {
	OpenPrice float64 `json:"open_price"`
	Amount    float64 `json:"amount"`
	Side      Side    `json:"side"`
}

// UnrealizedPct returns the favorable move as a fraction of the open
// price: positive when the position is in profit, negative in loss.
func (t OpenTrade) UnrealizedPct(price float64) float64 {
	if t.Side == SideShort {
		return (t.OpenPrice - price) / t.OpenPrice
	}
	return (price - t.OpenPrice) / t.OpenPrice
}

// ClosedTrade is an OpenTrade converted with its close price. Immutable
// once recorded.
type ClosedTrade struct {
	OpenPrice  float64 `json:"open_price"`
	ClosePrice float64 `json:"close_price"`
	Amount     float64 `json:"amount"`
	Side       Side    `json:"side"`
}

// Profit returns the signed profit of the trade.
func (t ClosedTrade) Profit() float64 {
	if t.Side == SideShort {
		return (t.OpenPrice - t.ClosePrice) * t.Amount
	}
	return (t.ClosePrice - t.OpenPrice) * t.Amount
}
