package engine

import (
	"bandtester/types"
)

// The engine always trades one unit. USDBalance is passed through for
// callers that scale position size downstream.
const fixedUnit = 1.0

// backtester drives the position state machine over a candle sequence.
// The open slot holds at most one position; a candle may close it and
// open a new one in the same step, never hold two.
type backtester struct {
	params Params
	bands  *RollingBands

	// band produced by the previous candle's push. Signals compare the
	// current close against the last fully-formed window, so a spike
	// cannot widen the band it is measured against.
	band      BandValue
	bandReady bool

	open   *types.OpenTrade
	trades []types.ClosedTrade
}

func newBacktester(params Params) (*backtester, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	bands, err := NewRollingBands(params.Period, params.Multiplier)
	if err != nil {
		return nil, err
	}
	return &backtester{params: params, bands: bands}, nil
}

// Run executes the band mean-reversion backtest over candles. It is a
// pure function of its inputs: the same candle sequence and parameters
// always produce a bit-identical result.
func Run(candles []types.Candle, params Params) (types.BacktestResult, error) {
	bt, err := newBacktester(params)
	if err != nil {
		return types.BacktestResult{}, err
	}
	for _, candle := range candles {
		bt.step(candle)
	}
	return bt.finish(candles), nil
}

// step feeds one candle through the state machine, then through the
// indicator so the next candle sees this one's window.
func (b *backtester) step(candle types.Candle) {
	if b.bandReady {
		b.evaluate(candle.Close, b.band)
	}
	b.band, b.bandReady = b.bands.Push(candle.Close)
}

// evaluate applies the per-candle transitions: exits first, then (if now
// flat) entries against the same close price.
func (b *backtester) evaluate(price float64, band BandValue) {
	if b.open != nil && b.shouldClose(price, band) {
		b.closeAt(price)
	}
	if b.open == nil {
		b.tryOpen(price, band)
	}
}

// shouldClose checks exit conditions in priority order: stop-loss, then
// take-profit, then a cross beyond the opposite band. First match wins.
func (b *backtester) shouldClose(price float64, band BandValue) bool {
	move := b.open.UnrealizedPct(price)
	switch {
	case move <= -b.params.StopLoss:
		return true
	case move >= b.params.TakeProfit:
		return true
	case b.open.Side == types.SideLong && price >= band.Upper:
		return true
	case b.open.Side == types.SideShort && price <= band.Lower:
		return true
	}
	return false
}

func (b *backtester) closeAt(price float64) {
	b.trades = append(b.trades, types.ClosedTrade{
		OpenPrice:  b.open.OpenPrice,
		ClosePrice: price,
		Amount:     b.open.Amount,
		Side:       b.open.Side,
	})
	b.open = nil
}

func (b *backtester) tryOpen(price float64, band BandValue) {
	switch {
	case price > band.Upper:
		b.open = &types.OpenTrade{OpenPrice: price, Amount: fixedUnit, Side: types.SideShort}
	case price < band.Lower:
		b.open = &types.OpenTrade{OpenPrice: price, Amount: fixedUnit, Side: types.SideLong}
	}
}

// finish force-closes any remaining position at the last close and
// assembles the result. TotalProfit is recomputed from the recorded
// trades rather than accumulated during the run.
func (b *backtester) finish(candles []types.Candle) types.BacktestResult {
	if b.open != nil {
		b.closeAt(candles[len(candles)-1].Close)
	}
	trades := b.trades
	if trades == nil {
		trades = []types.ClosedTrade{}
	}
	total := 0.0
	for _, t := range trades {
		total += t.Profit()
	}
	return types.BacktestResult{Trades: trades, TotalProfit: total}
}
