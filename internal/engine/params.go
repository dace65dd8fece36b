package engine

import (
	"errors"
	"fmt"
)

// Valid ranges for backtest parameters. Anything outside these is a
// configuration error raised before the first candle is processed.
const (
	MinPeriod     = 2
	MaxPeriod     = 200
	MinMultiplier = 0.1
	MaxMultiplier = 5.0
	MinStopLoss   = 0.001
	MaxStopLoss   = 0.5
	MinTakeProfit = 0.001
	MaxTakeProfit = 1.0
	MinUSDBalance = 1.0
)

var (
	ErrPeriodOutOfRange     = errors.New("period out of range")
	ErrMultiplierOutOfRange = errors.New("multiplier out of range")
	ErrStopLossOutOfRange   = errors.New("stop loss out of range")
	ErrTakeProfitOutOfRange = errors.New("take profit out of range")
	ErrBalanceOutOfRange    = errors.New("usd balance out of range")
)

// Params configures a single backtest run. StopLoss and TakeProfit are
// fractions of the open price (0.02 = 2%). USDBalance is an informational
// sizing input carried through for callers; the engine itself trades a
// fixed unit.
type Params struct {
	Period     int     `json:"period"`
	Multiplier float64 `json:"multiplier"`
	StopLoss   float64 `json:"sl"`
	TakeProfit float64 `json:"tp"`
	USDBalance float64 `json:"usd_balance"`
}

func DefaultParams() Params {
	return Params{
		Period:     20,
		Multiplier: 2.0,
		StopLoss:   0.02,
		TakeProfit: 0.04,
		USDBalance: 1000.0,
	}
}

func (p Params) Validate() error {
	if p.Period < MinPeriod || p.Period > MaxPeriod {
		return fmt.Errorf("%w: got %d, want %d-%d", ErrPeriodOutOfRange, p.Period, MinPeriod, MaxPeriod)
	}
	if p.Multiplier < MinMultiplier || p.Multiplier > MaxMultiplier {
		return fmt.Errorf("%w: got %v, want %v-%v", ErrMultiplierOutOfRange, p.Multiplier, MinMultiplier, MaxMultiplier)
	}
	if p.StopLoss < MinStopLoss || p.StopLoss > MaxStopLoss {
		return fmt.Errorf("%w: got %v, want %v-%v", ErrStopLossOutOfRange, p.StopLoss, MinStopLoss, MaxStopLoss)
	}
	if p.TakeProfit < MinTakeProfit || p.TakeProfit > MaxTakeProfit {
		return fmt.Errorf("%w: got %v, want %v-%v", ErrTakeProfitOutOfRange, p.TakeProfit, MinTakeProfit, MaxTakeProfit)
	}
	if p.USDBalance < MinUSDBalance {
		return fmt.Errorf("%w: got %v, want >= %v", ErrBalanceOutOfRange, p.USDBalance, MinUSDBalance)
	}
	return nil
}
