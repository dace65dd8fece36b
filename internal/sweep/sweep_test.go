package sweep

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"bandtester/internal/engine"
	"bandtester/types"

	"go.uber.org/zap"
)

func sweepCandles() []types.Candle {
	closes := []float64{10, 10, 10, 10, 10, 10, 20, 10, 10, 10, 9, 10, 11, 10}
	candles := make([]types.Candle, 0, len(closes))
	for i, close := range closes {
		candles = append(candles, types.Candle{
			Close:     close,
			Timestamp: time.UnixMilli(0).Add(time.Duration(i) * time.Minute),
		})
	}
	return candles
}

func baseParams() engine.Params {
	p := engine.DefaultParams()
	p.Period = 3
	return p
}

func TestRunnerRun_MatchesSequentialRuns(t *testing.T) {
	grid := Grid{
		Periods:     []int{3, 5},
		Multipliers: []float64{1.0, 2.0},
	}
	runner := NewRunner(4, zap.NewNop())

	results, err := runner.Run(context.Background(), sweepCandles(), baseParams(), grid)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	wantOrder := []struct {
		period     int
		multiplier float64
	}{{3, 1.0}, {3, 2.0}, {5, 1.0}, {5, 2.0}}
	for i, res := range results {
		if res.Params.Period != wantOrder[i].period || res.Params.Multiplier != wantOrder[i].multiplier {
			t.Errorf("result %d params = %+v, want period %d multiplier %v",
				i, res.Params, wantOrder[i].period, wantOrder[i].multiplier)
		}
		sequential, err := engine.Run(sweepCandles(), res.Params)
		if err != nil {
			t.Fatalf("sequential Run() error = %v", err)
		}
		if !reflect.DeepEqual(res.Result, sequential) {
			t.Errorf("result %d differs from a sequential run:\n%+v\n%+v", i, res.Result, sequential)
		}
	}
}

func TestRunnerRun_EmptyGridRunsBaseParams(t *testing.T) {
	runner := NewRunner(1, zap.NewNop())

	results, err := runner.Run(context.Background(), sweepCandles(), baseParams(), Grid{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Params != baseParams() {
		t.Errorf("params = %+v, want base %+v", results[0].Params, baseParams())
	}
}

func TestRunnerRun_InvalidCombinationFailsFast(t *testing.T) {
	grid := Grid{Periods: []int{3, 500}}
	runner := NewRunner(2, zap.NewNop())

	_, err := runner.Run(context.Background(), sweepCandles(), baseParams(), grid)
	if !errors.Is(err, engine.ErrPeriodOutOfRange) {
		t.Errorf("Run() error = %v, want %v", err, engine.ErrPeriodOutOfRange)
	}
}

func TestBest(t *testing.T) {
	if _, ok := Best(nil); ok {
		t.Error("Best(nil) reported a result")
	}

	results := []Result{
		{Params: engine.Params{Period: 3}, Result: types.BacktestResult{TotalProfit: 1}},
		{Params: engine.Params{Period: 5}, Result: types.BacktestResult{TotalProfit: 7}},
		{Params: engine.Params{Period: 8}, Result: types.BacktestResult{TotalProfit: 7}},
		{Params: engine.Params{Period: 13}, Result: types.BacktestResult{TotalProfit: -2}},
	}
	best, ok := Best(results)
	if !ok {
		t.Fatal("Best() found nothing")
	}
	// Ties keep the earlier combination.
	if best.Params.Period != 5 {
		t.Errorf("Best() period = %d, want 5", best.Params.Period)
	}
}
