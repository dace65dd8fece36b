// Package sweep runs one backtest per parameter combination. Every
// combination gets its own engine and indicator instance, so runs share
// nothing mutable and can execute in parallel.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"bandtester/internal/engine"
	"bandtester/types"

	"go.uber.org/zap"
)

// Grid lists the values to combine. Empty dimensions fall back to the
// base parameter's value.
type Grid struct {
	Periods     []int
	Multipliers []float64
	StopLosses  []float64
	TakeProfits []float64
}

// Result pairs one combination with its backtest outcome.
type Result struct {
	Params engine.Params
	Result types.BacktestResult
}

type Runner struct {
	workers int
	log     *zap.Logger
}

func NewRunner(workers int, log *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{workers: workers, log: log}
}

// Run backtests every combination of grid over candles. Results come back
// in grid order regardless of which worker finished first. Any invalid
// combination fails the whole sweep before a single candle is processed.
func (r *Runner) Run(ctx context.Context, candles []types.Candle, base engine.Params, grid Grid) ([]Result, error) {
	combos := expand(base, grid)
	for _, p := range combos {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("sweep combination %+v: %w", p, err)
		}
	}
	r.log.Info("starting parameter sweep",
		zap.Int("combinations", len(combos)),
		zap.Int("workers", r.workers),
		zap.Int("candles", len(candles)),
	)

	results := make([]Result, len(combos))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := engine.Run(candles, combos[i])
				if err != nil {
					// Combinations were validated up front; anything
					// here is a defect.
					panic(err)
				}
				results[i] = Result{Params: combos[i], Result: res}
			}
		}()
	}

	for i := range combos {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

// Best returns the result with the highest total profit, or false when
// the sweep was empty. Ties keep the earlier combination.
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	best := results[0]
	for _, res := range results[1:] {
		if res.Result.TotalProfit > best.Result.TotalProfit {
			best = res
		}
	}
	return best, true
}

func expand(base engine.Params, grid Grid) []engine.Params {
	periods := grid.Periods
	if len(periods) == 0 {
		periods = []int{base.Period}
	}
	multipliers := grid.Multipliers
	if len(multipliers) == 0 {
		multipliers = []float64{base.Multiplier}
	}
	stopLosses := grid.StopLosses
	if len(stopLosses) == 0 {
		stopLosses = []float64{base.StopLoss}
	}
	takeProfits := grid.TakeProfits
	if len(takeProfits) == 0 {
		takeProfits = []float64{base.TakeProfit}
	}

	var combos []engine.Params
	for _, period := range periods {
		for _, multiplier := range multipliers {
			for _, sl := range stopLosses {
				for _, tp := range takeProfits {
					p := base
					p.Period = period
					p.Multiplier = multiplier
					p.StopLoss = sl
					p.TakeProfit = tp
					combos = append(combos, p)
				}
			}
		}
	}
	return combos
}
