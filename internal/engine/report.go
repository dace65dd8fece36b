package engine

import (
	"fmt"
	"io"
	"math"
	"sync"

	"bandtester/types"
)

// Report summarizes a run at the trade level. Everything derives from the
// ClosedTrade list; there is no equity curve in a fixed-unit backtest, so
// drawdown and time-based metrics are out of scope here.
type Report struct {
	TotalTrades int

	// Absolute performance
	NetProfit            float64
	NetAvgProfitPerTrade float64

	// Trade-level distribution metrics
	WinRate float64
	AvgWin  float64
	AvgLoss float64

	// Risk metrics
	ProfitFactor         float64
	MaxConsecutiveLosses int
}

func GenerateReport(result types.BacktestResult) *Report {
	trades := result.Trades

	report := &Report{}
	report.TotalTrades = len(trades)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		report.NetProfit, report.NetAvgProfitPerTrade = calcNetProfit(trades, &wg)
	}()
	go func() {
		report.WinRate, report.AvgWin, report.AvgLoss = calcWinLossMetrics(trades, &wg)
	}()
	go func() {
		report.ProfitFactor = calcProfitFactor(trades, &wg)
	}()
	go func() {
		report.MaxConsecutiveLosses = calcMaxConsecutiveLosses(trades, &wg)
	}()
	wg.Wait()

	return report
}

func PrintReport(w io.Writer, report *Report) {
	fmt.Fprintln(w, "===== Backtest Report =====")
	fmt.Fprintf(w, "Total Trades:          %d\n", report.TotalTrades)

	fmt.Fprintln(w, "\n-- Absolute Performance --")
	fmt.Fprintf(w, "Net Profit:            %.4f\n", report.NetProfit)
	fmt.Fprintf(w, "Avg Profit/Trade:      %.4f\n", report.NetAvgProfitPerTrade)

	fmt.Fprintln(w, "\n-- Trade-Level Metrics --")
	fmt.Fprintf(w, "Win Rate:              %.2f%%\n", report.WinRate*100)
	fmt.Fprintf(w, "Avg Win:               %.4f\n", report.AvgWin)
	fmt.Fprintf(w, "Avg Loss:              %.4f\n", report.AvgLoss)

	fmt.Fprintln(w, "\n-- Risk Metrics --")
	fmt.Fprintf(w, "Profit Factor:         %.2f\n", report.ProfitFactor)
	fmt.Fprintf(w, "Max Consecutive Losses:%d\n", report.MaxConsecutiveLosses)

	fmt.Fprintln(w, "===========================")
}

func calcNetProfit(trades []types.ClosedTrade, wg *sync.WaitGroup) (net, avg float64) {
	defer wg.Done()
	if len(trades) == 0 {
		return 0, 0
	}
	for _, t := range trades {
		net += t.Profit()
	}
	return net, net / float64(len(trades))
}

func calcWinLossMetrics(trades []types.ClosedTrade, wg *sync.WaitGroup) (winRate, avgWin, avgLoss float64) {
	defer wg.Done()
	if len(trades) == 0 {
		return 0, 0, 0
	}
	var wins, losses int
	var winSum, lossSum float64
	for _, t := range trades {
		p := t.Profit()
		if p > 0 {
			wins++
			winSum += p
		} else if p < 0 {
			losses++
			lossSum += p
		}
	}
	winRate = float64(wins) / float64(len(trades))
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}
	return winRate, avgWin, avgLoss
}

func calcProfitFactor(trades []types.ClosedTrade, wg *sync.WaitGroup) float64 {
	defer wg.Done()
	var grossWin, grossLoss float64
	for _, t := range trades {
		p := t.Profit()
		if p > 0 {
			grossWin += p
		} else {
			grossLoss -= p
		}
	}
	if grossLoss == 0 {
		if grossWin == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return grossWin / grossLoss
}

func calcMaxConsecutiveLosses(trades []types.ClosedTrade, wg *sync.WaitGroup) int {
	defer wg.Done()
	max, streak := 0, 0
	for _, t := range trades {
		if t.Profit() < 0 {
			streak++
			if streak > max {
				max = streak
			}
		} else {
			streak = 0
		}
	}
	return max
}
