package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bandtester/internal/engine"
	"bandtester/internal/repository"
	"bandtester/types"

	"go.uber.org/zap"
)

func main() {
	var (
		csvFile    = flag.String("csv", "", "Path to CSV file with OHLCV data (timestamp,open,high,low,close,volume)")
		dbURL      = flag.String("db", "", "Postgres URL to load candles from instead of a CSV file")
		ticker     = flag.String("ticker", "BTCUSDT", "Ticker to backtest")
		interval   = flag.String("interval", string(types.Hour), "Candle interval (db mode)")
		start      = flag.String("start", "", "Start of the backtest window, RFC3339 (db mode)")
		end        = flag.String("end", "", "End of the backtest window, RFC3339 (db mode)")
		period     = flag.Int("period", 20, "Moving average period")
		multiplier = flag.Float64("multiplier", 2.0, "Standard deviation multiplier for the bands")
		sl         = flag.Float64("sl", 0.02, "Stop loss fraction (0.02 = 2%)")
		tp         = flag.Float64("tp", 0.04, "Take profit fraction (0.04 = 4%)")
		balance    = flag.Float64("balance", 1000.0, "USD balance passed through to sizing layers")
		tradesOut  = flag.String("trades-out", "", "Optional CSV file to write closed trades to")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	params := engine.Params{
		Period:     *period,
		Multiplier: *multiplier,
		StopLoss:   *sl,
		TakeProfit: *tp,
		USDBalance: *balance,
	}
	if err := params.Validate(); err != nil {
		logger.Fatal("invalid parameters", zap.Error(err))
	}

	var result types.BacktestResult
	switch {
	case *csvFile != "":
		result = runFromCSV(logger, *csvFile, *ticker, params)
	case *dbURL != "":
		result = runFromDatabase(logger, *dbURL, *ticker, *interval, *start, *end, params)
	default:
		logger.Fatal("either -csv or -db is required")
	}

	fmt.Println()
	engine.PrintReport(os.Stdout, engine.GenerateReport(result))

	if *tradesOut != "" {
		if err := engine.WriteTradesCSVFile(*tradesOut, result.Trades); err != nil {
			logger.Fatal("write trades csv", zap.Error(err))
		}
		logger.Info("trades written", zap.String("path", *tradesOut), zap.Int("trades", len(result.Trades)))
	}
}

func runFromCSV(logger *zap.Logger, path, ticker string, params engine.Params) types.BacktestResult {
	candles, err := repository.LoadCandlesCSVFile(path, ticker)
	if err != nil {
		logger.Fatal("load candles", zap.String("path", path), zap.Error(err))
	}
	logger.Info("candles loaded", zap.String("path", path), zap.Int("candles", len(candles)))

	result, err := engine.Run(candles, params)
	if err != nil {
		logger.Fatal("backtest failed", zap.Error(err))
	}
	result.Symbol = ticker
	return result
}

func runFromDatabase(logger *zap.Logger, dbURL, ticker, interval, start, end string, params engine.Params) types.BacktestResult {
	parsedInterval, err := types.ParseInterval(interval)
	if err != nil {
		logger.Fatal("invalid interval", zap.Error(err))
	}
	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		logger.Fatal("invalid -start, want RFC3339", zap.Error(err))
	}
	endTime, err := time.Parse(time.RFC3339, end)
	if err != nil {
		logger.Fatal("invalid -end, want RFC3339", zap.Error(err))
	}

	db, err := repository.NewDatabase(dbURL)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	feed := engine.Feed{
		Ticker:   ticker,
		Interval: parsedInterval,
		Start:    startTime,
		End:      endTime,
	}
	result, err := engine.NewEngine(feed, params, &db, logger).Run(context.Background())
	if err != nil {
		logger.Fatal("backtest failed", zap.Error(err))
	}
	return result
}
