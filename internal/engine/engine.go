package engine

import (
	"context"
	"time"

	"bandtester/types"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

type candleStore interface {
	GetAssetByTicker(ticker string, ctx context.Context) (*types.Asset, error)
	GetCandles(assetId int, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Candle, error)
}

// Feed addresses the candle series a backtest runs over.
type Feed struct {
	Ticker   string
	Interval types.Interval
	Start    time.Time
	End      time.Time
}

// Engine wires a candle store to the backtester: it loads the feed,
// drives the run loop, and stamps the result with the asset identity.
type Engine struct {
	feed   Feed
	params Params
	db     candleStore
	log    *zap.Logger
}

func NewEngine(feed Feed, params Params, db candleStore, log *zap.Logger) *Engine {
	return &Engine{
		feed:   feed,
		params: params,
		db:     db,
		log:    log,
	}
}

func (e *Engine) Run(ctx context.Context) (types.BacktestResult, error) {
	// Reject bad parameters before touching the datasource.
	if err := e.params.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	asset, err := e.db.GetAssetByTicker(e.feed.Ticker, ctx)
	if err != nil {
		return types.BacktestResult{}, err
	}
	candles, err := e.db.GetCandles(asset.Id, e.feed.Interval, e.feed.Start, e.feed.End, ctx)
	if err != nil {
		return types.BacktestResult{}, err
	}
	e.log.Info("candles loaded",
		zap.String("ticker", e.feed.Ticker),
		zap.String("interval", string(e.feed.Interval)),
		zap.Int("candles", len(candles)),
	)

	bt, err := newBacktester(e.params)
	if err != nil {
		return types.BacktestResult{}, err
	}
	bar := initProgressBar(len(candles))
	for _, candle := range candles {
		bt.step(candle)
		bar.Add(1)
	}

	result := bt.finish(candles)
	result.Symbol = asset.Ticker
	result.Exchange = asset.Exchange

	e.log.Info("backtest finished",
		zap.String("ticker", asset.Ticker),
		zap.Int("trades", len(result.Trades)),
		zap.Float64("total_profit", result.TotalProfit),
	)
	return result, nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
