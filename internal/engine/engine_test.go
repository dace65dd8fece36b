package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"bandtester/types"

	"go.uber.org/zap"
)

var errStoreDown = errors.New("datasource unavailable")

type mockStore struct {
	asset     *types.Asset
	candles   []types.Candle
	assetErr  error
	candleErr error

	assetCalls  int
	candleCalls int
}

func (m *mockStore) GetAssetByTicker(ticker string, ctx context.Context) (*types.Asset, error) {
	m.assetCalls++
	if m.assetErr != nil {
		return nil, m.assetErr
	}
	return m.asset, nil
}

func (m *mockStore) GetCandles(assetId int, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Candle, error) {
	m.candleCalls++
	if m.candleErr != nil {
		return nil, m.candleErr
	}
	return m.candles, nil
}

func testFeed() Feed {
	return Feed{
		Ticker:   "AAPL",
		Interval: types.OneMinute,
		Start:    time.UnixMilli(0),
		End:      time.UnixMilli(0).Add(time.Hour),
	}
}

func TestEngineRun(t *testing.T) {
	store := &mockStore{
		asset:   &types.Asset{Id: 1, Ticker: "AAPL", Exchange: "NASDAQ"},
		candles: candlesFromCloses(10, 10, 10, 10, 10, 10, 20, 10),
	}
	eng := NewEngine(testFeed(), testParams(3), store, zap.NewNop())

	result, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Symbol != "AAPL" || result.Exchange != "NASDAQ" {
		t.Errorf("result identity = %s/%s, want AAPL/NASDAQ", result.Symbol, result.Exchange)
	}
	if len(result.Trades) != 1 || result.TotalProfit != 10.0 {
		t.Errorf("result = %+v, want one trade with total profit 10", result)
	}
}

func TestEngineRun_StoreErrors(t *testing.T) {
	tests := []struct {
		name  string
		store *mockStore
	}{
		{"asset lookup fails", &mockStore{assetErr: errStoreDown}},
		{
			"candle lookup fails",
			&mockStore{asset: &types.Asset{Id: 1, Ticker: "AAPL"}, candleErr: errStoreDown},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewEngine(testFeed(), testParams(3), tt.store, zap.NewNop())
			_, err := eng.Run(context.Background())
			if !errors.Is(err, errStoreDown) {
				t.Errorf("Run() error = %v, want %v", err, errStoreDown)
			}
		})
	}
}

func TestEngineRun_InvalidParamsBeforeLoad(t *testing.T) {
	store := &mockStore{asset: &types.Asset{Id: 1, Ticker: "AAPL"}}
	params := DefaultParams()
	params.Period = 0

	eng := NewEngine(testFeed(), params, store, zap.NewNop())
	_, err := eng.Run(context.Background())
	if !errors.Is(err, ErrPeriodOutOfRange) {
		t.Fatalf("Run() error = %v, want %v", err, ErrPeriodOutOfRange)
	}
	if store.assetCalls != 0 || store.candleCalls != 0 {
		t.Errorf("datasource touched before parameter validation: %d/%d calls", store.assetCalls, store.candleCalls)
	}
}
