package repository

import (
	"context"
	"errors"
	"time"

	"bandtester/types"

	"github.com/jackc/pgx/v5"
)

var bucketToInterval = map[types.Interval]string{
	types.OneMinute:      "1 minute",
	types.FiveMinutes:    "5 minutes",
	types.FifteenMinutes: "15 minutes",
	types.ThirtyMinutes:  "30 minutes",
	types.Hour:           "1 hour",
	types.FourHours:      "4 hours",
	types.Day:            "1 day",
	types.Week:           "1 week",
}

func (db *Database) GetCandles(assetId int, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Candle, error) {
	bucket, ok := bucketToInterval[interval]
	if !ok {
		return nil, ErrIntervalNotSupported
	}
	args := aggregatesParams{
		TimeBucket: bucket,
		AssetID:    int32(assetId),
		Starttime:  &start,
		Endtime:    &end,
	}
	candles, err := db.candles.GetAggregates(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCandles
		}
		return nil, err
	}
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return convertCandles(candles, interval), nil
}

// convertCandles maps decimal-typed rows onto the engine's float candles.
func convertCandles(rows []aggregateRow, interval types.Interval) []types.Candle {
	var candles []types.Candle
	for _, row := range rows {
		candle := types.Candle{
			AssetId:  int(row.AssetID),
			Open:     row.Open.InexactFloat64(),
			Close:    row.Close.InexactFloat64(),
			High:     row.High.InexactFloat64(),
			Low:      row.Low.InexactFloat64(),
			Volume:   row.Volume.InexactFloat64(),
			Interval: interval,
		}
		if row.Bucket != nil {
			candle.Timestamp = *row.Bucket
		}
		candles = append(candles, candle)
	}
	return candles
}
