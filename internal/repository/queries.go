package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Row and parameter shapes for the hand-written queries below. Candle
// numerics come back as decimals; the conversion to the engine's floats
// happens one layer up.

type assetRow struct {
	ID         int32
	Ticker     string
	Name       string
	Exchange   string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

type aggregatesParams struct {
	TimeBucket string
	AssetID    int32
	Starttime  *time.Time
	Endtime    *time.Time
}

type aggregateRow struct {
	Bucket  *time.Time
	AssetID int32
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
	Volume  decimal.Decimal
}

const getAssetByTicker = `
SELECT id, ticker, name, exchange, type, created_at, modified_at
FROM assets
WHERE ticker = $1
`

const getAggregates = `
SELECT time_bucket($1::interval, ts) AS bucket,
       asset_id,
       first(open, ts)               AS open,
       max(high)                     AS high,
       min(low)                      AS low,
       last(close, ts)               AS close,
       sum(volume)                   AS volume
FROM candles
WHERE asset_id = $2
  AND ts >= $3
  AND ts < $4
GROUP BY bucket, asset_id
ORDER BY bucket
`

type queries struct {
	pool *pgxpool.Pool
}

func (q queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var row assetRow
	err := q.pool.QueryRow(ctx, getAssetByTicker, ticker).Scan(
		&row.ID,
		&row.Ticker,
		&row.Name,
		&row.Exchange,
		&row.Type,
		&row.CreatedAt,
		&row.ModifiedAt,
	)
	if err != nil {
		return assetRow{}, err
	}
	return row, nil
}

func (q queries) GetAggregates(ctx context.Context, arg aggregatesParams) ([]aggregateRow, error) {
	rows, err := q.pool.Query(ctx, getAggregates, arg.TimeBucket, arg.AssetID, arg.Starttime, arg.Endtime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []aggregateRow
	for rows.Next() {
		var row aggregateRow
		if err := rows.Scan(
			&row.Bucket,
			&row.AssetID,
			&row.Open,
			&row.High,
			&row.Low,
			&row.Close,
			&row.Volume,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, pgx.ErrNoRows
	}
	return out, nil
}
