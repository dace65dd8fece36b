package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"bandtester/types"
)

var ErrBadCandleRow = errors.New("malformed candle row")

// LoadCandlesCSVFile reads candles from a CSV file with the columns
// timestamp,open,high,low,close,volume. Timestamps are unix seconds,
// unix milliseconds, or RFC3339. A header row is skipped if present.
func LoadCandlesCSVFile(path, ticker string) ([]types.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles file: %w", err)
	}
	defer f.Close()

	return loadCandlesCSV(f, ticker)
}

func loadCandlesCSV(r io.Reader, ticker string) ([]types.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6

	var candles []types.Candle
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candles csv: %w", err)
		}
		line++
		if line == 1 && record[0] == "timestamp" {
			continue
		}

		ts, err := parseTimestamp(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadCandleRow, line, err)
		}
		fields := make([]float64, 5)
		for i := 0; i < 5; i++ {
			fields[i], err = strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadCandleRow, line, err)
			}
		}
		candles = append(candles, types.Candle{
			Ticker:    ticker,
			Open:      fields[0],
			High:      fields[1],
			Low:       fields[2],
			Close:     fields[3],
			Volume:    fields[4],
			Timestamp: ts,
		})
	}
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return candles, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// Heuristic: values this large are milliseconds.
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
