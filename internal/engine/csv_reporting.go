package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"bandtester/types"
)

// WriteTradesCSVFile writes closed trades to a CSV file at the given path.
func WriteTradesCSVFile(path string, trades []types.ClosedTrade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades file: %w", err)
	}
	defer f.Close()

	return writeTradesCSV(f, trades)
}

// writeTradesCSV writes trades to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or a file.
func writeTradesCSV(w io.Writer, trades []types.ClosedTrade) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"trade_id",
		"side",
		"open_price",
		"close_price",
		"amount",
		"profit",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, t := range trades {
		record := []string{
			strconv.Itoa(i),
			string(t.Side),
			strconv.FormatFloat(t.OpenPrice, 'f', -1, 64),
			strconv.FormatFloat(t.ClosePrice, 'f', -1, 64),
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			strconv.FormatFloat(t.Profit(), 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	// Check for any error from the csv.Writer
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}
