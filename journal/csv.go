// journal/csv.go
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/discipline/ledger"
)

var csvHeader = []string{
	"trade_id", "symbol", "side", "entry_price", "exit_price", "size", "leverage",
	"stop_loss", "take_profit", "entry_time", "exit_time", "status", "pnl", "risk_reward", "mode",
}

// ReadTradesCSV loads a trade ledger from a CSV file. Empty cells map to nil
// optional fields, so partially populated exports round-trip cleanly.
func ReadTradesCSV(path string) ([]ledger.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trades csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trades csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var out []ledger.Trade
	for i, row := range rows[1:] {
		t, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("trades csv row %d: %w", i+2, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// WriteTradesCSV exports a ledger to CSV using the same column layout
// ReadTradesCSV expects.
func WriteTradesCSV(path string, trades []ledger.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			t.ID,
			t.Symbol,
			string(t.Side),
			f64(t.EntryPrice),
			optF64(t.ExitPrice),
			f64(t.Size),
			optF64(t.Leverage),
			optF64(t.StopLoss),
			optF64(t.TakeProfit),
			t.EntryTime.Format(time.RFC3339),
			optTime(t.ExitTime),
			string(t.Status),
			optF64(t.PnL),
			optF64(t.RiskReward),
			string(t.Mode),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func parseRow(row []string) (ledger.Trade, error) {
	if len(row) != len(csvHeader) {
		return ledger.Trade{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}

	var t ledger.Trade
	var err error

	t.ID = row[0]
	t.Symbol = row[1]
	t.Side = ledger.Side(row[2])

	if t.EntryPrice, err = strconv.ParseFloat(row[3], 64); err != nil {
		return ledger.Trade{}, fmt.Errorf("entry_price: %w", err)
	}
	if t.ExitPrice, err = parseOptFloat(row[4]); err != nil {
		return ledger.Trade{}, fmt.Errorf("exit_price: %w", err)
	}
	if t.Size, err = strconv.ParseFloat(row[5], 64); err != nil {
		return ledger.Trade{}, fmt.Errorf("size: %w", err)
	}
	if t.Leverage, err = parseOptFloat(row[6]); err != nil {
		return ledger.Trade{}, fmt.Errorf("leverage: %w", err)
	}
	if t.StopLoss, err = parseOptFloat(row[7]); err != nil {
		return ledger.Trade{}, fmt.Errorf("stop_loss: %w", err)
	}
	if t.TakeProfit, err = parseOptFloat(row[8]); err != nil {
		return ledger.Trade{}, fmt.Errorf("take_profit: %w", err)
	}
	if t.EntryTime, err = time.Parse(time.RFC3339, row[9]); err != nil {
		return ledger.Trade{}, fmt.Errorf("entry_time: %w", err)
	}
	if t.ExitTime, err = parseOptTime(row[10]); err != nil {
		return ledger.Trade{}, fmt.Errorf("exit_time: %w", err)
	}

	t.Status = ledger.TradeStatus(row[11])

	if t.PnL, err = parseOptFloat(row[12]); err != nil {
		return ledger.Trade{}, fmt.Errorf("pnl: %w", err)
	}
	if t.RiskReward, err = parseOptFloat(row[13]); err != nil {
		return ledger.Trade{}, fmt.Errorf("risk_reward: %w", err)
	}

	t.Mode = ledger.AccountMode(row[14])
	return t, nil
}

func f64(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func optF64(p *float64) string {
	if p == nil {
		return ""
	}
	return f64(*p)
}

func optTime(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format(time.RFC3339)
}

func parseOptFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
