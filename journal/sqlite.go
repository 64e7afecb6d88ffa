package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/pkg/id"
	"github.com/rustyeddy/discipline/settings"
)

// SQLite persists the ledger and lockout row in a single database file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t ledger.Trade) (ledger.Trade, error) {
	if t.ID == "" {
		t.ID = id.New()
	}

	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, side, entry_price, exit_price, size, leverage, stop_loss, take_profit,
		 entry_time, exit_time, status, pnl, risk_reward, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, string(t.Side), t.EntryPrice, nullFloat(t.ExitPrice), t.Size,
		nullFloat(t.Leverage), nullFloat(t.StopLoss), nullFloat(t.TakeProfit),
		t.EntryTime, nullTime(t.ExitTime), string(t.Status),
		nullFloat(t.PnL), nullFloat(t.RiskReward), string(t.Mode),
	)
	if err != nil {
		return ledger.Trade{}, fmt.Errorf("record trade: %w", err)
	}
	return t, nil
}

func (j *SQLite) ListTrades(mode ledger.AccountMode) ([]ledger.Trade, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, symbol, side, entry_price, exit_price, size, leverage, stop_loss, take_profit,
		       entry_time, exit_time, status, pnl, risk_reward, mode
		FROM trades
		WHERE mode = ?
		ORDER BY entry_time ASC`, string(mode))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Trade
	for rows.Next() {
		var t ledger.Trade
		var side, status, tmode string
		var exitPrice, leverage, stopLoss, takeProfit, pnl, riskReward sql.NullFloat64
		var exitTime sql.NullTime

		if err := rows.Scan(
			&t.ID, &t.Symbol, &side, &t.EntryPrice, &exitPrice, &t.Size,
			&leverage, &stopLoss, &takeProfit,
			&t.EntryTime, &exitTime, &status, &pnl, &riskReward, &tmode,
		); err != nil {
			return nil, err
		}

		t.Side = ledger.Side(side)
		t.Status = ledger.TradeStatus(status)
		t.Mode = ledger.AccountMode(tmode)
		t.ExitPrice = floatPtr(exitPrice)
		t.Leverage = floatPtr(leverage)
		t.StopLoss = floatPtr(stopLoss)
		t.TakeProfit = floatPtr(takeProfit)
		t.PnL = floatPtr(pnl)
		t.RiskReward = floatPtr(riskReward)
		t.ExitTime = timePtr(exitTime)

		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) LoadLockout() (settings.Lockout, time.Time, error) {
	var ls settings.Lockout
	var blockedUntil sql.NullTime
	var updatedAt time.Time

	row := j.db.QueryRow(`SELECT enabled, block_on_violation, duration, blocked_until, updated_at FROM lockout WHERE id = 1`)
	err := row.Scan(&ls.Enabled, &ls.BlockOnViolation, &ls.Duration, &blockedUntil, &updatedAt)
	if err == sql.ErrNoRows {
		return settings.Lockout{}, time.Time{}, nil
	}
	if err != nil {
		return settings.Lockout{}, time.Time{}, err
	}

	ls.BlockedUntil = timePtr(blockedUntil)
	return ls, updatedAt, nil
}

// SaveLockout writes the lockout row unless a newer write is already stored.
// Concurrent sessions resolve on the update timestamp, last writer wins.
func (j *SQLite) SaveLockout(ls settings.Lockout, updatedAt time.Time) error {
	_, stored, err := j.LoadLockout()
	if err != nil {
		return err
	}
	if updatedAt.Before(stored) {
		return nil
	}

	_, err = j.db.Exec(`
		INSERT INTO lockout (id, enabled, block_on_violation, duration, blocked_until, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled = excluded.enabled,
			block_on_violation = excluded.block_on_violation,
			duration = excluded.duration,
			blocked_until = excluded.blocked_until,
			updated_at = excluded.updated_at`,
		ls.Enabled, ls.BlockOnViolation, ls.Duration, nullTime(ls.BlockedUntil), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("save lockout: %w", err)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
