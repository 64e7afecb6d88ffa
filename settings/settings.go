// Package settings holds the trader's account configuration and rule limits.
// The engine borrows a read-only snapshot per evaluation; the only field it
// ever hands back changed is the lockout state.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DrawdownMode selects how the engine responds when drawdown reaches the
// configured maximum.
type DrawdownMode string

const (
	DrawdownWarn         DrawdownMode = "warn"
	DrawdownPartialBlock DrawdownMode = "partial-block"
	DrawdownHardStop     DrawdownMode = "hard-stop"
)

// Settings is the complete configuration snapshot the engine evaluates
// against. Nil pointer fields mean "not configured": the matching rule is
// never evaluated and never restricts trading.
type Settings struct {
	AccountSize    float64 `json:"account_size" yaml:"account_size"`
	Currency       string  `json:"currency" yaml:"currency"`
	DefaultRiskPct float64 `json:"default_risk_pct" yaml:"default_risk_pct"`

	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	// CurrentCapital pins capital manually. When nil, capital is derived from
	// InitialCapital plus realized PnL.
	CurrentCapital *float64 `json:"current_capital,omitempty" yaml:"current_capital,omitempty"`

	Rules   RuleConfig `json:"rules" yaml:"rules"`
	Risk    RiskConfig `json:"risk" yaml:"risk"`
	Lockout Lockout    `json:"lockout" yaml:"lockout"`
}

// RuleConfig carries the per-trade and per-ledger trading rules. Every field
// is optional; nil means unlimited.
type RuleConfig struct {
	MaxTradesPerDay  *int        `json:"max_trades_per_day,omitempty" yaml:"max_trades_per_day,omitempty"`
	MaxTradesPerWeek *int        `json:"max_trades_per_week,omitempty" yaml:"max_trades_per_week,omitempty"`
	TradingHours     *HourWindow `json:"trading_hours,omitempty" yaml:"trading_hours,omitempty"`
	MaxLotSize       *float64    `json:"max_lot_size,omitempty" yaml:"max_lot_size,omitempty"`
	// DailyProfitTarget is informational only. Missing a target is never a
	// violation and never blocks.
	DailyProfitTarget *float64 `json:"daily_profit_target,omitempty" yaml:"daily_profit_target,omitempty"`
	DailyLossLimitPct *float64 `json:"daily_loss_limit_pct,omitempty" yaml:"daily_loss_limit_pct,omitempty"`
}

// HourWindow is a permissive daily trading window [Start, End) in local
// hours. Entries outside the window break the trading-hours rule.
type HourWindow struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Contains reports whether the instant's hour falls inside the window.
// A window that wraps midnight (End <= Start) covers [Start, 24) plus
// [0, End).
func (w HourWindow) Contains(at time.Time) bool {
	h := at.Hour()
	if w.Start == w.End {
		return false
	}
	if w.Start < w.End {
		return h >= w.Start && h < w.End
	}
	return h >= w.Start || h < w.End
}

// RiskConfig carries quantitative risk limits.
type RiskConfig struct {
	MaxRiskPerTradePct *float64 `json:"max_risk_per_trade_pct,omitempty" yaml:"max_risk_per_trade_pct,omitempty"`
	MaxRiskPerDayPct   *float64 `json:"max_risk_per_day_pct,omitempty" yaml:"max_risk_per_day_pct,omitempty"`
	MaxRiskPerWeekPct  *float64 `json:"max_risk_per_week_pct,omitempty" yaml:"max_risk_per_week_pct,omitempty"`
	MaxDrawdownPct     *float64 `json:"max_drawdown_pct,omitempty" yaml:"max_drawdown_pct,omitempty"`

	DrawdownMode DrawdownMode `json:"drawdown_mode" yaml:"drawdown_mode"`

	// GoodTradeRR is the risk/reward ratio at or above which a clean trade is
	// classified as a model trade.
	GoodTradeRR float64 `json:"good_trade_rr" yaml:"good_trade_rr"`

	// RiskWindow bounds the trailing window (number of most recent trades)
	// used for the average risk-per-trade metric. 0 means all-time.
	RiskWindow int `json:"risk_window" yaml:"risk_window"`
}

// Lockout is the ultra-disciplined mode state. BlockedUntil is the single
// mutable field the engine reasons about; it is persisted by the journal,
// never written by the engine itself.
type Lockout struct {
	Enabled          bool       `json:"enabled" yaml:"enabled"`
	BlockOnViolation bool       `json:"block_on_violation" yaml:"block_on_violation"`
	Duration         string     `json:"duration" yaml:"duration"` // e.g. "24h", "90m"
	BlockedUntil     *time.Time `json:"blocked_until,omitempty" yaml:"blocked_until,omitempty"`
}

// DefaultLockoutDuration applies when no duration is configured.
const DefaultLockoutDuration = 24 * time.Hour

// ParseDuration converts the configured lockout duration, falling back to
// DefaultLockoutDuration when unset.
func (l Lockout) ParseDuration() (time.Duration, error) {
	if l.Duration == "" {
		return DefaultLockoutDuration, nil
	}
	return time.ParseDuration(l.Duration)
}

// Capital resolves effective current capital: the pinned value when set,
// otherwise initial capital plus realized PnL. Never negative input handling
// is the caller's concern; derived capital can legitimately go below zero on
// a blown account.
func (s Settings) Capital(realizedPnL float64) float64 {
	if s.CurrentCapital != nil {
		return *s.CurrentCapital
	}
	return s.InitialCapital + realizedPnL
}

// LoadFromFile loads settings from a YAML or JSON file.
func LoadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		if jerr := json.Unmarshal(data, s); jerr != nil {
			return nil, fmt.Errorf("parse settings (tried YAML and JSON): %w", err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// SaveToFile writes settings to YAML (for .yaml/.yml paths) or indented JSON.
func (s *Settings) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Validate checks the settings once at the boundary so the engine can trust
// its inputs. Rule thresholds themselves are trusted as configured; a zero
// max drawdown, for example, is "always triggers", not an error.
func (s *Settings) Validate() error {
	if s.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if s.InitialCapital < 0 {
		return fmt.Errorf("initial_capital must not be negative")
	}
	if s.DefaultRiskPct < 0 || s.DefaultRiskPct > 100 {
		return fmt.Errorf("default_risk_pct must be between 0 and 100")
	}
	if w := s.Rules.TradingHours; w != nil {
		if w.Start < 0 || w.Start > 23 || w.End < 0 || w.End > 24 {
			return fmt.Errorf("trading_hours must use hours in 0..24")
		}
	}
	if s.Rules.MaxTradesPerDay != nil && *s.Rules.MaxTradesPerDay < 0 {
		return fmt.Errorf("max_trades_per_day must not be negative")
	}
	if s.Rules.MaxTradesPerWeek != nil && *s.Rules.MaxTradesPerWeek < 0 {
		return fmt.Errorf("max_trades_per_week must not be negative")
	}
	switch s.Risk.DrawdownMode {
	case DrawdownWarn, DrawdownPartialBlock, DrawdownHardStop:
	default:
		return fmt.Errorf("drawdown_mode must be 'warn', 'partial-block' or 'hard-stop'")
	}
	if d, err := s.Lockout.ParseDuration(); err != nil {
		return fmt.Errorf("lockout duration: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("lockout duration must be positive")
	}
	return nil
}

// Default returns settings with documented defaults: a $10,000 USD account,
// 1% default risk, all rule limits unconfigured, lockout disabled with a
// 24 hour duration.
func Default() *Settings {
	return &Settings{
		AccountSize:    10000,
		Currency:       "USD",
		DefaultRiskPct: 1,
		InitialCapital: 10000,
		Risk: RiskConfig{
			DrawdownMode: DrawdownWarn,
			GoodTradeRR:  2,
		},
		Lockout: Lockout{
			Duration: "24h",
		},
	}
}
