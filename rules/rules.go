// Package rules checks trades against the configured trading rules. A rule
// is only evaluated when its limit is configured; nil limits mean unlimited
// and produce no evaluated entry at all.
//
// Each rule kind ties one evaluator function to one severity in the table
// below, so adding a rule means adding one entry, not editing call sites.
package rules

import (
	"fmt"
	"time"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/risk"
	"github.com/rustyeddy/discipline/settings"
)

// Kind names a trading rule.
type Kind string

const (
	KindMaxTradesPerDay  Kind = "max_trades_per_day"
	KindMaxTradesPerWeek Kind = "max_trades_per_week"
	KindTradingHours     Kind = "trading_hours"
	KindMaxLotSize       Kind = "max_lot_size"
	KindDailyLossLimit   Kind = "daily_loss_limit"
	KindMaxRiskPerTrade  Kind = "max_risk_per_trade"
)

// Evaluated is one configured rule checked against one trade.
type Evaluated struct {
	Rule      Kind
	Severity  ledger.Severity
	Respected bool
	Message   string
	Expected  float64
	Actual    float64
}

// Violation converts a failed check into the ledger's violation record.
func (e Evaluated) Violation() ledger.Violation {
	return ledger.Violation{
		Rule:     string(e.Rule),
		Message:  e.Message,
		Severity: e.Severity,
		Expected: e.Expected,
		Actual:   e.Actual,
	}
}

// outcome is what a single evaluator reports. active=false means the rule's
// limit is not configured and the rule is skipped entirely.
type outcome struct {
	active    bool
	respected bool
	expected  float64
	actual    float64
	message   string
}

// ruleDef binds a kind to its severity and evaluator. Hard caps are
// critical; the per-trade risk ceiling is a discipline nudge and stays
// minor. Profit targets never appear here: missing a target is not a
// violation.
type ruleDef struct {
	kind     Kind
	severity ledger.Severity
	eval     func(t ledger.Trade, ctx tradeContext) outcome
}

// tradeContext is the ledger-wide state a per-trade evaluator may need.
type tradeContext struct {
	trades   []ledger.Trade
	settings settings.Settings
	capital  float64
}

var tradeRules = []ruleDef{
	{KindMaxTradesPerDay, ledger.SeverityCritical, evalMaxTradesPerDay},
	{KindMaxTradesPerWeek, ledger.SeverityCritical, evalMaxTradesPerWeek},
	{KindTradingHours, ledger.SeverityCritical, evalTradingHours},
	{KindMaxLotSize, ledger.SeverityCritical, evalMaxLotSize},
	{KindDailyLossLimit, ledger.SeverityCritical, evalDailyLossLimit},
	{KindMaxRiskPerTrade, ledger.SeverityMinor, evalMaxRiskPerTrade},
}

// EvaluateTrade checks one trade against every configured rule, using the
// full ledger of the same account mode for the count and loss caps. It
// returns all evaluated rules plus the subset that was broken.
func EvaluateTrade(t ledger.Trade, trades []ledger.Trade, s settings.Settings) ([]Evaluated, []ledger.Violation) {
	ctx := newTradeContext(trades, s)

	var evaluated []Evaluated
	var violations []ledger.Violation

	for _, def := range tradeRules {
		out := def.eval(t, ctx)
		if !out.active {
			continue
		}
		e := Evaluated{
			Rule:      def.kind,
			Severity:  def.severity,
			Respected: out.respected,
			Message:   out.message,
			Expected:  out.expected,
			Actual:    out.actual,
		}
		evaluated = append(evaluated, e)
		if !e.Respected {
			violations = append(violations, e.Violation())
		}
	}
	return evaluated, violations
}

// EvaluateLedger checks the "may the next trade happen" rules for the ledger
// as a whole: the count caps trigger once today's (or this week's) entries
// reach the cap, and the trading-hours rule triggers when now is outside the
// allowed window.
func EvaluateLedger(trades []ledger.Trade, s settings.Settings, now time.Time) []ledger.Violation {
	var out []ledger.Violation

	if limit := s.Rules.MaxTradesPerDay; limit != nil {
		n := len(ledger.EnteredOnDay(trades, now))
		if n >= *limit {
			out = append(out, ledger.Violation{
				Rule:     string(KindMaxTradesPerDay),
				Message:  fmt.Sprintf("daily trade cap reached: %d of %d trades taken today", n, *limit),
				Severity: ledger.SeverityCritical,
				Expected: float64(*limit),
				Actual:   float64(n),
			})
		}
	}

	if limit := s.Rules.MaxTradesPerWeek; limit != nil {
		n := len(ledger.EnteredInWeek(trades, now))
		if n >= *limit {
			out = append(out, ledger.Violation{
				Rule:     string(KindMaxTradesPerWeek),
				Message:  fmt.Sprintf("weekly trade cap reached: %d of %d trades taken this week", n, *limit),
				Severity: ledger.SeverityCritical,
				Expected: float64(*limit),
				Actual:   float64(n),
			})
		}
	}

	if w := s.Rules.TradingHours; w != nil && !w.Contains(now) {
		out = append(out, ledger.Violation{
			Rule:     string(KindTradingHours),
			Message:  fmt.Sprintf("outside allowed trading hours %02d:00-%02d:00", w.Start, w.End),
			Severity: ledger.SeverityCritical,
			Expected: float64(w.Start),
			Actual:   float64(now.Hour()),
		})
	}

	return out
}

// Annotate re-evaluates every trade and returns a fresh ledger with
// violations and classification attached. The input slice is never mutated.
func Annotate(trades []ledger.Trade, s settings.Settings) []ledger.Trade {
	out := make([]ledger.Trade, len(trades))
	for i, t := range trades {
		_, violations := EvaluateTrade(t, trades, s)
		t.Violations = violations
		t.Classification = Classify(t, violations, s.Risk.GoodTradeRR)
		out[i] = t
	}
	return out
}

// Classify tags a trade by the evaluation outcome: error on any critical
// violation, model on a clean trade whose risk/reward meets the good-trade
// bar, neutral otherwise. A clean trade with no risk/reward data stays
// neutral: absence of data is not evidence of quality.
func Classify(t ledger.Trade, violations []ledger.Violation, goodRR float64) ledger.Classification {
	for _, v := range violations {
		if v.Severity == ledger.SeverityCritical {
			return ledger.ClassError
		}
	}
	if len(violations) == 0 && goodRR > 0 {
		if rr, ok := riskReward(t); ok && rr >= goodRR {
			return ledger.ClassModel
		}
	}
	return ledger.ClassNeutral
}

// riskReward returns the trade's risk/reward ratio, deriving it from the
// stop/target distances when it was not recorded directly.
func riskReward(t ledger.Trade) (float64, bool) {
	if t.RiskReward != nil {
		return *t.RiskReward, true
	}
	if t.StopLoss != nil && t.TakeProfit != nil {
		if rr := risk.RR(t.EntryPrice, *t.StopLoss, *t.TakeProfit); rr > 0 {
			return rr, true
		}
	}
	return 0, false
}

func newTradeContext(trades []ledger.Trade, s settings.Settings) tradeContext {
	realized := 0.0
	for _, t := range trades {
		if t.Closed() {
			realized += t.RealizedPnL()
		}
	}
	return tradeContext{
		trades:   trades,
		settings: s,
		capital:  s.Capital(realized),
	}
}
