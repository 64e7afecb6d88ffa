// Package risk derives quantitative risk figures from a trade ledger and the
// account settings. Every function here is pure and total: empty ledgers,
// zero capital and missing optional fields all resolve to zeros, never to
// NaN, Infinity or a panic.
package risk

import (
	"math"
	"time"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/settings"
)

// Metrics is the derived risk picture for one ledger snapshot. It is
// recomputed from scratch on every call and never mutated in place.
type Metrics struct {
	CurrentDrawdown    float64
	CurrentDrawdownPct float64
	MaxDrawdownPct     float64

	OpenExposure    float64
	OpenExposurePct float64

	AvgRiskPerTradePct float64
	MaxAllowedRiskPct  float64

	DailyLossPct float64

	Capital     float64
	RealizedPnL float64
}

// ComputeMetrics derives Metrics from the trades of a single account mode.
func ComputeMetrics(trades []ledger.Trade, s settings.Settings, now time.Time) Metrics {
	closed := ledger.ClosedByExitTime(trades)

	realized := 0.0
	for _, t := range closed {
		realized += t.RealizedPnL()
	}
	capital := s.Capital(realized)

	m := Metrics{
		Capital:     capital,
		RealizedPnL: realized,
	}

	m.CurrentDrawdown, m.CurrentDrawdownPct, m.MaxDrawdownPct = drawdown(closed, s.InitialCapital)
	m.OpenExposure = exposure(trades)
	m.OpenExposurePct = pct(m.OpenExposure, capital)
	m.AvgRiskPerTradePct = avgRiskPerTrade(trades, capital, s.Risk.RiskWindow)
	if s.Risk.MaxRiskPerTradePct != nil {
		m.MaxAllowedRiskPct = *s.Risk.MaxRiskPerTradePct
	}
	m.DailyLossPct = dailyLossPct(closed, capital, now)

	return m
}

// drawdown folds the closed trades into an equity curve and returns the
// current drawdown (absolute and percent of peak) plus the historical max
// drawdown percent. The running max is non-decreasing over the fold, so the
// current percent can never exceed it.
func drawdown(closed []ledger.Trade, initialCapital float64) (cur, curPct, maxPct float64) {
	equity := initialCapital
	peak := equity

	maxPct = ddPct(peak, equity)
	for _, t := range closed {
		equity += t.RealizedPnL()
		if equity > peak {
			peak = equity
		}
		if p := ddPct(peak, equity); p > maxPct {
			maxPct = p
		}
	}

	cur = peak - equity
	if cur < 0 {
		cur = 0
	}
	curPct = ddPct(peak, equity)
	return cur, curPct, maxPct
}

// ddPct is the drawdown percent at one point of the curve. A non-positive
// peak yields 0 rather than dividing by it.
func ddPct(peak, equity float64) float64 {
	if peak <= 0 {
		return 0
	}
	dd := peak - equity
	if dd <= 0 {
		return 0
	}
	return sanitize(dd / peak * 100)
}

// exposure sums the notional at risk across open positions. Leverage divides
// notional: a 10x position only commits a tenth of its notional as margin.
func exposure(trades []ledger.Trade) float64 {
	sum := 0.0
	for _, t := range trades {
		if !t.Open() {
			continue
		}
		sum += math.Abs(t.EntryPrice) * t.Size / t.EffectiveLeverage()
	}
	return sanitize(sum)
}

// avgRiskPerTrade averages the planned risk percent over the trailing window
// of trades (most recent by entry time; window 0 means all-time). Trades
// without a stop-loss contribute 0 to the average.
func avgRiskPerTrade(trades []ledger.Trade, capital float64, window int) float64 {
	if len(trades) == 0 || capital <= 0 {
		return 0
	}

	recent := trades
	if window > 0 && len(trades) > window {
		recent = trades[len(trades)-window:]
	}

	sum := 0.0
	for _, t := range recent {
		sum += PlannedRiskPct(t, capital)
	}
	return sanitize(sum / float64(len(recent)))
}

// PlannedRiskPct is the percent of capital lost if the trade's stop is hit.
// Trades with no stop-loss carry no measurable planned risk and report 0.
func PlannedRiskPct(t ledger.Trade, capital float64) float64 {
	if t.StopLoss == nil || capital <= 0 {
		return 0
	}
	riskAmt := math.Abs(t.EntryPrice-*t.StopLoss) * t.Size * t.EffectiveLeverage()
	return sanitize(riskAmt / capital * 100)
}

// dailyLossPct sums losses realized today (local calendar day) as a positive
// percent of capital.
func dailyLossPct(closed []ledger.Trade, capital float64, now time.Time) float64 {
	loss := 0.0
	for _, t := range closed {
		if t.ExitTime == nil || !ledger.SameDay(*t.ExitTime, now) {
			continue
		}
		if pnl := t.RealizedPnL(); pnl < 0 {
			loss += -pnl
		}
	}
	return pct(loss, capital)
}

// RR returns the reward-to-risk ratio for an entry/stop/target triple, 0 when
// the stop distance is zero.
func RR(entry, stop, takeProfit float64) float64 {
	riskDist := math.Abs(entry - stop)
	if riskDist == 0 {
		return 0
	}
	return sanitize(math.Abs(takeProfit-entry) / riskDist)
}

// pct expresses num as a percent of den, guarding the zero and negative
// denominator cases.
func pct(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return sanitize(num / den * 100)
}

// sanitize enforces the no-NaN/no-Infinity contract at every arithmetic
// boundary.
func sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
