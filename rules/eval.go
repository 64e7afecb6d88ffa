package rules

import (
	"fmt"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/risk"
)

// ordinalOnDay is the trade's 1-based position among same-day entries. The
// cap is inclusive: the trade that reaches the cap exactly is still in
// bounds, the next one breaks it.
func ordinalOnDay(t ledger.Trade, trades []ledger.Trade) int {
	n := 0
	for _, other := range trades {
		if !ledger.SameDay(other.EntryTime, t.EntryTime) {
			continue
		}
		if other.EntryTime.Before(t.EntryTime) || (other.EntryTime.Equal(t.EntryTime) && other.ID < t.ID) {
			n++
		}
	}
	return n + 1
}

func ordinalInWeek(t ledger.Trade, trades []ledger.Trade) int {
	n := 0
	for _, other := range trades {
		if !ledger.SameISOWeek(other.EntryTime, t.EntryTime) {
			continue
		}
		if other.EntryTime.Before(t.EntryTime) || (other.EntryTime.Equal(t.EntryTime) && other.ID < t.ID) {
			n++
		}
	}
	return n + 1
}

func evalMaxTradesPerDay(t ledger.Trade, ctx tradeContext) outcome {
	limit := ctx.settings.Rules.MaxTradesPerDay
	if limit == nil {
		return outcome{}
	}
	ord := ordinalOnDay(t, ctx.trades)
	return outcome{
		active:    true,
		respected: ord <= *limit,
		expected:  float64(*limit),
		actual:    float64(ord),
		message:   fmt.Sprintf("trade %d of the day exceeds the daily cap of %d", ord, *limit),
	}
}

func evalMaxTradesPerWeek(t ledger.Trade, ctx tradeContext) outcome {
	limit := ctx.settings.Rules.MaxTradesPerWeek
	if limit == nil {
		return outcome{}
	}
	ord := ordinalInWeek(t, ctx.trades)
	return outcome{
		active:    true,
		respected: ord <= *limit,
		expected:  float64(*limit),
		actual:    float64(ord),
		message:   fmt.Sprintf("trade %d of the week exceeds the weekly cap of %d", ord, *limit),
	}
}

func evalTradingHours(t ledger.Trade, ctx tradeContext) outcome {
	w := ctx.settings.Rules.TradingHours
	if w == nil {
		return outcome{}
	}
	return outcome{
		active:    true,
		respected: w.Contains(t.EntryTime),
		expected:  float64(w.Start),
		actual:    float64(t.EntryTime.Hour()),
		message: fmt.Sprintf("entered at %02d:%02d, outside allowed hours %02d:00-%02d:00",
			t.EntryTime.Hour(), t.EntryTime.Minute(), w.Start, w.End),
	}
}

func evalMaxLotSize(t ledger.Trade, ctx tradeContext) outcome {
	limit := ctx.settings.Rules.MaxLotSize
	if limit == nil {
		return outcome{}
	}
	return outcome{
		active:    true,
		respected: t.Size <= *limit,
		expected:  *limit,
		actual:    t.Size,
		message:   fmt.Sprintf("position size %.4f exceeds the maximum of %.4f", t.Size, *limit),
	}
}

// evalDailyLossLimit marks the closed losing trade that carries the day's
// realized loss to or past the configured limit, and every losing trade
// after it on the same day.
func evalDailyLossLimit(t ledger.Trade, ctx tradeContext) outcome {
	limit := ctx.settings.Rules.DailyLossLimitPct
	if limit == nil || !t.Closed() || t.ExitTime == nil {
		return outcome{}
	}
	pnl := t.RealizedPnL()
	if pnl >= 0 {
		return outcome{}
	}

	// Cumulative loss realized on the trade's exit day, up to and including
	// this trade.
	loss := 0.0
	for _, other := range ctx.trades {
		if !other.Closed() || other.ExitTime == nil || !ledger.SameDay(*other.ExitTime, *t.ExitTime) {
			continue
		}
		if other.ExitTime.After(*t.ExitTime) {
			continue
		}
		if p := other.RealizedPnL(); p < 0 {
			loss += -p
		}
	}

	lossPct := 0.0
	if ctx.capital > 0 {
		lossPct = loss / ctx.capital * 100
	}
	return outcome{
		active:    true,
		respected: lossPct < *limit,
		expected:  *limit,
		actual:    lossPct,
		message:   fmt.Sprintf("daily realized loss %.2f%% reached the limit of %.2f%%", lossPct, *limit),
	}
}

func evalMaxRiskPerTrade(t ledger.Trade, ctx tradeContext) outcome {
	limit := ctx.settings.Risk.MaxRiskPerTradePct
	if limit == nil {
		return outcome{}
	}
	riskPct := risk.PlannedRiskPct(t, ctx.capital)
	return outcome{
		active:    true,
		respected: riskPct <= *limit,
		expected:  *limit,
		actual:    riskPct,
		message:   fmt.Sprintf("planned risk %.2f%% exceeds the per-trade maximum of %.2f%%", riskPct, *limit),
	}
}
