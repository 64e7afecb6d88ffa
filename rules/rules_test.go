package rules

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/settings"
)

func fp(v float64) *float64 { return &v }

func ip(v int) *int { return &v }

func tp(t time.Time) *time.Time { return &t }

func dayOfTrades(n int, day time.Time) []ledger.Trade {
	trades := make([]ledger.Trade, n)
	for i := range trades {
		trades[i] = ledger.Trade{
			ID:         fmt.Sprintf("T%02d", i+1),
			Symbol:     "EURUSD",
			Side:       ledger.Long,
			EntryPrice: 1.1,
			Size:       1000,
			EntryTime:  day.Add(time.Duration(i) * time.Hour),
			Status:     ledger.StatusOpen,
			Mode:       ledger.ModeLive,
		}
	}
	return trades
}

func TestMaxTradesPerDayViolatesFourthAndFifth(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	trades := dayOfTrades(5, day)

	s := settings.Default()
	s.Rules.MaxTradesPerDay = ip(3)

	for i, trade := range trades {
		_, violations := EvaluateTrade(trade, trades, *s)
		if i < 3 {
			assert.Empty(t, violations, "trade %d should be in bounds", i+1)
		} else {
			assert.Len(t, violations, 1, "trade %d should break the cap", i+1)
			assert.Equal(t, string(KindMaxTradesPerDay), violations[0].Rule)
			assert.Equal(t, ledger.SeverityCritical, violations[0].Severity)
		}
	}
}

func TestMaxTradesPerWeek(t *testing.T) {
	t.Parallel()

	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	trades := []ledger.Trade{
		{ID: "T1", EntryPrice: 1, Size: 1, EntryTime: monday, Status: ledger.StatusOpen, Mode: ledger.ModeLive},
		{ID: "T2", EntryPrice: 1, Size: 1, EntryTime: monday.AddDate(0, 0, 2), Status: ledger.StatusOpen, Mode: ledger.ModeLive},
		{ID: "T3", EntryPrice: 1, Size: 1, EntryTime: monday.AddDate(0, 0, 4), Status: ledger.StatusOpen, Mode: ledger.ModeLive},
	}

	s := settings.Default()
	s.Rules.MaxTradesPerWeek = ip(2)

	_, v2 := EvaluateTrade(trades[1], trades, *s)
	assert.Empty(t, v2)

	_, v3 := EvaluateTrade(trades[2], trades, *s)
	assert.Len(t, v3, 1)
	assert.Equal(t, string(KindMaxTradesPerWeek), v3[0].Rule)
}

func TestUnconfiguredRulesProduceNoEvaluations(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	trades := dayOfTrades(1, day)

	s := settings.Default() // all limits nil

	evaluated, violations := EvaluateTrade(trades[0], trades, *s)
	assert.Empty(t, evaluated)
	assert.Empty(t, violations)
}

func TestTradingHoursRule(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.Rules.TradingHours = &settings.HourWindow{Start: 8, End: 17}

	inside := ledger.Trade{ID: "IN", EntryPrice: 1, Size: 1,
		EntryTime: time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC), Status: ledger.StatusOpen}
	outside := ledger.Trade{ID: "OUT", EntryPrice: 1, Size: 1,
		EntryTime: time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC), Status: ledger.StatusOpen}
	trades := []ledger.Trade{inside, outside}

	_, vIn := EvaluateTrade(inside, trades, *s)
	assert.Empty(t, vIn)

	_, vOut := EvaluateTrade(outside, trades, *s)
	assert.Len(t, vOut, 1)
	assert.Equal(t, string(KindTradingHours), vOut[0].Rule)
	assert.Equal(t, ledger.SeverityCritical, vOut[0].Severity)
}

func TestMaxLotSizeRule(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.Rules.MaxLotSize = fp(10000)

	big := ledger.Trade{ID: "BIG", EntryPrice: 1.1, Size: 20000,
		EntryTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), Status: ledger.StatusOpen}

	_, violations := EvaluateTrade(big, []ledger.Trade{big}, *s)
	assert.Len(t, violations, 1)
	assert.Equal(t, string(KindMaxLotSize), violations[0].Rule)
	assert.InDelta(t, 10000.0, violations[0].Expected, 1e-9)
	assert.InDelta(t, 20000.0, violations[0].Actual, 1e-9)
}

func TestDailyLossLimitRule(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	s := settings.Default() // capital 10,000
	s.Rules.DailyLossLimitPct = fp(3)

	smallLoss := ledger.Trade{ID: "T1", EntryPrice: 1, Size: 1,
		EntryTime: day.Add(9 * time.Hour), ExitTime: tp(day.Add(10 * time.Hour)),
		Status: ledger.StatusClosed, PnL: fp(-100)}
	breaker := ledger.Trade{ID: "T2", EntryPrice: 1, Size: 1,
		EntryTime: day.Add(11 * time.Hour), ExitTime: tp(day.Add(12 * time.Hour)),
		Status: ledger.StatusClosed, PnL: fp(-250)}
	trades := []ledger.Trade{smallLoss, breaker}

	_, v1 := EvaluateTrade(smallLoss, trades, *s)
	assert.Empty(t, v1)

	// Cumulative loss 350 of 9,650 capital > 3%: the second loss breaks
	// the limit.
	_, v2 := EvaluateTrade(breaker, trades, *s)
	assert.Len(t, v2, 1)
	assert.Equal(t, string(KindDailyLossLimit), v2[0].Rule)
}

func TestMaxRiskPerTradeIsMinor(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.Risk.MaxRiskPerTradePct = fp(1)

	risky := ledger.Trade{ID: "T1", EntryPrice: 1.10, Size: 100000, StopLoss: fp(1.08),
		EntryTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), Status: ledger.StatusOpen}

	_, violations := EvaluateTrade(risky, []ledger.Trade{risky}, *s)
	assert.Len(t, violations, 1)
	assert.Equal(t, string(KindMaxRiskPerTrade), violations[0].Rule)
	assert.Equal(t, ledger.SeverityMinor, violations[0].Severity)
}

func TestEvaluateLedgerCapIsInclusive(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := day.Add(6 * time.Hour)

	s := settings.Default()
	s.Rules.MaxTradesPerDay = ip(3)

	// Two trades taken: next trade still allowed.
	assert.Empty(t, EvaluateLedger(dayOfTrades(2, day), *s, now))

	// Reaching the cap exactly triggers the gate for the next trade.
	violations := EvaluateLedger(dayOfTrades(3, day), *s, now)
	assert.Len(t, violations, 1)
	assert.Equal(t, string(KindMaxTradesPerDay), violations[0].Rule)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	critical := []ledger.Violation{{Rule: "max_lot_size", Severity: ledger.SeverityCritical}}
	minor := []ledger.Violation{{Rule: "max_risk_per_trade", Severity: ledger.SeverityMinor}}

	tests := []struct {
		name       string
		trade      ledger.Trade
		violations []ledger.Violation
		want       ledger.Classification
	}{
		{"critical violation", ledger.Trade{RiskReward: fp(5)}, critical, ledger.ClassError},
		{"clean high RR", ledger.Trade{RiskReward: fp(2.5)}, nil, ledger.ClassModel},
		{"clean low RR", ledger.Trade{RiskReward: fp(1.2)}, nil, ledger.ClassNeutral},
		{"clean no RR data", ledger.Trade{}, nil, ledger.ClassNeutral},
		{"minor violation high RR", ledger.Trade{RiskReward: fp(3)}, minor, ledger.ClassNeutral},
		{"derived RR from stop and target", ledger.Trade{EntryPrice: 1.10, StopLoss: fp(1.09), TakeProfit: fp(1.13)}, nil, ledger.ClassModel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.trade, tt.violations, 2.0)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	trades := dayOfTrades(4, day)

	s := settings.Default()
	s.Rules.MaxTradesPerDay = ip(3)

	annotated := Annotate(trades, *s)

	for _, orig := range trades {
		assert.Empty(t, orig.Violations)
		assert.Empty(t, orig.Classification)
	}
	assert.Equal(t, ledger.ClassError, annotated[3].Classification)
	assert.Equal(t, ledger.ClassNeutral, annotated[0].Classification)
}
