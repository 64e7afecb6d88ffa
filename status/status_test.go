package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/risk"
	"github.com/rustyeddy/discipline/settings"
)

func fp(v float64) *float64 { return &v }

func TestUnconfiguredEngineIsAlwaysOK(t *testing.T) {
	t.Parallel()

	s := settings.Default() // no thresholds set

	st := Resolve(risk.Metrics{}, nil, false, *s)

	assert.Equal(t, OK, st.Level)
	assert.Empty(t, st.Reasons)
}

func TestLockoutBlocks(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	st := Resolve(risk.Metrics{}, nil, true, *s)

	assert.Equal(t, Blocked, st.Level)
	assert.Len(t, st.Reasons, 1)
}

func TestCriticalViolationBlocksWhenConfigured(t *testing.T) {
	t.Parallel()

	violations := []ledger.Violation{
		{Rule: "max_trades_per_day", Message: "cap broken", Severity: ledger.SeverityCritical},
	}

	s := settings.Default()
	s.Lockout.BlockOnViolation = true
	assert.Equal(t, Blocked, Resolve(risk.Metrics{}, violations, false, *s).Level)

	// Without block-on-violation it degrades to a warning.
	s.Lockout.BlockOnViolation = false
	assert.Equal(t, Warning, Resolve(risk.Metrics{}, violations, false, *s).Level)
}

func TestBlockedDominatesWarnings(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.Lockout.BlockOnViolation = true
	s.Risk.MaxDrawdownPct = fp(15)
	s.Risk.DrawdownMode = settings.DrawdownWarn

	m := risk.Metrics{
		CurrentDrawdownPct: 13, // warning range
		AvgRiskPerTradePct: 0.9,
		MaxAllowedRiskPct:  1, // warning range
	}
	violations := []ledger.Violation{
		{Rule: "max_lot_size", Message: "too big", Severity: ledger.SeverityCritical},
		{Rule: "max_risk_per_trade", Message: "risky", Severity: ledger.SeverityMinor},
	}

	st := Resolve(m, violations, false, *s)

	assert.Equal(t, Blocked, st.Level)
	// Every contributing reason is kept, not just the first blocker.
	assert.Len(t, st.Reasons, 4)
}

func TestDrawdownResponseModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode settings.DrawdownMode
		want Level
	}{
		{"hard stop blocks", settings.DrawdownHardStop, Blocked},
		{"partial block warns", settings.DrawdownPartialBlock, Warning},
		{"warn warns", settings.DrawdownWarn, Warning},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := settings.Default()
			s.Risk.MaxDrawdownPct = fp(15)
			s.Risk.DrawdownMode = tt.mode

			st := Resolve(risk.Metrics{CurrentDrawdownPct: 20}, nil, false, *s)
			assert.Equal(t, tt.want, st.Level)
		})
	}
}

func TestDrawdownApproachWarnsAtEightyPercent(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.Risk.MaxDrawdownPct = fp(10)

	assert.Equal(t, OK, Resolve(risk.Metrics{CurrentDrawdownPct: 7.9}, nil, false, *s).Level)
	assert.Equal(t, Warning, Resolve(risk.Metrics{CurrentDrawdownPct: 8}, nil, false, *s).Level)
}

func TestZeroMaxDrawdownAlwaysTriggers(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.Risk.MaxDrawdownPct = fp(0)
	s.Risk.DrawdownMode = settings.DrawdownHardStop

	// An inconsistent configuration is "always triggers", not an error.
	st := Resolve(risk.Metrics{CurrentDrawdownPct: 0}, nil, false, *s)
	assert.Equal(t, Blocked, st.Level)
}

func TestDailyLossLimitBlocks(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.Rules.DailyLossLimitPct = fp(3)

	assert.Equal(t, OK, Resolve(risk.Metrics{DailyLossPct: 2.9}, nil, false, *s).Level)
	assert.Equal(t, Blocked, Resolve(risk.Metrics{DailyLossPct: 3}, nil, false, *s).Level)
}

func TestAvgRiskWarning(t *testing.T) {
	t.Parallel()

	s := settings.Default()

	m := risk.Metrics{AvgRiskPerTradePct: 1.7, MaxAllowedRiskPct: 2}
	st := Resolve(m, nil, false, *s)

	assert.Equal(t, Warning, st.Level)
	assert.Len(t, st.Reasons, 1)
}

func TestLevelOrderingAndStrings(t *testing.T) {
	t.Parallel()

	assert.True(t, Blocked > Warning)
	assert.True(t, Warning > OK)
	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "blocked", Blocked.String())
}
