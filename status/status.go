// Package status folds risk metrics and rule violations into the single
// operability verdict shown to the trader.
package status

import (
	"fmt"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/risk"
	"github.com/rustyeddy/discipline/settings"
)

// Level orders operability states by severity.
type Level int

const (
	OK Level = iota
	Warning
	Blocked
)

func (l Level) String() string {
	switch l {
	case Blocked:
		return "blocked"
	case Warning:
		return "warning"
	default:
		return "ok"
	}
}

// Status is the resolved verdict plus every reason that contributed to it,
// in evaluation order. The level is the maximum severity across all true
// conditions, never the first one found.
type Status struct {
	Level   Level
	Reasons []string
}

// warnFraction is how close to a limit (as a fraction of it) a metric may
// get before it raises a warning.
const warnFraction = 0.8

// Resolve combines metrics, violations and the lockout state. With nothing
// configured and nothing violated it returns OK: an engine with no rules must
// never synthesize a restriction.
func Resolve(m risk.Metrics, violations []ledger.Violation, lockoutActive bool, s settings.Settings) Status {
	var st Status

	add := func(level Level, reason string) {
		st.Reasons = append(st.Reasons, reason)
		if level > st.Level {
			st.Level = level
		}
	}

	if lockoutActive {
		add(Blocked, "lockout active: trading suspended until the block expires")
	}

	for _, v := range violations {
		switch {
		case v.Severity == ledger.SeverityCritical && s.Lockout.BlockOnViolation:
			add(Blocked, fmt.Sprintf("critical rule violation: %s", v.Message))
		case v.Severity == ledger.SeverityCritical:
			add(Warning, fmt.Sprintf("critical rule violation: %s", v.Message))
		default:
			add(Warning, fmt.Sprintf("rule violation: %s", v.Message))
		}
	}

	if ddMax := s.Risk.MaxDrawdownPct; ddMax != nil {
		switch {
		case m.CurrentDrawdownPct >= *ddMax:
			reason := fmt.Sprintf("drawdown %.2f%% reached the maximum of %.2f%%", m.CurrentDrawdownPct, *ddMax)
			switch s.Risk.DrawdownMode {
			case settings.DrawdownHardStop:
				add(Blocked, reason)
			case settings.DrawdownPartialBlock:
				add(Warning, reason+" (reduce position size)")
			default:
				add(Warning, reason)
			}
		case *ddMax > 0 && m.CurrentDrawdownPct >= warnFraction*(*ddMax):
			add(Warning, fmt.Sprintf("drawdown %.2f%% is approaching the maximum of %.2f%%", m.CurrentDrawdownPct, *ddMax))
		}
	}

	if limit := s.Rules.DailyLossLimitPct; limit != nil && m.DailyLossPct >= *limit {
		add(Blocked, fmt.Sprintf("daily loss %.2f%% reached the limit of %.2f%%", m.DailyLossPct, *limit))
	}

	if m.MaxAllowedRiskPct > 0 && m.AvgRiskPerTradePct >= warnFraction*m.MaxAllowedRiskPct {
		add(Warning, fmt.Sprintf("average risk per trade %.2f%% is approaching the maximum of %.2f%%",
			m.AvgRiskPerTradePct, m.MaxAllowedRiskPct))
	}

	return st
}
