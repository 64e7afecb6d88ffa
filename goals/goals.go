// Package goals restricts trading according to the trader's active goal
// definitions. Constraints are evaluated independently of the rule engine;
// the caller merges both verdicts.
package goals

import (
	"fmt"
	"time"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/settings"
)

// ConstraintType selects how a goal restricts trading while its period is
// running.
type ConstraintType string

const (
	ConstraintNone      ConstraintType = "none"
	ConstraintSession   ConstraintType = "session"
	ConstraintHours     ConstraintType = "hours"
	ConstraintMaxTrades ConstraintType = "max-trades"
	ConstraintMaxLoss   ConstraintType = "max-loss"
	ConstraintCustom    ConstraintType = "custom"
)

// Sessions maps the named market sessions to their hour windows. Session
// constraints are permissive: trading is blocked outside the window, never
// inside it.
var Sessions = map[string]settings.HourWindow{
	"sydney":   {Start: 21, End: 6},
	"tokyo":    {Start: 0, End: 9},
	"london":   {Start: 8, End: 17},
	"new-york": {Start: 13, End: 22},
}

// Goal is one trading goal with a period window [Start, End) and an optional
// constraint. Only the primary goal and binding goals may block trading.
type Goal struct {
	ID    string
	Title string

	Start time.Time
	End   time.Time

	Constraint ConstraintType
	Session    string               // for ConstraintSession
	Hours      *settings.HourWindow // for ConstraintHours
	Target     float64              // trade count or loss cap depending on type

	IsPrimary bool
	IsBinding bool
}

// InPeriod reports whether now falls inside the goal's [Start, End) window.
// A malformed window (end not after start) never contains anything.
func (g Goal) InPeriod(now time.Time) bool {
	if !g.End.After(g.Start) {
		return false
	}
	return !now.Before(g.Start) && now.Before(g.End)
}

// Activation is the result of checking one goal constraint.
type Activation struct {
	Active  bool
	Message string
}

// IsConstraintActive evaluates a single goal against the ledger. Outside the
// goal's period every constraint is inactive; custom constraints are always
// inactive because their semantics live with an external collaborator.
func IsConstraintActive(g Goal, trades []ledger.Trade, now time.Time) Activation {
	if !g.InPeriod(now) {
		return Activation{}
	}

	switch g.Constraint {
	case ConstraintSession:
		w, ok := Sessions[g.Session]
		if !ok {
			return Activation{}
		}
		if !w.Contains(now) {
			return Activation{
				Active:  true,
				Message: fmt.Sprintf("outside the %s session (%02d:00-%02d:00)", g.Session, w.Start, w.End),
			}
		}

	case ConstraintHours:
		if g.Hours == nil {
			return Activation{}
		}
		if !g.Hours.Contains(now) {
			return Activation{
				Active:  true,
				Message: fmt.Sprintf("outside the allowed hours %02d:00-%02d:00", g.Hours.Start, g.Hours.End),
			}
		}

	case ConstraintMaxTrades:
		target := int(g.Target)
		if target <= 0 {
			return Activation{}
		}
		n := 0
		for _, t := range trades {
			if !t.EntryTime.Before(g.Start) && !t.EntryTime.After(now) {
				n++
			}
		}
		if n >= target {
			return Activation{
				Active:  true,
				Message: fmt.Sprintf("trade cap for goal %q reached: %d of %d", g.Title, n, target),
			}
		}

	case ConstraintMaxLoss:
		lossCap := g.Target
		if lossCap < 0 {
			lossCap = -lossCap
		}
		if lossCap == 0 {
			return Activation{}
		}
		pnl := 0.0
		for _, t := range trades {
			if !t.Closed() || t.ExitTime == nil {
				continue
			}
			if !t.ExitTime.Before(g.Start) && t.ExitTime.Before(g.End) {
				pnl += t.RealizedPnL()
			}
		}
		if pnl <= -lossCap {
			return Activation{
				Active:  true,
				Message: fmt.Sprintf("loss cap for goal %q reached: %.2f against a cap of %.2f", g.Title, pnl, lossCap),
			}
		}
	}

	return Activation{}
}

// ShouldBlock walks the primary goal and every binding goal and reports the
// first active blocking constraint. The message is surfaced verbatim so the
// trader sees the exact limit that fired.
func ShouldBlock(goalList []Goal, trades []ledger.Trade, now time.Time) (bool, string) {
	for _, g := range goalList {
		if !g.IsPrimary && !g.IsBinding {
			continue
		}
		if a := IsConstraintActive(g, trades, now); a.Active {
			return true, a.Message
		}
	}
	return false, ""
}
