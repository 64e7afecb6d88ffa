// Package ledger defines the trade records the discipline engine reasons
// about. The engine only ever borrows immutable snapshots of these types;
// ownership and persistence stay with the journal.
package ledger

import (
	"sort"
	"time"
)

// Side is the direction of a position.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// TradeStatus tracks whether a position is still on the books.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "open"
	StatusClosed TradeStatus = "closed"
)

// AccountMode partitions ledgers. Trades from different modes never mix in a
// single evaluation; callers filter first (see FilterMode).
type AccountMode string

const (
	ModeSimulation AccountMode = "simulation"
	ModeDemo       AccountMode = "demo"
	ModeLive       AccountMode = "live"
)

// Classification is the post-evaluation quality tag on a trade.
type Classification string

const (
	ClassModel   Classification = "model"
	ClassNeutral Classification = "neutral"
	ClassError   Classification = "error"
)

// Severity ranks a rule violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMinor    Severity = "minor"
)

// Violation records a broken rule on a trade or on the ledger as a whole.
type Violation struct {
	Rule     string
	Message  string
	Severity Severity
	Expected float64
	Actual   float64
}

// Trade is a single journal entry. Optional numeric fields are pointers: nil
// means the trader never recorded the value, which the engine treats as a
// neutral default rather than an error.
type Trade struct {
	ID     string
	Symbol string
	Side   Side

	EntryPrice float64
	ExitPrice  *float64
	Size       float64
	Leverage   *float64
	StopLoss   *float64
	TakeProfit *float64

	EntryTime time.Time
	ExitTime  *time.Time

	Status     TradeStatus
	PnL        *float64
	RiskReward *float64

	Mode AccountMode

	// Filled in by evaluation, never persisted as source data.
	Violations     []Violation
	Classification Classification
}

// Open reports whether the position is still open.
func (t Trade) Open() bool { return t.Status == StatusOpen }

// Closed reports whether the position has been closed out.
func (t Trade) Closed() bool { return t.Status == StatusClosed }

// EffectiveLeverage returns the trade's leverage, defaulting to 1 when unset
// or non-positive.
func (t Trade) EffectiveLeverage() float64 {
	if t.Leverage == nil || *t.Leverage < 1 {
		return 1
	}
	return *t.Leverage
}

// RealizedPnL returns the closed profit or loss, 0 when not yet realized.
func (t Trade) RealizedPnL() float64 {
	if t.PnL == nil {
		return 0
	}
	return *t.PnL
}

// CriticalViolations counts attached violations at critical severity.
func (t Trade) CriticalViolations() int {
	n := 0
	for _, v := range t.Violations {
		if v.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// FilterMode returns the trades belonging to one account mode. The engine
// never reads an ambient "current mode"; callers pass the filtered ledger
// explicitly.
func FilterMode(trades []Trade, mode AccountMode) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.Mode == mode {
			out = append(out, t)
		}
	}
	return out
}

// ClosedByExitTime returns the closed trades ordered by exit time ascending.
// Trades without an exit time are skipped: they cannot sit on an equity
// curve.
func ClosedByExitTime(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.Closed() && t.ExitTime != nil {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExitTime.Before(*out[j].ExitTime)
	})
	return out
}

// OpenTrades returns the currently open positions.
func OpenTrades(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.Open() {
			out = append(out, t)
		}
	}
	return out
}

// SameDay reports whether two instants fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameISOWeek reports whether two instants fall in the same ISO week.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// EnteredOnDay returns the trades whose entry time shares a calendar day
// with day, preserving ledger order.
func EnteredOnDay(trades []Trade, day time.Time) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if SameDay(t.EntryTime, day) {
			out = append(out, t)
		}
	}
	return out
}

// EnteredInWeek returns the trades whose entry time falls in the same ISO
// week as ref, preserving ledger order.
func EnteredInWeek(trades []Trade, ref time.Time) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if SameISOWeek(t.EntryTime, ref) {
			out = append(out, t)
		}
	}
	return out
}
