// Package engine composes the metrics calculator, rule evaluator, status
// resolver, lockout controller and goal constraints into the single
// "may I trade right now" decision. Every entry point is a pure function of
// (trades, settings, goals, now); running one twice over the same snapshot
// yields identical output, so callers may recompute as often as they like.
package engine

import (
	"time"

	"github.com/rustyeddy/discipline/goals"
	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/lockout"
	"github.com/rustyeddy/discipline/notify"
	"github.com/rustyeddy/discipline/risk"
	"github.com/rustyeddy/discipline/rules"
	"github.com/rustyeddy/discipline/settings"
	"github.com/rustyeddy/discipline/status"
)

// Snapshot is one immutable evaluation input. Trades must already be
// filtered to a single account mode; the engine never reads an ambient
// "current mode".
type Snapshot struct {
	Trades   []ledger.Trade
	Settings settings.Settings
	Goals    []goals.Goal
}

// Report is the full derived state for one snapshot. It is rebuilt from
// scratch on every evaluation and never mutated in place.
type Report struct {
	Metrics    risk.Metrics
	Trades     []ledger.Trade // annotated with violations and classification
	Violations []ledger.Violation

	Status status.Status

	LockoutActive  bool
	LockoutRemains time.Duration

	GoalBlocked bool
	GoalReason  string

	// Level and Reasons merge the rule/metric verdict, the lockout and the
	// goal constraints into the final operability decision.
	Level   status.Level
	Reasons []string
}

// Evaluate runs the whole pipeline: metrics, per-trade and ledger-wide rule
// evaluation, global status, lockout predicate and goal constraints.
func Evaluate(snap Snapshot, now time.Time) Report {
	r := Report{
		Metrics: risk.ComputeMetrics(snap.Trades, snap.Settings, now),
		Trades:  rules.Annotate(snap.Trades, snap.Settings),
	}

	// Only violations with a bearing on trading *now* feed the status
	// resolver: those on trades entered or closed today, plus the
	// ledger-wide caps. Historical error-trades stay visible on the
	// annotated trades but do not restrict today's session.
	for _, t := range r.Trades {
		if ledger.SameDay(t.EntryTime, now) || (t.ExitTime != nil && ledger.SameDay(*t.ExitTime, now)) {
			r.Violations = append(r.Violations, t.Violations...)
		}
	}
	r.Violations = append(r.Violations, rules.EvaluateLedger(snap.Trades, snap.Settings, now)...)

	r.LockoutActive = lockout.IsLocked(snap.Settings.Lockout, now)
	r.LockoutRemains = lockout.Remaining(snap.Settings.Lockout, now)

	r.Status = status.Resolve(r.Metrics, r.Violations, r.LockoutActive, snap.Settings)

	r.GoalBlocked, r.GoalReason = goals.ShouldBlock(snap.Goals, snap.Trades, now)

	r.Level = r.Status.Level
	r.Reasons = append(r.Reasons, r.Status.Reasons...)
	if r.GoalBlocked {
		r.Level = status.Blocked
		r.Reasons = append(r.Reasons, r.GoalReason)
	}

	return r
}

// Record evaluates a newly recorded trade and applies the lockout transition
// when the trade carries a critical violation. The next lockout state is
// returned to the caller, who owns persisting it; the engine never writes
// storage.
func Record(snap Snapshot, t ledger.Trade, now time.Time) (Report, settings.Lockout) {
	withTrade := make([]ledger.Trade, 0, len(snap.Trades)+1)
	withTrade = append(withTrade, snap.Trades...)
	withTrade = append(withTrade, t)
	snap.Trades = withTrade

	ls := snap.Settings.Lockout

	_, violations := rules.EvaluateTrade(t, snap.Trades, snap.Settings)
	for _, v := range violations {
		if v.Severity == ledger.SeverityCritical {
			ls = lockout.Trigger(ls, now)
			break
		}
	}

	snap.Settings.Lockout = ls
	return Evaluate(snap, now), ls
}

// Diff compares two consecutive reports and emits the threshold-crossing
// events a notification dispatcher should deliver. The engine decides what
// crossed; the dispatcher decides how and whether to send it.
func Diff(prev, next Report, at time.Time) []notify.Event {
	var events []notify.Event

	add := func(typ notify.EventType, msg string) {
		events = append(events, notify.Event{Type: typ, Message: msg, At: at})
	}

	switch {
	case prev.Level < status.Blocked && next.Level == status.Blocked:
		add(notify.EventBlockedEntered, firstReason(next, "trading blocked"))
	case prev.Level < status.Warning && next.Level == status.Warning:
		add(notify.EventWarningEntered, firstReason(next, "entered warning state"))
	case prev.Level > status.OK && next.Level == status.OK:
		add(notify.EventRecovered, "all restrictions cleared")
	}

	if !prev.LockoutActive && next.LockoutActive {
		add(notify.EventLockoutStarted, "ultra-disciplined lockout started")
	}
	if prev.LockoutActive && !next.LockoutActive {
		add(notify.EventLockoutElapsed, "ultra-disciplined lockout elapsed")
	}

	return events
}

func firstReason(r Report, fallback string) string {
	if len(r.Reasons) > 0 {
		return r.Reasons[0]
	}
	return fallback
}
