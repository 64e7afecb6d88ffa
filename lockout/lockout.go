// Package lockout implements the ultra-disciplined timed trading block as a
// two-state machine over the persisted settings.Lockout value. Every function
// is pure: the caller receives the next state and owns persisting it. There
// is no background timer; expiry is evaluated lazily on read.
package lockout

import (
	"time"

	"github.com/rustyeddy/discipline/settings"
)

// IsLocked reports whether trading is currently suspended. The predicate is
// exactly: a blocked-until instant exists and now has not reached it.
func IsLocked(ls settings.Lockout, now time.Time) bool {
	return ls.BlockedUntil != nil && now.Before(*ls.BlockedUntil)
}

// Remaining returns how long the suspension still has to run, 0 when
// unlocked.
func Remaining(ls settings.Lockout, now time.Time) time.Duration {
	if !IsLocked(ls, now) {
		return 0
	}
	return ls.BlockedUntil.Sub(now)
}

// Trigger moves the machine to locked-until(now + duration) in response to a
// new critical violation. It only fires when ultra-disciplined mode and
// block-on-violation are both enabled. Re-triggering while already locked is
// idempotent: the deadline is neither extended nor shortened.
func Trigger(ls settings.Lockout, now time.Time) settings.Lockout {
	if !ls.Enabled || !ls.BlockOnViolation {
		return ls
	}
	if IsLocked(ls, now) {
		return ls
	}
	d, err := ls.ParseDuration()
	if err != nil {
		d = settings.DefaultLockoutDuration
	}
	until := now.Add(d)
	ls.BlockedUntil = &until
	return ls
}

// Clear is the manual override: it drops blocked-until unconditionally. The
// engine does not second-guess the caller here; whether an override is
// allowed is UI policy.
func Clear(ls settings.Lockout) settings.Lockout {
	ls.BlockedUntil = nil
	return ls
}

// Expire drops a blocked-until instant that the wall clock has already
// passed, so a stale value is not persisted forever. It never clears an
// active lock.
func Expire(ls settings.Lockout, now time.Time) settings.Lockout {
	if ls.BlockedUntil != nil && !now.Before(*ls.BlockedUntil) {
		ls.BlockedUntil = nil
	}
	return ls
}
