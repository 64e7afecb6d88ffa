// Package journal is the persistence collaborator at the engine's boundary:
// it owns the trade ledger and the lockout state. The engine itself never
// touches storage; callers load snapshots here, evaluate, and hand changed
// lockout state back to be saved.
package journal

import (
	"time"

	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/settings"
)

// Store is the ledger and lockout persistence contract.
type Store interface {
	// RecordTrade appends a trade, assigning a ULID when the ID is empty.
	RecordTrade(t ledger.Trade) (ledger.Trade, error)

	// ListTrades returns the trades of one account mode ordered by entry
	// time ascending.
	ListTrades(mode ledger.AccountMode) ([]ledger.Trade, error)

	// LoadLockout returns the persisted lockout state and its last update
	// instant. A store with no saved state returns the zero value.
	LoadLockout() (settings.Lockout, time.Time, error)

	// SaveLockout persists the lockout state with last-writer-wins
	// semantics keyed by updatedAt: a save older than the stored state is a
	// silent no-op.
	SaveLockout(ls settings.Lockout, updatedAt time.Time) error

	Close() error
}
