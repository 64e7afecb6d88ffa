// Package id mints ULID identifiers for journal trade records. ULIDs sort
// lexicographically by creation time, which keeps the trades table and its
// entry-time index in agreement and makes tie-breaking between trades with
// identical entry timestamps deterministic.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed the monotonic entropy source from crypto/rand so IDs stay
	// unpredictable while remaining ordered within a millisecond.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a fresh trade ID stamped with the current UTC time.
func New() string {
	return NewAt(time.Now().UTC())
}

// NewAt returns a trade ID stamped with the given instant. Tests use it to
// build ledgers with reproducible ID ordering.
func NewAt(at time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(at), mono)
	if err != nil {
		// Only possible if the entropy source fails or time overflows.
		panic(err)
	}
	return id.String()
}
