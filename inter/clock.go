package inter

import (
	"sync/atomic"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// Clock exposes the host's current block. Implementations must be monotonic;
// nothing in the ledger or the tally ever advances it.
type Clock interface {
	Current() idx.Block
}

// ManualClock is a Clock moved explicitly by its owner, e.g. a test harness
// or the CLI host replaying blocks.
type ManualClock struct {
	block uint64
}

// NewManualClock returns a clock positioned at block.
func NewManualClock(block idx.Block) *ManualClock {
	return &ManualClock{block: uint64(block)}
}

// Current implements Clock.
func (c *ManualClock) Current() idx.Block {
	return idx.Block(atomic.LoadUint64(&c.block))
}

// Set moves the clock to block. Moving backwards is the caller's bug; the
// clock does not guard against it so tests can build odd histories.
func (c *ManualClock) Set(block idx.Block) {
	atomic.StoreUint64(&c.block, uint64(block))
}

// Advance moves the clock forward by n blocks and returns the new block.
func (c *ManualClock) Advance(n idx.Block) idx.Block {
	return idx.Block(atomic.AddUint64(&c.block, uint64(n)))
}
