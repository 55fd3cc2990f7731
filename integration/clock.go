package integration

import (
	"errors"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/ethdb"

	"github.com/rony4d/go-opera-ballot/inter"
)

// ErrClockRegression is returned when the host block is moved backwards.
var ErrClockRegression = errors.New("integration: host block must not move backwards")

var hostBlockKey = []byte{'h'}

// HostClock is the block clock of a CLI host. It is persisted next to the
// session so that separate invocations agree on the current block, and it
// only ever moves forward.
type HostClock struct {
	db    ethdb.KeyValueStore
	clock *inter.ManualClock
}

// NewHostClock restores the clock stored in db, block zero if none.
func NewHostClock(db ethdb.KeyValueStore) *HostClock {
	var block idx.Block
	if raw, err := db.Get(hostBlockKey); err == nil && len(raw) == 8 {
		block = idx.Block(bigendian.BytesToUint64(raw))
	}
	return &HostClock{db: db, clock: inter.NewManualClock(block)}
}

// Current implements inter.Clock.
func (c *HostClock) Current() idx.Block {
	return c.clock.Current()
}

// Set moves the clock to block and persists it. Setting the current block
// again is a no-op.
func (c *HostClock) Set(block idx.Block) error {
	cur := c.clock.Current()
	if block < cur {
		return ErrClockRegression
	}
	if block == cur {
		return nil
	}
	if err := c.db.Put(hostBlockKey, bigendian.Uint64ToBytes(uint64(block))); err != nil {
		return err
	}
	c.clock.Set(block)
	return nil
}
