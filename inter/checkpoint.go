// Package inter defines the records shared by the ballot ledger and the vote
// tally: balance checkpoints, candidate identifiers, vote records and the
// host clock capability.
//
// Versions are Lachesis block indexes (idx.Block). The core never advances
// them; it only reads the current one through a Clock supplied by the host.

package inter

import (
	"math/big"
	"sort"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// Checkpoint is one entry of an account's balance history: the balance the
// account held from Version onwards, until the next checkpoint.
type Checkpoint struct {
	Version idx.Block
	Balance *big.Int
}

// Copy returns a deep copy so callers can't mutate a cached balance.
func (c Checkpoint) Copy() Checkpoint {
	cp := c
	if c.Balance != nil {
		cp.Balance = new(big.Int).Set(c.Balance)
	}
	return cp
}

// Checkpoints is an account history ordered by strictly increasing Version.
type Checkpoints []Checkpoint

// At returns the balance of the checkpoint with the greatest Version <= v.
// It returns zero when no such checkpoint exists, and the last balance for
// any v past the last checkpoint.
func (cc Checkpoints) At(v idx.Block) *big.Int {
	// first checkpoint strictly after v
	i := sort.Search(len(cc), func(i int) bool {
		return cc[i].Version > v
	})
	if i == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(cc[i-1].Balance)
}

// Last returns the most recent checkpoint, if any.
func (cc Checkpoints) Last() (Checkpoint, bool) {
	if len(cc) == 0 {
		return Checkpoint{}, false
	}
	return cc[len(cc)-1], true
}
