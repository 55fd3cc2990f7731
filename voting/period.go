package voting

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// PeriodGuard enforces the voting window. The end block itself is still
// votable.
type PeriodGuard struct {
	end idx.Block
}

// NewPeriodGuard returns a guard closing after block end.
func NewPeriodGuard(end idx.Block) PeriodGuard {
	return PeriodGuard{end: end}
}

// End returns the last votable block.
func (g PeriodGuard) End() idx.Block {
	return g.end
}

// CheckOpen fails with ErrVotingClosed once current is past the end block.
func (g PeriodGuard) CheckOpen(current idx.Block) error {
	if current > g.end {
		return ErrVotingClosed
	}
	return nil
}
