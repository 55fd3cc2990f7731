package inter

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
)

// CandidateID identifies a candidate in [1, candidates]. Zero means "no vote".
type CandidateID uint64

// NoCandidate is the choice reported for accounts that never voted.
const NoCandidate CandidateID = 0

// Big returns the id as a big integer, the form used by the contract ABI.
func (c CandidateID) Big() *big.Int {
	return new(big.Int).SetUint64(uint64(c))
}

// Bytes returns the big-endian encoding of the id.
func (c CandidateID) Bytes() []byte {
	return bigendian.Uint64ToBytes(uint64(c))
}

// VoteCast is the record emitted for every accepted vote, including vote
// changes. Seq is the record's position in the session's event log.
type VoteCast struct {
	Seq       uint64
	Voter     common.Address
	Candidate CandidateID
	// Version is the host block at which the vote was accepted.
	Version idx.Block
}

// Hash fingerprints the record. Two logs with the same hashes at the same
// positions describe the same voting history.
func (v VoteCast) Hash() hash.Hash {
	return hash.Of(
		bigendian.Uint64ToBytes(v.Seq),
		v.Voter.Bytes(),
		v.Candidate.Bytes(),
		bigendian.Uint64ToBytes(uint64(v.Version)),
	)
}
