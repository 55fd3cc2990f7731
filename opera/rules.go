// Package opera defines the configuration of a ballot session.
//
// A session is fixed at creation: how many candidates can be voted for, the
// last block at which votes are accepted, which balance ledger weighs the
// votes and which account may recover stray funds. Rules are persisted with
// the session and compared on every reopen.

package opera

import (
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/google/uuid"
)

var (
	// ErrNoCandidates is returned for rules with a zero candidate count.
	ErrNoCandidates = errors.New("opera: candidate count must be positive")
	// ErrEndInPast is returned when the voting window closes before the session starts.
	ErrEndInPast = errors.New("opera: end block precedes the current block")
)

const (
	// FakeCandidates is the candidate count of fake sessions.
	FakeCandidates = 5

	// FakeStartBlock and FakeEndBlock bound the voting window of fake sessions.
	FakeStartBlock idx.Block = 50000000
	FakeEndBlock   idx.Block = 50030000
)

// Rules describes a ballot session. All fields are immutable once the
// session exists.
type Rules struct {
	// Name is a human-readable label surfaced in logs.
	Name string
	// ID uniquely identifies the session; the session account is derived from it.
	ID string

	// Candidates is the number of candidates; valid ids are 1..Candidates.
	Candidates uint64
	// EndBlock is the last block at which votes are accepted.
	EndBlock idx.Block

	// Ledger identifies the balance ledger weighing the votes.
	Ledger common.Address
	// Owner may recover funds sent to the session account.
	Owner common.Address
}

// NewRules returns rules for a new session with a fresh ID.
func NewRules(name string, candidates uint64, end idx.Block, ledger, owner common.Address) Rules {
	return Rules{
		Name:       name,
		ID:         uuid.NewString(),
		Candidates: candidates,
		EndBlock:   end,
		Ledger:     ledger,
		Owner:      owner,
	}
}

// FakeRules returns the rules of a throwaway session used by tests and the
// fakenet command: five candidates, closing 30000 blocks after FakeStartBlock.
func FakeRules(owner common.Address) Rules {
	return NewRules("fake", FakeCandidates, FakeEndBlock, common.Address{}, owner)
}

// Validate checks the rules of a session created at block current.
func (r Rules) Validate(current idx.Block) error {
	if r.Candidates == 0 {
		return ErrNoCandidates
	}
	if r.EndBlock < current {
		return ErrEndInPast
	}
	return nil
}

// Address is the session's own ledger account. Tokens sent there can only
// be recovered by the owner.
func (r Rules) Address() common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(r.ID)))
}

// Hash calculates the SHA256 hash of the RLP-encoded rules.
func (r Rules) Hash() hash.Hash {
	hasher := sha256.New()
	if err := rlp.Encode(hasher, &r); err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

// String returns a JSON representation of the rules for logging.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
