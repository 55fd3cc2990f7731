// Package ballot exposes a voting session through the Voting contract ABI.
//
// Calls arrive as ABI-encoded input (4-byte method selector followed by the
// arguments), are dispatched to the session or to the owner recovery gate,
// and answer with ABI-encoded return data plus the logs the call emitted.
// Anything the session rejects is returned unchanged, so callers can
// compare against the voting, ledger and admin errors.
package ballot

import (
	"bytes"
	"errors"
	"math"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rony4d/go-opera-ballot/admin"
	"github.com/rony4d/go-opera-ballot/inter"
	"github.com/rony4d/go-opera-ballot/opera"
	"github.com/rony4d/go-opera-ballot/voting"
)

var (
	// ErrUnknownMethod is returned for input without a known method selector.
	ErrUnknownMethod = errors.New("ballot: unknown method")
	// ErrUnknownToken is returned by claimTokens for a token other than the session ledger.
	ErrUnknownToken = errors.New("ballot: token is not the session ledger")
	// ErrTooManyCandidates is returned when the candidate count does not fit the constructor's uint8.
	ErrTooManyCandidates = errors.New("ballot: candidate count exceeds uint8")
)

// Contract serves the Voting ABI for one session.
type Contract struct {
	session  *voting.Session
	recovery *admin.Recovery
}

// New returns the contract of session. A nil recovery makes claimTokens
// fail with admin.ErrUnauthorized for every caller.
func New(session *voting.Session, recovery *admin.Recovery) *Contract {
	return &Contract{session: session, recovery: recovery}
}

// Address is the account the contract is reachable at.
func (c *Contract) Address() common.Address {
	return c.session.Address()
}

// Run executes a call by caller and returns the ABI-encoded result and the
// emitted logs.
func (c *Contract) Run(caller common.Address, input []byte) ([]byte, []*types.Log, error) {
	if len(input) < 4 {
		return nil, nil, ErrUnknownMethod
	}
	selector := input[:4]
	method, err := contractABI.MethodById(selector)
	if err != nil {
		return nil, nil, ErrUnknownMethod
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, nil, err
	}

	if bytes.Equal(selector, voteMethodID) {
		candidate, ok := candidateArg(args[0].(*big.Int))
		if !ok {
			return nil, nil, voting.ErrInvalidCandidate
		}
		rec, err := c.session.Vote(caller, candidate)
		if err != nil {
			return nil, nil, err
		}
		return nil, []*types.Log{VoteLog(c.Address(), rec)}, nil

	} else if bytes.Equal(selector, votersCountMethodID) {
		ret, err := method.Outputs.Pack(new(big.Int).SetUint64(c.session.VotersCount()))
		return ret, nil, err

	} else if bytes.Equal(selector, candidatesMethodID) {
		ret, err := method.Outputs.Pack(new(big.Int).SetUint64(c.session.Candidates()))
		return ret, nil, err

	} else if bytes.Equal(selector, endBlockMethodID) {
		ret, err := method.Outputs.Pack(new(big.Int).SetUint64(uint64(c.session.EndBlock())))
		return ret, nil, err

	} else if bytes.Equal(selector, choiceOfMethodID) {
		voter := args[0].(common.Address)
		ret, err := method.Outputs.Pack(c.session.ChoiceOf(voter).Big())
		return ret, nil, err

	} else if bytes.Equal(selector, getVotersMethodID) {
		page := c.session.GetVoters(clampArg(args[0].(*big.Int)), clampArg(args[1].(*big.Int)))
		ret, err := packPage(method.Outputs.Pack, page)
		return ret, nil, err

	} else if bytes.Equal(selector, getVotersAtMethodID) {
		version := idx.Block(clampArg(args[2].(*big.Int)))
		page := c.session.GetVotersAt(clampArg(args[0].(*big.Int)), clampArg(args[1].(*big.Int)), version)
		ret, err := packPage(method.Outputs.Pack, page)
		return ret, nil, err

	} else if bytes.Equal(selector, getSummaryMethodID) {
		summary := c.session.GetSummary()
		candidates := make([]*big.Int, len(summary.Candidates))
		for i, id := range summary.Candidates {
			candidates[i] = id.Big()
		}
		ret, err := method.Outputs.Pack(candidates, summary.Amounts)
		return ret, nil, err

	} else if bytes.Equal(selector, claimTokensMethodID) {
		if c.recovery == nil {
			return nil, nil, admin.ErrUnauthorized
		}
		token := args[0].(common.Address)
		if token != c.session.Rules().Ledger {
			return nil, nil, ErrUnknownToken
		}
		claim, err := c.recovery.ClaimTokens(caller)
		if err != nil {
			return nil, nil, err
		}
		return nil, []*types.Log{ClaimLog(c.Address(), claim)}, nil
	}

	return nil, nil, ErrUnknownMethod
}

// PackConstructor encodes the constructor arguments of a Voting deployment
// for rules: candidate count, ledger address and end block.
func PackConstructor(rules opera.Rules) ([]byte, error) {
	if rules.Candidates > math.MaxUint8 {
		return nil, ErrTooManyCandidates
	}
	return contractABI.Constructor.Inputs.Pack(
		uint8(rules.Candidates),
		rules.Ledger,
		new(big.Int).SetUint64(uint64(rules.EndBlock)),
	)
}

func packPage(pack func(args ...interface{}) ([]byte, error), page voting.VoterPage) ([]byte, error) {
	choices := make([]*big.Int, len(page.Choices))
	for i, choice := range page.Choices {
		choices[i] = choice.Big()
	}
	return pack(page.Voters, choices, page.Amounts)
}

// candidateArg converts a uint256 candidate. Values beyond uint64 can never
// be valid candidates.
func candidateArg(v *big.Int) (inter.CandidateID, bool) {
	if !v.IsUint64() {
		return inter.NoCandidate, false
	}
	return inter.CandidateID(v.Uint64()), true
}

// clampArg saturates a uint256 argument to uint64.
func clampArg(v *big.Int) uint64 {
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
