package ballot

import (
	"errors"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rony4d/go-opera-ballot/admin"
	"github.com/rony4d/go-opera-ballot/inter"
)

// ErrNotVoteLog is returned by ParseVoteLog for logs of other events.
var ErrNotVoteLog = errors.New("ballot: not a Vote log")

// VoteLog converts a VoteCast record into the contract's Vote event emitted
// by addr.
func VoteLog(addr common.Address, rec inter.VoteCast) *types.Log {
	event := contractABI.Events["Vote"]
	data, err := event.Inputs.NonIndexed().Pack(rec.Candidate.Big())
	if err != nil {
		panic("can't pack Vote log: " + err.Error())
	}
	return &types.Log{
		Address:     addr,
		Topics:      []common.Hash{event.ID, common.BytesToHash(rec.Voter.Bytes())},
		Data:        data,
		BlockNumber: uint64(rec.Version),
		Index:       uint(rec.Seq),
	}
}

// ParseVoteLog recovers the VoteCast record from a Vote event.
func ParseVoteLog(l *types.Log) (inter.VoteCast, error) {
	event := contractABI.Events["Vote"]
	if len(l.Topics) != 2 || l.Topics[0] != event.ID {
		return inter.VoteCast{}, ErrNotVoteLog
	}
	values, err := event.Inputs.NonIndexed().Unpack(l.Data)
	if err != nil {
		return inter.VoteCast{}, err
	}
	candidate, ok := candidateArg(values[0].(*big.Int))
	if !ok {
		return inter.VoteCast{}, ErrNotVoteLog
	}
	return inter.VoteCast{
		Seq:       uint64(l.Index),
		Voter:     common.BytesToAddress(l.Topics[1].Bytes()),
		Candidate: candidate,
		Version:   idx.Block(l.BlockNumber),
	}, nil
}

// ClaimLog builds the ClaimedTokens event of a recovery.
func ClaimLog(addr common.Address, claim admin.Claim) *types.Log {
	event := contractABI.Events["ClaimedTokens"]
	data, err := event.Inputs.NonIndexed().Pack(claim.Amount)
	if err != nil {
		panic("can't pack ClaimedTokens log: " + err.Error())
	}
	return &types.Log{
		Address: addr,
		Topics: []common.Hash{
			event.ID,
			common.BytesToHash(claim.Token.Bytes()),
			common.BytesToHash(claim.To.Bytes()),
		},
		Data:        data,
		BlockNumber: uint64(claim.Version),
	}
}
