package inter

import (
	"math/big"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpoints_At(t *testing.T) {
	history := Checkpoints{
		{Version: 10, Balance: big.NewInt(100)},
		{Version: 20, Balance: big.NewInt(250)},
		{Version: 30, Balance: big.NewInt(0)},
	}

	for _, tt := range []struct {
		version idx.Block
		want    int64
	}{
		{0, 0},
		{9, 0},
		{10, 100},
		{19, 100},
		{20, 250},
		{29, 250},
		{30, 0},
		{1 << 50, 0},
	} {
		assert.Equal(t, big.NewInt(tt.want), history.At(tt.version), "version %d", tt.version)
	}

	assert.Equal(t, 0, Checkpoints(nil).At(5).Sign())

	// the result is a copy
	history.At(15).SetInt64(7)
	assert.Equal(t, big.NewInt(100), history.At(15))
}

func TestCheckpoints_Last(t *testing.T) {
	_, ok := Checkpoints(nil).Last()
	require.False(t, ok)

	last, ok := Checkpoints{{Version: 1, Balance: big.NewInt(1)}, {Version: 2, Balance: big.NewInt(2)}}.Last()
	require.True(t, ok)
	assert.Equal(t, idx.Block(2), last.Version)
}

func TestCheckpoint_Copy(t *testing.T) {
	orig := Checkpoint{Version: 3, Balance: big.NewInt(42)}
	cp := orig.Copy()
	cp.Balance.SetInt64(0)
	assert.Equal(t, big.NewInt(42), orig.Balance)

	empty := Checkpoint{}.Copy()
	assert.Nil(t, empty.Balance)
}

func TestManualClock(t *testing.T) {
	var c Clock = NewManualClock(5)
	assert.Equal(t, idx.Block(5), c.Current())

	mc := c.(*ManualClock)
	assert.Equal(t, idx.Block(8), mc.Advance(3))
	mc.Set(100)
	assert.Equal(t, idx.Block(100), c.Current())
}

func TestVoteCast_Hash(t *testing.T) {
	voter := common.HexToAddress("0x1")
	a := VoteCast{Seq: 0, Voter: voter, Candidate: 1, Version: 10}

	assert.Equal(t, a.Hash(), a.Hash())
	for name, b := range map[string]VoteCast{
		"seq":       {Seq: 1, Voter: voter, Candidate: 1, Version: 10},
		"voter":     {Seq: 0, Voter: common.HexToAddress("0x2"), Candidate: 1, Version: 10},
		"candidate": {Seq: 0, Voter: voter, Candidate: 2, Version: 10},
		"version":   {Seq: 0, Voter: voter, Candidate: 1, Version: 11},
	} {
		assert.NotEqual(t, a.Hash(), b.Hash(), name)
	}
}

func TestCandidateID(t *testing.T) {
	assert.Equal(t, big.NewInt(3), CandidateID(3).Big())
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 3}, CandidateID(3).Bytes())
	assert.Equal(t, CandidateID(0), NoCandidate)
}
