package voting

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-ballot/inter"
	"github.com/rony4d/go-opera-ballot/ledger"
	"github.com/rony4d/go-opera-ballot/opera"
)

var (
	owner    = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	accounts = []common.Address{
		owner,
		common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		common.HexToAddress("0x00000000000000000000000000000000000000a2"),
		common.HexToAddress("0x00000000000000000000000000000000000000a3"),
		common.HexToAddress("0x00000000000000000000000000000000000000a4"),
	}
)

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

// testEnv is a fake session at opera.FakeStartBlock over an in-memory ledger.
type testEnv struct {
	db      ethdb.KeyValueStore
	clock   *inter.ManualClock
	ledger  *ledger.Store
	rules   opera.Rules
	session *Session
}

func newTestEnv(t testingT) *testEnv {
	t.Helper()
	db := memorydb.New()
	clock := inter.NewManualClock(opera.FakeStartBlock)
	l := ledger.New(db, clock, ledger.DefaultConfig())
	rules := opera.FakeRules(owner)
	s, err := NewSession(db, rules, l, clock, nil)
	require.NoError(t, err)
	return &testEnv{db: db, clock: clock, ledger: l, rules: rules, session: s}
}

// generate credits amount to acc at the current block.
func (e *testEnv) generate(t testingT, acc common.Address, amount int64) {
	t.Helper()
	require.NoError(t, e.ledger.Credit(acc, big.NewInt(amount), e.clock.Current()))
}

func (e *testEnv) vote(t testingT, voter common.Address, candidate inter.CandidateID) inter.VoteCast {
	t.Helper()
	rec, err := e.session.Vote(voter, candidate)
	require.NoError(t, err)
	return rec
}

func int64s(vv []*big.Int) []int64 {
	out := make([]int64, len(vv))
	for i, v := range vv {
		out[i] = v.Int64()
	}
	return out
}

func choices(cc []inter.CandidateID) []uint64 {
	out := make([]uint64, len(cc))
	for i, c := range cc {
		out[i] = uint64(c)
	}
	return out
}

// fixedBalances is a BalanceReader whose balances never change.
type fixedBalances map[common.Address]int64

func (b fixedBalances) BalanceAt(acc common.Address, _ idx.Block) *big.Int {
	return big.NewInt(b[acc])
}
