package voting

import (
	"testing"

	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-ballot/inter"
	"github.com/rony4d/go-opera-ballot/ledger"
	"github.com/rony4d/go-opera-ballot/opera"
)

func TestSession_Reopen(t *testing.T) {
	env := newTestEnv(t)
	env.generate(t, accounts[1], 100)
	env.vote(t, accounts[1], 3)

	t.Run("same rules", func(t *testing.T) {
		s, err := NewSession(env.db, env.rules, env.ledger, env.clock, nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), s.VotersCount())
		assert.Equal(t, inter.CandidateID(3), s.ChoiceOf(accounts[1]))
	})

	t.Run("different rules", func(t *testing.T) {
		other := env.rules
		other.Candidates++
		_, err := NewSession(env.db, other, env.ledger, env.clock, nil)
		require.Equal(t, ErrRulesMismatch, err)

		_, err = NewSession(env.db, opera.FakeRules(owner), env.ledger, env.clock, nil)
		require.Equal(t, ErrRulesMismatch, err)
	})

	t.Run("stored rules", func(t *testing.T) {
		s, err := OpenSession(env.db, env.ledger, env.clock, nil)
		require.NoError(t, err)
		assert.Equal(t, env.rules, s.Rules())
		assert.Equal(t, env.rules.Hash(), s.Rules().Hash())
		assert.Equal(t, env.rules.Address(), s.Address())
		assert.Equal(t, []int64{0, 0, 100, 0, 0}, int64s(s.GetSummary().Amounts))
		assert.Equal(t, uint64(1), s.LogsCount())
	})

	t.Run("reopened after the end block", func(t *testing.T) {
		env.clock.Set(opera.FakeEndBlock + 10)
		s, err := OpenSession(env.db, env.ledger, env.clock, nil)
		require.NoError(t, err)
		_, err = s.Vote(accounts[2], 1)
		require.Equal(t, ErrVotingClosed, err)
		assert.Equal(t, uint64(1), s.VotersCount())
	})
}

func TestSession_InvalidRules(t *testing.T) {
	db := memorydb.New()
	clock := inter.NewManualClock(100)
	l := ledger.New(db, clock, ledger.DefaultConfig())

	_, err := NewSession(db, opera.NewRules("none", 0, 200, owner, owner), l, clock, nil)
	require.Equal(t, opera.ErrNoCandidates, err)

	_, err = NewSession(db, opera.NewRules("late", 2, 99, owner, owner), l, clock, nil)
	require.Equal(t, opera.ErrEndInPast, err)

	_, err = OpenSession(db, l, clock, nil)
	require.Equal(t, ErrNoSession, err)

	// end == current is still votable
	s, err := NewSession(db, opera.NewRules("now", 2, 100, owner, owner), l, clock, nil)
	require.NoError(t, err)
	_, err = s.Vote(accounts[1], 2)
	require.NoError(t, err)
}

func TestSession_ExternalBalances(t *testing.T) {
	db := memorydb.New()
	clock := inter.NewManualClock(1)
	balances := fixedBalances{accounts[1]: 7, accounts[2]: 11}

	s, err := NewSession(db, opera.NewRules("remote", 2, 10, owner, owner), balances, clock, nil)
	require.NoError(t, err)
	_, err = s.Vote(accounts[1], 1)
	require.NoError(t, err)
	_, err = s.Vote(accounts[2], 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{18, 0}, int64s(s.GetSummary().Amounts))
}
