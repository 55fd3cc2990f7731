package voting

import (
	"math/big"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/rony4d/go-opera-ballot/inter"
	"github.com/rony4d/go-opera-ballot/opera"
)

func TestVote_InvalidCandidate(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, uint64(opera.FakeCandidates), env.session.Candidates())

	for _, candidate := range []inter.CandidateID{0, opera.FakeCandidates + 1, 1 << 40} {
		_, err := env.session.Vote(accounts[1], candidate)
		require.Equal(t, ErrInvalidCandidate, err, "candidate %d", candidate)
	}
	assert.Equal(t, uint64(0), env.session.VotersCount())
	assert.Equal(t, uint64(0), env.session.LogsCount())
	assert.Equal(t, inter.NoCandidate, env.session.ChoiceOf(accounts[1]))

	// a rejected vote leaves an earlier choice alone
	env.vote(t, accounts[1], 2)
	_, err := env.session.Vote(accounts[1], 0)
	require.Equal(t, ErrInvalidCandidate, err)
	assert.Equal(t, inter.CandidateID(2), env.session.ChoiceOf(accounts[1]))
	assert.Equal(t, uint64(1), env.session.LogsCount())
}

func TestVote_CountsDistinctVoters(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, uint64(0), env.session.VotersCount())
	env.vote(t, accounts[1], 1)
	assert.Equal(t, uint64(1), env.session.VotersCount())
	env.vote(t, accounts[2], 1)
	assert.Equal(t, uint64(2), env.session.VotersCount())

	// changing a vote doesn't add a voter
	env.vote(t, accounts[1], 2)
	assert.Equal(t, uint64(2), env.session.VotersCount())
	assert.Equal(t, inter.CandidateID(2), env.session.ChoiceOf(accounts[1]))

	// neither does repeating it, but every accepted vote is logged
	env.vote(t, accounts[1], 2)
	assert.Equal(t, uint64(2), env.session.VotersCount())
	assert.Equal(t, uint64(4), env.session.LogsCount())
}

func TestVote_EmitsVoteCast(t *testing.T) {
	env := newTestEnv(t)

	rec := env.vote(t, accounts[1], 2)
	assert.Equal(t, inter.VoteCast{
		Seq:       0,
		Voter:     accounts[1],
		Candidate: 2,
		Version:   opera.FakeStartBlock,
	}, rec)

	env.clock.Advance(5)
	rec2 := env.vote(t, accounts[2], 4)
	assert.Equal(t, uint64(1), rec2.Seq)
	assert.Equal(t, opera.FakeStartBlock+5, rec2.Version)

	logs := env.session.Logs(0, 10)
	require.Len(t, logs, 2)
	assert.Equal(t, rec, logs[0])
	assert.Equal(t, rec2, logs[1])
	assert.Equal(t, []inter.VoteCast{rec2}, env.session.Logs(1, 2))
	assert.Empty(t, env.session.Logs(2, 10))
	assert.Empty(t, env.session.Logs(1, 1))
}

func TestVote_EndBlockBoundary(t *testing.T) {
	env := newTestEnv(t)

	env.clock.Set(opera.FakeEndBlock)
	assert.True(t, env.session.Open())
	env.vote(t, accounts[1], 1)
	assert.Equal(t, uint64(1), env.session.VotersCount())

	env.clock.Set(opera.FakeEndBlock + 1)
	assert.False(t, env.session.Open())
	_, err := env.session.Vote(accounts[2], 1)
	require.Equal(t, ErrVotingClosed, err)
	_, err = env.session.Vote(accounts[1], 2)
	require.Equal(t, ErrVotingClosed, err)

	assert.Equal(t, uint64(1), env.session.VotersCount())
	assert.Equal(t, uint64(1), env.session.LogsCount())
	assert.Equal(t, inter.CandidateID(1), env.session.ChoiceOf(accounts[1]))

	// reads stay available
	assert.Equal(t, opera.FakeEndBlock, env.session.EndBlock())
	assert.Len(t, env.session.GetSummary().Candidates, opera.FakeCandidates)
}

func TestGetVoters_Pagination(t *testing.T) {
	env := newTestEnv(t)

	env.generate(t, accounts[1], 100)
	env.vote(t, accounts[1], 1)
	env.generate(t, accounts[2], 150)
	env.vote(t, accounts[2], 3)
	env.generate(t, accounts[3], 200)
	env.vote(t, accounts[3], 2)
	env.generate(t, accounts[4], 250)
	env.vote(t, accounts[4], 1)

	page := env.session.GetVoters(0, 2)
	assert.Equal(t, []common.Address{accounts[1], accounts[2]}, page.Voters)
	assert.Equal(t, []uint64{1, 3}, choices(page.Choices))
	assert.Equal(t, []int64{100, 150}, int64s(page.Amounts))

	page = env.session.GetVoters(2, 2)
	assert.Equal(t, []common.Address{accounts[3], accounts[4]}, page.Voters)
	assert.Equal(t, []uint64{2, 1}, choices(page.Choices))
	assert.Equal(t, []int64{200, 250}, int64s(page.Amounts))
}

func TestGetVoters_Clamping(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 3; i++ {
		env.vote(t, accounts[i], 1)
	}

	for _, tt := range []struct {
		name          string
		offset, limit uint64
		want          int
	}{
		{"whole list", 0, 3, 3},
		{"limit past the end", 1, 10, 2},
		{"huge limit", 2, ^uint64(0), 1},
		{"zero limit", 0, 0, 0},
		{"offset at the end", 3, 5, 0},
		{"offset past the end", 10, 5, 0},
		{"huge offset", ^uint64(0), ^uint64(0), 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			page := env.session.GetVoters(tt.offset, tt.limit)
			require.Equal(t, tt.want, page.Len())
			require.Len(t, page.Choices, tt.want)
			require.Len(t, page.Amounts, tt.want)
			for i := range page.Voters {
				require.Equal(t, accounts[int(tt.offset)+i+1], page.Voters[i])
			}
		})
	}
}

func TestGetVotersAt_HistoricalWeights(t *testing.T) {
	env := newTestEnv(t)

	block1 := env.clock.Current()
	env.generate(t, accounts[1], 100)
	env.vote(t, accounts[1], 1)

	block2 := env.clock.Advance(1)
	env.generate(t, accounts[1], 150)
	env.generate(t, accounts[2], 200)
	env.vote(t, accounts[2], 3)

	for _, tt := range []struct {
		name    string
		version uint64
		want    []int64
	}{
		{"first block", uint64(block1), []int64{100, 0}},
		{"second block", uint64(block2), []int64{250, 200}},
		{"after end block", uint64(opera.FakeEndBlock) + 1, []int64{250, 200}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			page := env.session.GetVotersAt(0, 10, idx.Block(tt.version))
			assert.Equal(t, []common.Address{accounts[1], accounts[2]}, page.Voters)
			assert.Equal(t, []uint64{1, 3}, choices(page.Choices))
			assert.Equal(t, tt.want, int64s(page.Amounts))
		})
	}
}

func TestGetVotersAt_ChoiceIsCurrent(t *testing.T) {
	env := newTestEnv(t)

	env.generate(t, accounts[1], 100)
	env.vote(t, accounts[1], 1)
	past := env.clock.Current()
	env.clock.Advance(10)
	env.vote(t, accounts[1], 4)

	page := env.session.GetVotersAt(0, 1, past)
	assert.Equal(t, []uint64{4}, choices(page.Choices))
	assert.Equal(t, []int64{100}, int64s(page.Amounts))
}

func TestGetSummary(t *testing.T) {
	env := newTestEnv(t)

	env.generate(t, accounts[1], 100)
	env.vote(t, accounts[1], 1)
	env.generate(t, accounts[2], 150)
	env.vote(t, accounts[2], 3)
	env.generate(t, accounts[3], 200)
	env.vote(t, accounts[3], 1)

	summary := env.session.GetSummary()
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, choices(summary.Candidates))
	assert.Equal(t, []int64{300, 0, 150, 0, 0}, int64s(summary.Amounts))

	// weight follows the current choice and the current balance
	env.clock.Advance(1)
	env.vote(t, accounts[3], 5)
	require.NoError(t, env.ledger.Debit(accounts[2], big.NewInt(50), env.clock.Current()))

	summary = env.session.GetSummary()
	assert.Equal(t, []int64{100, 0, 100, 0, 200}, int64s(summary.Amounts))
}

func TestGetSummary_Empty(t *testing.T) {
	env := newTestEnv(t)

	summary := env.session.GetSummary()
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, choices(summary.Candidates))
	assert.Equal(t, []int64{0, 0, 0, 0, 0}, int64s(summary.Amounts))
}

// TestSummary_EqualsGroupedVoters checks that the summary always equals the
// full voter list grouped by choice, whatever the vote and balance history.
func TestSummary_EqualsGroupedVoters(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := newTestEnv(t)

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			env.clock.Advance(idx.Block(rapid.IntRange(0, 2).Draw(t, "gap")))
			acc := rapid.SampledFrom(accounts).Draw(t, "account")
			if rapid.Bool().Draw(t, "vote") {
				candidate := inter.CandidateID(rapid.Uint64Range(0, opera.FakeCandidates+1).Draw(t, "candidate"))
				_, err := env.session.Vote(acc, candidate)
				if candidate == 0 || candidate > opera.FakeCandidates {
					if err != ErrInvalidCandidate {
						t.Fatalf("candidate %d: expected ErrInvalidCandidate, got %v", candidate, err)
					}
				} else if err != nil {
					t.Fatal(err)
				}
			} else {
				env.generate(t, acc, rapid.Int64Range(1, 1000).Draw(t, "amount"))
			}
		}

		grouped := make([]*big.Int, opera.FakeCandidates)
		for i := range grouped {
			grouped[i] = new(big.Int)
		}
		page := env.session.GetVoters(0, env.session.VotersCount())
		if uint64(page.Len()) != env.session.VotersCount() {
			t.Fatalf("page has %d voters, count is %d", page.Len(), env.session.VotersCount())
		}
		seen := make(map[common.Address]bool)
		for i, voter := range page.Voters {
			if seen[voter] {
				t.Fatalf("voter %s listed twice", voter.Hex())
			}
			seen[voter] = true
			grouped[page.Choices[i]-1].Add(grouped[page.Choices[i]-1], page.Amounts[i])
		}

		summary := env.session.GetSummary()
		for i := range grouped {
			if summary.Amounts[i].Cmp(grouped[i]) != 0 {
				t.Fatalf("candidate %d: summary %s, grouped %s", i+1, summary.Amounts[i], grouped[i])
			}
		}
	})
}
