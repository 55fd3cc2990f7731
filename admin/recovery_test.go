package admin

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-ballot/inter"
	"github.com/rony4d/go-opera-ballot/ledger"
	"github.com/rony4d/go-opera-ballot/opera"
)

func TestRecovery_ClaimTokens(t *testing.T) {
	owner := common.HexToAddress("0xa0")
	user := common.HexToAddress("0xa1")

	clock := inter.NewManualClock(opera.FakeStartBlock)
	store := ledger.New(memorydb.New(), clock, ledger.DefaultConfig())
	rules := opera.FakeRules(owner)
	r := NewRecovery(rules, store, clock, nil)

	require.NoError(t, store.Credit(user, big.NewInt(100), clock.Current()))
	require.NoError(t, store.Transfer(user, rules.Address(), big.NewInt(100), clock.Current()))
	assert.Equal(t, big.NewInt(100), store.BalanceNow(rules.Address()))

	_, err := r.ClaimTokens(user)
	require.Equal(t, ErrUnauthorized, err)
	assert.Equal(t, big.NewInt(100), store.BalanceNow(rules.Address()))

	clock.Advance(1)
	claim, err := r.ClaimTokens(owner)
	require.NoError(t, err)
	assert.Equal(t, Claim{
		Token:   rules.Ledger,
		To:      owner,
		Amount:  big.NewInt(100),
		Version: opera.FakeStartBlock + 1,
	}, claim)

	assert.Equal(t, big.NewInt(100), store.BalanceNow(owner))
	assert.Equal(t, 0, store.BalanceNow(user).Sign())
	assert.Equal(t, 0, store.BalanceNow(rules.Address()).Sign())
	// history before the claim is untouched
	assert.Equal(t, big.NewInt(100), store.BalanceAt(rules.Address(), opera.FakeStartBlock))

	claim, err = r.ClaimTokens(owner)
	require.NoError(t, err)
	assert.Equal(t, 0, claim.Amount.Sign())
	assert.Len(t, store.History(owner), 1)
}
