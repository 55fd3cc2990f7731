// Package genesis describes the initial state of a ballot deployment: the
// session rules and the balances credited before the first vote.
//
// Fake genesis builds a throwaway deployment from deterministic keys, the
// same way every time, so that tests and the fakenet command can refer to
// accounts by index.
package genesis

import (
	"bytes"
	"crypto/ecdsa"
	"math/big"
	"math/rand"
	"sort"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rony4d/go-opera-ballot/ledger"
	"github.com/rony4d/go-opera-ballot/opera"
)

// Genesis is the initial state of a deployment.
type Genesis struct {
	Rules opera.Rules
	// Block is the version the allocation is credited at.
	Block idx.Block
	Alloc map[common.Address]*big.Int
}

// FakeGenesis returns a fake deployment owned by FakeAccount(0) in which
// FakeAccount(1..accounts) each hold balance at opera.FakeStartBlock.
func FakeGenesis(accounts int, balance *big.Int) Genesis {
	g := Genesis{
		Rules: opera.FakeRules(FakeAccount(0)),
		Block: opera.FakeStartBlock,
		Alloc: make(map[common.Address]*big.Int, accounts),
	}
	for i := 1; i <= accounts; i++ {
		g.Alloc[FakeAccount(i)] = new(big.Int).Set(balance)
	}
	return g
}

// Accounts returns the allocated accounts in ascending byte order.
func (g Genesis) Accounts() []common.Address {
	accs := make([]common.Address, 0, len(g.Alloc))
	for acc := range g.Alloc {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool {
		return bytes.Compare(accs[i].Bytes(), accs[j].Bytes()) < 0
	})
	return accs
}

// Apply credits the allocation to l at g.Block. Zero balances are skipped.
// Apply stops at the first failing credit.
func (g Genesis) Apply(l ledger.Ledger) error {
	for _, acc := range g.Accounts() {
		balance := g.Alloc[acc]
		if balance == nil || balance.Sign() == 0 {
			continue
		}
		if err := l.Credit(acc, balance, g.Block); err != nil {
			return err
		}
	}
	return nil
}

// FakeKey returns the n-th deterministic fake private key.
func FakeKey(n int) *ecdsa.PrivateKey {
	reader := rand.New(rand.NewSource(int64(n)))
	for {
		seed := make([]byte, 32)
		if _, err := reader.Read(seed); err != nil {
			panic(err)
		}
		// draw again on an out-of-range scalar
		key, err := crypto.ToECDSA(seed)
		if err == nil {
			return key
		}
	}
}

// FakeAccount returns the address of FakeKey(n).
func FakeAccount(n int) common.Address {
	return crypto.PubkeyToAddress(FakeKey(n).PublicKey)
}
