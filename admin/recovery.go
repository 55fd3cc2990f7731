// Package admin holds owner-only operations that sit outside the ballot
// core. Nothing here reads or writes voter state.
package admin

import (
	"errors"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-ballot/inter"
	"github.com/rony4d/go-opera-ballot/ledger"
	"github.com/rony4d/go-opera-ballot/opera"
)

// ErrUnauthorized is returned when someone other than the owner calls an
// owner-only operation.
var ErrUnauthorized = errors.New("admin: caller is not the session owner")

// Claim describes one recovery of tokens stuck in the session account.
type Claim struct {
	Token   common.Address
	To      common.Address
	Amount  *big.Int
	Version idx.Block
}

// Recovery lets the session owner sweep tokens sent to the session account.
type Recovery struct {
	rules  opera.Rules
	ledger ledger.Ledger
	clock  inter.Clock

	log logrus.FieldLogger
}

// NewRecovery returns the recovery gate of the session described by rules.
func NewRecovery(rules opera.Rules, l ledger.Ledger, clock inter.Clock, log logrus.FieldLogger) *Recovery {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Recovery{
		rules:  rules,
		ledger: l,
		clock:  clock,
		log:    log.WithField("module", "admin"),
	}
}

// ClaimTokens moves the whole balance of the session account to the owner at
// the current block. An empty account yields a zero claim and no write.
func (r *Recovery) ClaimTokens(caller common.Address) (Claim, error) {
	if caller != r.rules.Owner {
		return Claim{}, ErrUnauthorized
	}

	now := r.clock.Current()
	claim := Claim{
		Token:   r.rules.Ledger,
		To:      r.rules.Owner,
		Amount:  r.ledger.BalanceAt(r.rules.Address(), now),
		Version: now,
	}
	if claim.Amount.Sign() == 0 {
		return claim, nil
	}
	if err := r.ledger.Transfer(r.rules.Address(), r.rules.Owner, claim.Amount, now); err != nil {
		return Claim{}, err
	}

	r.log.WithFields(logrus.Fields{
		"owner":   claim.To.Hex(),
		"amount":  claim.Amount,
		"version": now,
	}).Info("Tokens claimed")
	return claim, nil
}
