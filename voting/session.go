package voting

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-ballot/inter"
	"github.com/rony4d/go-opera-ballot/opera"
)

// Session is a ballot bound to its persisted rules and to the host clock.
// Votes are accepted at whatever block the clock reports.
type Session struct {
	engine *Engine
	rules  opera.Rules
	clock  inter.Clock
}

// NewSession creates the session described by rules in db, or reopens it if
// db already holds a session with exactly these rules.
func NewSession(db ethdb.KeyValueStore, rules opera.Rules, balances BalanceReader, clock inter.Clock, log logrus.FieldLogger) (*Session, error) {
	stored, ok, err := readRules(db)
	if err != nil {
		return nil, err
	}
	if ok {
		if stored.Hash() != rules.Hash() {
			return nil, ErrRulesMismatch
		}
		return newSession(db, stored, balances, clock, log), nil
	}

	if err := rules.Validate(clock.Current()); err != nil {
		return nil, err
	}
	enc, err := rlp.EncodeToBytes(&rules)
	if err != nil {
		return nil, err
	}
	if err := db.Put(rulesKey, enc); err != nil {
		return nil, err
	}
	s := newSession(db, rules, balances, clock, log)
	s.engine.log.WithFields(logrus.Fields{
		"name":       rules.Name,
		"id":         rules.ID,
		"candidates": rules.Candidates,
		"end":        rules.EndBlock,
	}).Info("Session created")
	return s, nil
}

// OpenSession reopens the session stored in db.
func OpenSession(db ethdb.KeyValueStore, balances BalanceReader, clock inter.Clock, log logrus.FieldLogger) (*Session, error) {
	rules, ok, err := readRules(db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	return newSession(db, rules, balances, clock, log), nil
}

func newSession(db ethdb.KeyValueStore, rules opera.Rules, balances BalanceReader, clock inter.Clock, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("session", rules.Name)
	return &Session{
		engine: NewEngine(db, rules.Candidates, rules.EndBlock, balances, clock, log),
		rules:  rules,
		clock:  clock,
	}
}

func readRules(db ethdb.KeyValueReader) (opera.Rules, bool, error) {
	raw, err := db.Get(rulesKey)
	if err != nil || len(raw) == 0 {
		return opera.Rules{}, false, nil
	}
	var rules opera.Rules
	if err := rlp.DecodeBytes(raw, &rules); err != nil {
		return opera.Rules{}, false, fmt.Errorf("voting: can't decode stored rules: %w", err)
	}
	return rules, true, nil
}

// Vote records candidate as sender's choice at the current block.
func (s *Session) Vote(sender common.Address, candidate inter.CandidateID) (inter.VoteCast, error) {
	return s.engine.Vote(sender, candidate, s.clock.Current())
}

// Rules returns the session rules.
func (s *Session) Rules() opera.Rules {
	return s.rules
}

// Address returns the session's own ledger account.
func (s *Session) Address() common.Address {
	return s.rules.Address()
}

// Open reports whether votes are accepted at the current block.
func (s *Session) Open() bool {
	return s.engine.guard.CheckOpen(s.clock.Current()) == nil
}

func (s *Session) GetSummary() Summary {
	return s.engine.GetSummary()
}

func (s *Session) GetVoters(offset, limit uint64) VoterPage {
	return s.engine.GetVoters(offset, limit)
}

func (s *Session) GetVotersAt(offset, limit uint64, version idx.Block) VoterPage {
	return s.engine.GetVotersAt(offset, limit, version)
}

func (s *Session) VotersCount() uint64 {
	return s.engine.VotersCount()
}

func (s *Session) ChoiceOf(voter common.Address) inter.CandidateID {
	return s.engine.ChoiceOf(voter)
}

func (s *Session) Candidates() uint64 {
	return s.engine.Candidates()
}

func (s *Session) EndBlock() idx.Block {
	return s.engine.EndBlock()
}

// Logs returns VoteCast records with sequence numbers in [from, to).
func (s *Session) Logs(from, to uint64) []inter.VoteCast {
	return s.engine.Logs(from, to)
}

func (s *Session) LogsCount() uint64 {
	return s.engine.LogsCount()
}
