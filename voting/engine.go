// Package voting implements the stake-weighted ballot: the vote registry,
// the voting window guard, the VoteCast event log and the tally engine that
// joins voters with their weights from a versioned balance ledger.
//
// Candidate choices are not versioned. Historical queries reconstruct the
// weight of each voter at a past block, but always report the voter's
// current choice.
package voting

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-ballot/inter"
)

// BalanceReader is the read side of the balance ledger the engine weighs
// votes with. The ledger may live outside this process.
type BalanceReader interface {
	BalanceAt(acc common.Address, version idx.Block) *big.Int
}

// VoterPage is a window of the voter list as three parallel slices.
type VoterPage struct {
	Voters  []common.Address
	Choices []inter.CandidateID
	Amounts []*big.Int
}

// Len returns the number of voters in the page.
func (p VoterPage) Len() int {
	return len(p.Voters)
}

// Summary is the current weight behind every candidate, candidates in
// ascending id order.
type Summary struct {
	Candidates []inter.CandidateID
	Amounts    []*big.Int
}

// Engine composes the period guard, the registry and the event log, and
// weighs voters with a BalanceReader.
type Engine struct {
	db       ethdb.KeyValueStore
	guard    PeriodGuard
	registry *Registry
	events   *EventLog
	balances BalanceReader
	clock    inter.Clock

	log logrus.FieldLogger
}

// NewEngine builds a tally engine over db.
func NewEngine(db ethdb.KeyValueStore, candidates uint64, end idx.Block, balances BalanceReader, clock inter.Clock, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		db:       db,
		guard:    NewPeriodGuard(end),
		registry: NewRegistry(db, candidates),
		events:   NewEventLog(db),
		balances: balances,
		clock:    clock,
		log:      log.WithField("module", "voting"),
	}
}

// Vote records candidate as the choice of voter at block current and appends
// a VoteCast record. Either everything is written or, on error, nothing.
func (e *Engine) Vote(voter common.Address, candidate inter.CandidateID, current idx.Block) (inter.VoteCast, error) {
	if err := e.guard.CheckOpen(current); err != nil {
		return inter.VoteCast{}, err
	}

	batch := e.db.NewBatch()
	first, err := e.registry.stageVote(batch, voter, candidate)
	if err != nil {
		return inter.VoteCast{}, err
	}
	rec, err := e.events.stage(batch, voter, candidate, current)
	if err != nil {
		return inter.VoteCast{}, err
	}
	if err := batch.Write(); err != nil {
		return inter.VoteCast{}, err
	}

	e.log.WithFields(logrus.Fields{
		"voter":     voter.Hex(),
		"candidate": candidate,
		"block":     current,
		"first":     first,
	}).Debug("Vote cast")
	return rec, nil
}

// GetVotersAt returns the voters at positions [offset, offset+limit) in
// voting order, with their current choices and their weights at version.
// Out-of-range windows are clamped, never rejected.
func (e *Engine) GetVotersAt(offset, limit uint64, version idx.Block) VoterPage {
	count := e.registry.VotersCount()
	end := count
	if offset < count && limit < count-offset {
		end = offset + limit
	}
	if offset > end {
		offset = end
	}

	n := end - offset
	page := VoterPage{
		Voters:  make([]common.Address, 0, n),
		Choices: make([]inter.CandidateID, 0, n),
		Amounts: make([]*big.Int, 0, n),
	}
	for i := offset; i < end; i++ {
		voter, ok := e.registry.VoterAt(i)
		if !ok {
			break
		}
		page.Voters = append(page.Voters, voter)
		page.Choices = append(page.Choices, e.registry.ChoiceOf(voter))
		page.Amounts = append(page.Amounts, e.balances.BalanceAt(voter, version))
	}
	return page
}

// GetVoters is GetVotersAt at the host's current block.
func (e *Engine) GetVoters(offset, limit uint64) VoterPage {
	return e.GetVotersAt(offset, limit, e.clock.Current())
}

// GetSummary sums the current weight of every voter by current choice. Every
// candidate appears once, including those nobody supports.
func (e *Engine) GetSummary() Summary {
	candidates := e.registry.Candidates()
	summary := Summary{
		Candidates: make([]inter.CandidateID, candidates),
		Amounts:    make([]*big.Int, candidates),
	}
	for i := range summary.Candidates {
		summary.Candidates[i] = inter.CandidateID(i + 1)
		summary.Amounts[i] = new(big.Int)
	}

	now := e.clock.Current()
	count := e.registry.VotersCount()
	for i := uint64(0); i < count; i++ {
		voter, ok := e.registry.VoterAt(i)
		if !ok {
			break
		}
		choice := e.registry.ChoiceOf(voter)
		if !e.registry.Valid(choice) {
			continue
		}
		summary.Amounts[choice-1].Add(summary.Amounts[choice-1], e.balances.BalanceAt(voter, now))
	}
	return summary
}

// VotersCount returns the number of distinct voters.
func (e *Engine) VotersCount() uint64 {
	return e.registry.VotersCount()
}

// ChoiceOf returns the current choice of voter, inter.NoCandidate if none.
func (e *Engine) ChoiceOf(voter common.Address) inter.CandidateID {
	return e.registry.ChoiceOf(voter)
}

// Candidates returns the configured candidate count.
func (e *Engine) Candidates() uint64 {
	return e.registry.Candidates()
}

// EndBlock returns the last votable block.
func (e *Engine) EndBlock() idx.Block {
	return e.guard.End()
}

// Logs returns VoteCast records with sequence numbers in [from, to).
func (e *Engine) Logs(from, to uint64) []inter.VoteCast {
	return e.events.Range(from, to)
}

// LogsCount returns the number of VoteCast records.
func (e *Engine) LogsCount() uint64 {
	return e.events.Len()
}
