package voting

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-opera-ballot/inter"
)

// voterRecord is the stored entry of one voter.
type voterRecord struct {
	Choice   inter.CandidateID
	Position uint64
}

// Registry holds every voter's current choice and the list of distinct
// voters in first-vote order.
type Registry struct {
	db         ethdb.KeyValueStore
	candidates uint64
}

// NewRegistry returns a registry accepting candidate ids in [1, candidates].
func NewRegistry(db ethdb.KeyValueStore, candidates uint64) *Registry {
	return &Registry{db: db, candidates: candidates}
}

// Candidates returns the configured candidate count.
func (r *Registry) Candidates() uint64 {
	return r.candidates
}

// Valid reports whether candidate is a votable id.
func (r *Registry) Valid(candidate inter.CandidateID) bool {
	return candidate >= 1 && uint64(candidate) <= r.candidates
}

// CastVote records candidate as the current choice of voter. It returns true
// when voter had never voted before and was appended to the voter list.
func (r *Registry) CastVote(voter common.Address, candidate inter.CandidateID) (bool, error) {
	batch := r.db.NewBatch()
	first, err := r.stageVote(batch, voter, candidate)
	if err != nil {
		return false, err
	}
	return first, batch.Write()
}

// stageVote validates the vote and stages its writes into w. Nothing is
// staged when the candidate is invalid.
func (r *Registry) stageVote(w ethdb.KeyValueWriter, voter common.Address, candidate inter.CandidateID) (bool, error) {
	if !r.Valid(candidate) {
		return false, ErrInvalidCandidate
	}

	rec, exists := r.record(voter)
	if exists && rec.Choice == candidate {
		return false, nil
	}
	if !exists {
		rec.Position = r.VotersCount()
		if err := w.Put(positionKey(rec.Position), voter.Bytes()); err != nil {
			return false, err
		}
		if err := w.Put(votersCountKey, bigendian.Uint64ToBytes(rec.Position+1)); err != nil {
			return false, err
		}
	}
	rec.Choice = candidate

	enc, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return false, err
	}
	return !exists, w.Put(voterKey(voter), enc)
}

// VotersCount returns the number of distinct accounts that ever voted.
func (r *Registry) VotersCount() uint64 {
	return readCounter(r.db, votersCountKey)
}

// ChoiceOf returns the current choice of voter, NoCandidate if none.
func (r *Registry) ChoiceOf(voter common.Address) inter.CandidateID {
	rec, ok := r.record(voter)
	if !ok {
		return inter.NoCandidate
	}
	return rec.Choice
}

// VoterAt returns the voter at position index in voting order.
func (r *Registry) VoterAt(index uint64) (common.Address, bool) {
	raw, err := r.db.Get(positionKey(index))
	if err != nil || len(raw) != common.AddressLength {
		return common.Address{}, false
	}
	return common.BytesToAddress(raw), true
}

func (r *Registry) record(voter common.Address) (voterRecord, bool) {
	raw, err := r.db.Get(voterKey(voter))
	if err != nil || len(raw) == 0 {
		return voterRecord{}, false
	}
	var rec voterRecord
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		panic(fmt.Sprintf("voting: can't decode voter %s: %v", voter.Hex(), err))
	}
	return rec, true
}
