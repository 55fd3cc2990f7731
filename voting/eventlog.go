package voting

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-opera-ballot/inter"
)

// EventLog is the append-only sequence of VoteCast records. Records are
// never pruned or reordered.
type EventLog struct {
	db ethdb.KeyValueStore
}

// NewEventLog returns the event log stored in db.
func NewEventLog(db ethdb.KeyValueStore) *EventLog {
	return &EventLog{db: db}
}

// Len returns the number of records.
func (l *EventLog) Len() uint64 {
	return readCounter(l.db, eventsCountKey)
}

// stage appends a record to w and returns it.
func (l *EventLog) stage(w ethdb.KeyValueWriter, voter common.Address, candidate inter.CandidateID, version idx.Block) (inter.VoteCast, error) {
	rec := inter.VoteCast{
		Seq:       l.Len(),
		Voter:     voter,
		Candidate: candidate,
		Version:   version,
	}
	enc, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return inter.VoteCast{}, err
	}
	if err := w.Put(eventKey(rec.Seq), enc); err != nil {
		return inter.VoteCast{}, err
	}
	if err := w.Put(eventsCountKey, bigendian.Uint64ToBytes(rec.Seq+1)); err != nil {
		return inter.VoteCast{}, err
	}
	return rec, nil
}

// Range returns the records with sequence numbers in [from, to), clamped to
// the log length.
func (l *EventLog) Range(from, to uint64) []inter.VoteCast {
	if n := l.Len(); to > n {
		to = n
	}
	if from >= to {
		return []inter.VoteCast{}
	}

	records := make([]inter.VoteCast, 0, to-from)
	it := l.db.NewIterator([]byte{eventPrefix}, bigendian.Uint64ToBytes(from))
	defer it.Release()
	for uint64(len(records)) < to-from && it.Next() {
		var rec inter.VoteCast
		if err := rlp.DecodeBytes(it.Value(), &rec); err != nil {
			panic(fmt.Sprintf("voting: can't decode event %x: %v", it.Key(), err))
		}
		records = append(records, rec)
	}
	if err := it.Error(); err != nil {
		panic(fmt.Sprintf("voting: can't iterate events: %v", err))
	}
	return records
}
