package voting

import (
	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
)

// Session state layout. The ledger owns prefix 'c' of the same database.
//
//	'v' | address        -> RLP(voterRecord)
//	'p' | position(8)    -> address
//	'e' | seq(8)         -> RLP(inter.VoteCast)
//	'm' | name           -> counters
//	'r'                  -> RLP(opera.Rules)
const (
	voterPrefix    = byte('v')
	positionPrefix = byte('p')
	eventPrefix    = byte('e')
	metaPrefix     = byte('m')
	rulesPrefix    = byte('r')
)

var (
	votersCountKey = []byte{metaPrefix, 'v', 'o', 't', 'e', 'r', 's'}
	eventsCountKey = []byte{metaPrefix, 'e', 'v', 'e', 'n', 't', 's'}
	rulesKey       = []byte{rulesPrefix}
)

func voterKey(voter common.Address) []byte {
	return append([]byte{voterPrefix}, voter.Bytes()...)
}

func positionKey(position uint64) []byte {
	return append([]byte{positionPrefix}, bigendian.Uint64ToBytes(position)...)
}

func eventKey(seq uint64) []byte {
	return append([]byte{eventPrefix}, bigendian.Uint64ToBytes(seq)...)
}

// readCounter returns the counter stored under key, zero when missing.
func readCounter(db ethdb.KeyValueReader, key []byte) uint64 {
	raw, err := db.Get(key)
	if err != nil || len(raw) == 0 {
		return 0
	}
	return bigendian.BytesToUint64(raw)
}
