// Package ledger implements the versioned balance ledger: an append-only,
// per-account history of (block, balance) checkpoints that answers
// point-in-time balance queries.
//
// Layout on disk (any go-ethereum ethdb.KeyValueStore):
//
//	'c' | address(20) | ^version(8, big-endian)  ->  RLP(balance)
//
// The version is stored as its one's complement so that a forward prefix
// iteration starting at ^v lands on the greatest checkpoint version <= v.
// Only the latest checkpoint of each account is cached in memory.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-ballot/inter"
)

// Standard ledger errors. They are returned unwrapped so callers can compare
// them directly.
var (
	ErrInvalidAmount       = errors.New("ledger: amount must be positive")
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
	ErrVersionRegression   = errors.New("ledger: version precedes the latest checkpoint")
)

const (
	checkpointPrefix = byte('c')
	versionLen       = 8
)

// Ledger is the surface an external balance ledger must provide to stand in
// for Store.
type Ledger interface {
	Credit(acc common.Address, amount *big.Int, at idx.Block) error
	Debit(acc common.Address, amount *big.Int, at idx.Block) error
	Transfer(from, to common.Address, amount *big.Int, at idx.Block) error
	BalanceAt(acc common.Address, version idx.Block) *big.Int
}

var _ Ledger = (*Store)(nil)

// Config tunes a Store.
type Config struct {
	// HeadCacheSize bounds how many accounts keep their latest checkpoint in memory.
	HeadCacheSize int
	// Log receives write events at debug level. Nil means the logrus standard logger.
	Log logrus.FieldLogger
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{HeadCacheSize: 16 * 1024}
}

// Store is the versioned balance ledger. It is not safe for concurrent
// writers; reads never mutate and may run alongside each other.
type Store struct {
	db    ethdb.KeyValueStore
	clock inter.Clock

	// heads caches the latest checkpoint per account. A zero Checkpoint
	// (nil Balance) records that the account has no history.
	heads *lru.Cache[common.Address, inter.Checkpoint]

	log logrus.FieldLogger
}

// New wraps db as a balance ledger. The clock is only read, by BalanceNow.
func New(db ethdb.KeyValueStore, clock inter.Clock, cfg Config) *Store {
	if cfg.HeadCacheSize <= 0 {
		cfg.HeadCacheSize = DefaultConfig().HeadCacheSize
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	heads, err := lru.New[common.Address, inter.Checkpoint](cfg.HeadCacheSize)
	if err != nil {
		panic(err)
	}
	return &Store{
		db:    db,
		clock: clock,
		heads: heads,
		log:   cfg.Log.WithField("module", "ledger"),
	}
}

// delta is a signed balance change for one account.
type delta struct {
	acc    common.Address
	amount *big.Int
}

// Credit increases the balance of acc by amount at version at.
func (s *Store) Credit(acc common.Address, amount *big.Int, at idx.Block) error {
	if !positive(amount) {
		return ErrInvalidAmount
	}
	return s.apply(at, delta{acc, amount})
}

// Debit decreases the balance of acc by amount at version at. Debiting more
// than the latest balance fails with ErrInsufficientBalance.
func (s *Store) Debit(acc common.Address, amount *big.Int, at idx.Block) error {
	if !positive(amount) {
		return ErrInvalidAmount
	}
	return s.apply(at, delta{acc, new(big.Int).Neg(amount)})
}

// Transfer moves amount from one account to another in a single write.
func (s *Store) Transfer(from, to common.Address, amount *big.Int, at idx.Block) error {
	if !positive(amount) {
		return ErrInvalidAmount
	}
	return s.apply(at, delta{from, new(big.Int).Neg(amount)}, delta{to, amount})
}

// apply validates every delta against the latest checkpoints, then writes
// all resulting checkpoints in one batch. Nothing is written when any delta
// is rejected.
func (s *Store) apply(at idx.Block, deltas ...delta) error {
	next := make(map[common.Address]inter.Checkpoint, len(deltas))
	order := make([]common.Address, 0, len(deltas))

	for _, d := range deltas {
		cur, staged := next[d.acc]
		if !staged {
			head, ok := s.head(d.acc)
			if ok && at < head.Version {
				return ErrVersionRegression
			}
			cur = head
			if !ok {
				cur = inter.Checkpoint{Version: at, Balance: new(big.Int)}
			}
			order = append(order, d.acc)
		}
		balance := new(big.Int).Add(cur.Balance, d.amount)
		if balance.Sign() < 0 {
			return ErrInsufficientBalance
		}
		next[d.acc] = inter.Checkpoint{Version: at, Balance: balance}
	}

	batch := s.db.NewBatch()
	for _, acc := range order {
		cp := next[acc]
		enc, err := rlp.EncodeToBytes(cp.Balance)
		if err != nil {
			return err
		}
		if err := batch.Put(checkpointKey(acc, cp.Version), enc); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}

	for _, acc := range order {
		cp := next[acc]
		s.heads.Add(acc, cp)
		s.log.WithFields(logrus.Fields{
			"account": acc.Hex(),
			"version": cp.Version,
			"balance": cp.Balance,
		}).Debug("Checkpoint written")
	}
	return nil
}

// BalanceAt returns the balance acc held at version: the balance of the
// greatest checkpoint <= version, zero when there is none. Versions past the
// last checkpoint see the last balance.
func (s *Store) BalanceAt(acc common.Address, version idx.Block) *big.Int {
	head, ok := s.head(acc)
	if !ok {
		return new(big.Int)
	}
	if version >= head.Version {
		return new(big.Int).Set(head.Balance)
	}
	cp, ok := s.seek(acc, version)
	if !ok {
		return new(big.Int)
	}
	return cp.Balance
}

// BalanceNow returns the balance of acc at the host's current block.
func (s *Store) BalanceNow(acc common.Address) *big.Int {
	return s.BalanceAt(acc, s.clock.Current())
}

// LastCheckpoint returns the latest checkpoint of acc.
func (s *Store) LastCheckpoint(acc common.Address) (inter.Checkpoint, bool) {
	head, ok := s.head(acc)
	if !ok {
		return inter.Checkpoint{}, false
	}
	return head.Copy(), true
}

// History returns the full checkpoint history of acc, oldest first.
func (s *Store) History(acc common.Address) inter.Checkpoints {
	it := s.db.NewIterator(accountPrefix(acc), nil)
	defer it.Release()

	var history inter.Checkpoints
	for it.Next() {
		history = append(history, decodeCheckpoint(it.Key(), it.Value()))
	}
	if err := it.Error(); err != nil {
		panic(fmt.Sprintf("ledger: can't iterate history of %s: %v", acc.Hex(), err))
	}
	// keys are ordered by descending version
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history
}

// head returns the cached latest checkpoint, loading it on a miss.
func (s *Store) head(acc common.Address) (inter.Checkpoint, bool) {
	if cp, ok := s.heads.Get(acc); ok {
		return cp, cp.Balance != nil
	}
	cp, ok := s.seek(acc, math.MaxUint64)
	s.heads.Add(acc, cp)
	return cp, ok
}

// seek finds the checkpoint with the greatest version <= version.
func (s *Store) seek(acc common.Address, version idx.Block) (inter.Checkpoint, bool) {
	it := s.db.NewIterator(accountPrefix(acc), bigendian.Uint64ToBytes(^uint64(version)))
	defer it.Release()

	if !it.Next() {
		if err := it.Error(); err != nil {
			panic(fmt.Sprintf("ledger: can't seek %s at %d: %v", acc.Hex(), version, err))
		}
		return inter.Checkpoint{}, false
	}
	return decodeCheckpoint(it.Key(), it.Value()), true
}

func accountPrefix(acc common.Address) []byte {
	prefix := make([]byte, 0, 1+common.AddressLength)
	prefix = append(prefix, checkpointPrefix)
	return append(prefix, acc.Bytes()...)
}

func checkpointKey(acc common.Address, version idx.Block) []byte {
	return append(accountPrefix(acc), bigendian.Uint64ToBytes(^uint64(version))...)
}

// decodeCheckpoint panics on malformed entries: they can only come from a
// corrupted database.
func decodeCheckpoint(key, value []byte) inter.Checkpoint {
	if len(key) < versionLen {
		panic(fmt.Sprintf("ledger: malformed checkpoint key %x", key))
	}
	version := ^bigendian.BytesToUint64(key[len(key)-versionLen:])
	balance := new(big.Int)
	if err := rlp.DecodeBytes(value, balance); err != nil {
		panic(fmt.Sprintf("ledger: can't decode checkpoint %x: %v", key, err))
	}
	return inter.Checkpoint{Version: idx.Block(version), Balance: balance}
}

func positive(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0
}
