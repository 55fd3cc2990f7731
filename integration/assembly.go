package integration

import (
	"errors"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-ballot/admin"
	"github.com/rony4d/go-opera-ballot/ledger"
	"github.com/rony4d/go-opera-ballot/opera/contracts/ballot"
	"github.com/rony4d/go-opera-ballot/opera/genesis"
	"github.com/rony4d/go-opera-ballot/voting"
)

// ErrAlreadyInitialized is returned by InitBallot for a database that
// already holds a session.
var ErrAlreadyInitialized = errors.New("integration: database already holds a session")

// Ballot is an assembled deployment over one database.
type Ballot struct {
	DB       ethdb.KeyValueStore
	Clock    *HostClock
	Ledger   *ledger.Store
	Session  *voting.Session
	Recovery *admin.Recovery
	Contract *ballot.Contract
}

// InitBallot applies g to an empty database: the host clock is moved to the
// genesis block, the allocation is credited and the session is created.
func InitBallot(db ethdb.KeyValueStore, g genesis.Genesis, preset PresetConfig, log logrus.FieldLogger) (*Ballot, error) {
	clock := NewHostClock(db)
	store := newLedger(db, clock, preset, log)
	if _, err := voting.OpenSession(db, store, clock, log); err == nil {
		return nil, ErrAlreadyInitialized
	} else if !errors.Is(err, voting.ErrNoSession) {
		return nil, err
	}

	if g.Block > clock.Current() {
		if err := clock.Set(g.Block); err != nil {
			return nil, err
		}
	}
	if err := g.Apply(store); err != nil {
		return nil, err
	}
	session, err := voting.NewSession(db, g.Rules, store, clock, log)
	if err != nil {
		return nil, err
	}
	return assemble(db, clock, store, session, log), nil
}

// OpenBallot reassembles the deployment stored in db.
func OpenBallot(db ethdb.KeyValueStore, preset PresetConfig, log logrus.FieldLogger) (*Ballot, error) {
	clock := NewHostClock(db)
	store := newLedger(db, clock, preset, log)
	session, err := voting.OpenSession(db, store, clock, log)
	if err != nil {
		return nil, err
	}
	return assemble(db, clock, store, session, log), nil
}

// Close releases the database.
func (b *Ballot) Close() error {
	return b.DB.Close()
}

func newLedger(db ethdb.KeyValueStore, clock *HostClock, preset PresetConfig, log logrus.FieldLogger) *ledger.Store {
	return ledger.New(db, clock, ledger.Config{
		HeadCacheSize: preset.HeadCacheSize,
		Log:           log,
	})
}

func assemble(db ethdb.KeyValueStore, clock *HostClock, store *ledger.Store, session *voting.Session, log logrus.FieldLogger) *Ballot {
	recovery := admin.NewRecovery(session.Rules(), store, clock, log)
	return &Ballot{
		DB:       db,
		Clock:    clock,
		Ledger:   store,
		Session:  session,
		Recovery: recovery,
		Contract: ballot.New(session, recovery),
	}
}
