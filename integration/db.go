package integration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
)

// DBDirName is the database directory under the data directory.
const DBDirName = "ballotdata"

// OpenDB opens the key-value store selected by preset. datadir is ignored by
// the memory backend.
func OpenDB(datadir string, preset PresetConfig, readonly bool) (ethdb.KeyValueStore, error) {
	switch preset.DBBackend {
	case MemoryBackend:
		return memorydb.New(), nil
	case LevelDBBackend, "":
		path := filepath.Join(datadir, DBDirName)
		if !readonly {
			if err := os.MkdirAll(path, 0700); err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", path, err)
			}
		}
		db, err := leveldb.New(path, preset.CacheMB, preset.Handles, "ballot/db/", readonly)
		if err != nil {
			return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown db backend: %q", preset.DBBackend)
	}
}
