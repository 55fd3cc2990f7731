package launcher

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-opera-ballot/integration"
)

// Defaults bundles the baseline values the launcher uses before config files
// and flags override them.
type Defaults struct {
	Node    NodeDefaults
	Storage StorageDefaults
	Session SessionDefaults
	FakeNet FakeNetDefaults
	Logging LoggingDefaults
}

// NodeDefaults captures the host settings.
type NodeDefaults struct {
	DataDir string //	Filesystem root holding the ballot database and the persisted host block.
}

// StorageDefaults configures the database backend and caches.
type StorageDefaults struct {
	Preset string //	Name of the storage preset (memory, default, archive) the cache sizes start from.
}

// SessionDefaults describe the session created by the init command.
type SessionDefaults struct {
	Name       string
	Candidates uint64
	EndBlock   uint64
	Ledger     common.Address
	Owner      common.Address
}

// FakeNetDefaults tune the deterministic fake deployment.
type FakeNetDefaults struct {
	Accounts int    //	Number of funded fake accounts besides the owner (fake:0).
	Balance  string //	Balance credited to every fake account at the fake start block.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Whether to use ANSI color codes in logs.
}

// DefaultConfig returns a fully populated Defaults instance.
func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.ballot",
		},
		Storage: StorageDefaults{
			Preset: integration.DefaultPreset().Name,
		},
		Session: SessionDefaults{
			Name:       "ballot",
			Candidates: 2,
		},
		FakeNet: FakeNetDefaults{
			Accounts: 4,
			Balance:  "1000",
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     false,
		},
	}
}

