package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// Per-command flags. Accounts are hex addresses or fake:N for the N-th fake
// account.
var (
	FromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "Sending account",
	}
	ToFlag = cli.StringFlag{
		Name:  "to",
		Usage: "Receiving account",
	}
	AmountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "Token amount (decimal or 0x-prefixed hex)",
	}
	CandidateFlag = cli.Uint64Flag{
		Name:  "candidate",
		Usage: "Candidate id",
	}
	OffsetFlag = cli.Uint64Flag{
		Name:  "offset",
		Usage: "Index of the first entry",
	}
	LimitFlag = cli.Uint64Flag{
		Name:  "limit",
		Usage: "Maximum number of entries",
		Value: 100,
	}
	VersionFlag = cli.Uint64Flag{
		Name:  "version",
		Usage: "Ledger version (block) to read at; defaults to the host block",
	}
)

// TxFlags returns every per-command flag.
func TxFlags() []cli.Flag {
	return []cli.Flag{FromFlag, ToFlag, AmountFlag, CandidateFlag, OffsetFlag, LimitFlag, VersionFlag}
}
