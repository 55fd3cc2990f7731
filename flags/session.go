package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// SessionFlags describe the ballot session created by the init and fakenet
// commands.
func SessionFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "session.name",
			Usage: "Human-readable session name",
		},
		cli.Uint64Flag{
			Name:  "session.candidates",
			Usage: "Number of candidates (ids 1..N)",
		},
		cli.Uint64Flag{
			Name:  "session.end",
			Usage: "Last block at which votes are accepted",
		},
		cli.StringFlag{
			Name:  "session.ledger",
			Usage: "Address identifying the balance ledger",
		},
		cli.StringFlag{
			Name:  "session.owner",
			Usage: "Address allowed to claim tokens sent to the session",
		},
		cli.IntFlag{
			Name:  "fakenet.accounts",
			Usage: "Number of funded fake accounts",
		},
		cli.StringFlag{
			Name:  "fakenet.balance",
			Usage: "Initial balance of every fake account",
		},
	}
}
