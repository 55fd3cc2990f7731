package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp creates an app with the global flags registered.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ballot"
	app.Usage = "Stake-weighted voting over a versioned balance ledger"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	app.Flags = append(CommonFlags(), SessionFlags()...)
	return app
}
