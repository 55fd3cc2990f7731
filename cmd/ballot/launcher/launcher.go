package launcher

import (
	"github.com/rony4d/go-opera-ballot/flags"
)

// Launch parses args and runs the selected command.
func Launch(args []string) error {
	app := flags.NewApp()
	app.Commands = commands
	return app.Run(args)
}
