/*
Package app assembles neokit CLI application.
*/
package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/r3e-network/neokit/cli/hd"
	"github.com/r3e-network/neokit/cli/keys"
	"github.com/r3e-network/neokit/cli/nef"
	"github.com/r3e-network/neokit/cli/txcmd"
	"github.com/r3e-network/neokit/pkg/config"
	"github.com/urfave/cli"
)

const devVersion = "dev"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "neokit\nVersion: %s\nGoVersion: %s\n",
		c.App.Version,
		runtime.Version(),
	)
}

// New creates a neokit instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "neokit"
	ctl.Version = config.Version
	if ctl.Version == "" {
		// Not set at build time, --version still has to work.
		ctl.Version = devVersion
	}
	ctl.Usage = "Neo N3 keys, NEF files and transactions toolkit"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, keys.NewCommands()...)
	ctl.Commands = append(ctl.Commands, hd.NewCommands()...)
	ctl.Commands = append(ctl.Commands, nef.NewCommands()...)
	ctl.Commands = append(ctl.Commands, txcmd.NewCommands()...)
	return ctl
}
