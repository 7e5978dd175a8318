/*
Package nef implements NEF file CLI commands.
*/
package nef

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/smartcontract/nef"
	"github.com/urfave/cli"
)

// defaultCompiler is written to NEF files unless another compiler is given.
const defaultCompiler = "neokit"

// NewCommands returns NEF commands for neokit CLI.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "nef",
		Usage: "Create and inspect NEF contract files",
		Subcommands: []cli.Command{
			{
				Name:      "inspect",
				Usage:     "Print NEF file contents",
				UsageText: "neokit nef inspect <file.nef>",
				Action:    inspect,
			},
			{
				Name:      "create",
				Usage:     "Create NEF file from the script",
				UsageText: "neokit nef create --in <script> --out <file.nef> [--hex] [--compiler <name>] [--source <url>]",
				Action:    create,
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  "in, i",
						Usage: "input file with the contract script",
					},
					cli.StringFlag{
						Name:  "out, o",
						Usage: "output NEF file",
					},
					cli.BoolFlag{
						Name:  "hex",
						Usage: "input file contains hex-encoded script",
					},
					cli.StringFlag{
						Name:  "compiler",
						Value: defaultCompiler,
						Usage: "compiler name and version (64 bytes max)",
					},
					cli.StringFlag{
						Name:  "source",
						Usage: "source code URL",
					},
				},
			},
		},
	}}
}

func inspect(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("exactly one NEF file argument is required", 1)
	}
	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to read NEF file: %w", err), 1)
	}
	f, err := nef.FileFromBytes(data)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to parse NEF file: %w", err), 1)
	}
	w := ctx.App.Writer
	_, _ = fmt.Fprintf(w, "Compiler: %s\n", f.Compiler)
	_, _ = fmt.Fprintf(w, "Source: %s\n", f.Source)
	_, _ = fmt.Fprintf(w, "Checksum: 0x%08x\n", f.Checksum)
	_, _ = fmt.Fprintf(w, "Script: %s\n", hex.EncodeToString(f.Script))
	_, _ = fmt.Fprintf(w, "Tokens: %d\n", len(f.Tokens))
	for _, t := range f.Tokens {
		_, _ = fmt.Fprintf(w, "  %s %s params=%d return=%t flags=%s\n",
			t.Hash.StringLE(), t.Method, t.ParamCount, t.HasReturn, t.CallFlag)
	}
	return nil
}

func create(ctx *cli.Context) error {
	in, out := ctx.String("in"), ctx.String("out")
	if len(in) == 0 || len(out) == 0 {
		return cli.NewExitError(errors.New("both --in and --out are required"), 1)
	}
	script, err := os.ReadFile(in)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to read script: %w", err), 1)
	}
	if ctx.Bool("hex") {
		script, err = hex.DecodeString(strings.TrimSpace(string(script)))
		if err != nil {
			return cli.NewExitError(fmt.Errorf("invalid hex script: %w", err), 1)
		}
	}
	f, err := nef.NewFile(script, ctx.String("compiler"), ctx.String("source"), nil)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := f.Bytes()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := io.MakeDirForFile(out, "NEF file"); err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return cli.NewExitError(fmt.Errorf("failed to write NEF file: %w", err), 1)
	}
	_, _ = fmt.Fprintf(ctx.App.Writer, "Checksum: 0x%08x\n", f.Checksum)
	return nil
}
