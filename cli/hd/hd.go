/*
Package hd implements BIP-32 key derivation CLI commands.
*/
package hd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/r3e-network/neokit/cli/options"
	"github.com/r3e-network/neokit/pkg/crypto/hd"
	"github.com/urfave/cli"
)

// NewCommands returns HD derivation commands for neokit CLI.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "hd",
		Usage: "Hierarchical deterministic (BIP-32) keys",
		Subcommands: []cli.Command{
			{
				Name:      "derive",
				Usage:     "Derive a key from the seed",
				UsageText: "neokit hd derive --seed <hex> [--path <path> | --account <n>] [--secp256k1]",
				Description: `Derives an extended key from the given seed (16 to 64 bytes in hex) using
   the given path. Standard Neo path m/44'/888'/<account>'/0/0 is used if no
   path is specified, account is 0 by default. Hardened path components are
   marked with ', h or H.
`,
				Action: derive,
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  "seed",
						Usage: "hex-encoded seed",
					},
					cli.StringFlag{
						Name:  "path, p",
						Usage: "derivation path (conflicts with --account)",
					},
					cli.UintFlag{
						Name:  "account, a",
						Usage: "account index for the standard Neo path",
					},
					options.Secp256k1,
				},
			},
		},
	}}
}

func derive(ctx *cli.Context) error {
	seed, err := hex.DecodeString(strings.TrimPrefix(ctx.String("seed"), "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid seed: %w", err), 1)
	}
	defer clear(seed)
	if len(seed) == 0 {
		return cli.NewExitError("seed is required", 1)
	}
	path := ctx.String("path")
	if len(path) != 0 && ctx.IsSet("account") {
		return cli.NewExitError("--path conflicts with --account", 1)
	}
	if len(path) == 0 {
		path = hd.AccountPath(uint32(ctx.Uint("account")))
	}

	master, err := hd.NewMasterOnCurve(seed, options.GetCurve(ctx))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer master.Destroy()
	k, err := master.Derive(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer k.Destroy()
	priv, err := k.PrivateKey()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer priv.Destroy()

	w := ctx.App.Writer
	_, _ = fmt.Fprintf(w, "Path: %s\n", path)
	_, _ = fmt.Fprintf(w, "xprv: %s\n", k.String())
	_, _ = fmt.Fprintf(w, "xpub: %s\n", k.Neuter().String())
	_, _ = fmt.Fprintf(w, "Address: %s\n", priv.Address())
	_, _ = fmt.Fprintf(w, "Public key: %s\n", priv.PublicKey().StringCompressed())
	_, _ = fmt.Fprintf(w, "WIF: %s\n", priv.WIF())
	return nil
}
