/*
Package keys implements key management CLI commands.
*/
package keys

import (
	"fmt"
	"io"

	"github.com/r3e-network/neokit/cli/options"
	"github.com/r3e-network/neokit/pkg/crypto/ec"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/encoding/base58"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/urfave/cli"
)

// NewCommands returns key management commands for neokit CLI.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "key",
		Usage: "Generate and inspect private keys",
		Subcommands: []cli.Command{
			{
				Name:      "new",
				Usage:     "Generate a new random private key",
				UsageText: "neokit key new [--secp256k1]",
				Action:    newKey,
				Flags:     []cli.Flag{options.Secp256k1},
			},
			{
				Name:      "inspect",
				Usage:     "Print address and public key of the given WIF",
				UsageText: "neokit key inspect [--secp256k1] <wif>",
				Action:    inspectKey,
				Flags:     []cli.Flag{options.Secp256k1},
			},
		},
	}}
}

func newKey(ctx *cli.Context) error {
	var (
		priv *keys.PrivateKey
		err  error
	)
	if options.GetCurve(ctx) == ec.Secp256k1() {
		priv, err = keys.NewSecp256k1PrivateKey()
	} else {
		priv, err = keys.NewPrivateKey()
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer priv.Destroy()
	printKey(ctx.App.Writer, priv)
	return nil
}

func inspectKey(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("exactly one WIF argument is required", 1)
	}
	priv, err := decodeWIF(ctx.Args().First(), options.GetCurve(ctx))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer priv.Destroy()
	printKey(ctx.App.Writer, priv)
	return nil
}

// decodeWIF parses compressed WIF for the given curve.
func decodeWIF(wif string, c *ec.Curve) (*keys.PrivateKey, error) {
	if c == ec.P256() {
		return keys.NewPrivateKeyFromWIF(wif)
	}
	b, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, err
	}
	defer clear(b)
	if len(b) != 2+keys.PrivateKeySize || b[0] != keys.WIFVersion || b[len(b)-1] != 0x01 {
		return nil, fmt.Errorf("%w: invalid WIF", neoerr.ErrFormat)
	}
	return keys.NewPrivateKeyFromBytesOnCurve(c, b[1:1+keys.PrivateKeySize])
}

func printKey(w io.Writer, priv *keys.PrivateKey) {
	_, _ = fmt.Fprintf(w, "Address: %s\n", priv.Address())
	_, _ = fmt.Fprintf(w, "Public key: %s\n", priv.PublicKey().StringCompressed())
	_, _ = fmt.Fprintf(w, "WIF: %s\n", priv.WIF())
}
