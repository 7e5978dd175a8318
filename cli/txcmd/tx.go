/*
Package txcmd implements transaction building CLI commands.
*/
package txcmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/r3e-network/neokit/cli/flags"
	"github.com/r3e-network/neokit/cli/input"
	"github.com/r3e-network/neokit/cli/options"
	"github.com/r3e-network/neokit/pkg/core/native/nativehashes"
	"github.com/r3e-network/neokit/pkg/core/native/nativenames"
	"github.com/r3e-network/neokit/pkg/core/transaction"
	"github.com/r3e-network/neokit/pkg/encoding/address"
	"github.com/r3e-network/neokit/pkg/rpcclient/actor"
	"github.com/r3e-network/neokit/pkg/smartcontract"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// NewCommands returns transaction commands for neokit CLI.
func NewCommands() []cli.Command {
	txFlags := []cli.Flag{
		options.ConfigFile,
		options.Debug,
		cli.StringFlag{
			Name:  "wif, w",
			Usage: "WIF of the sender key (asked for interactively if not set)",
		},
		cli.BoolFlag{
			Name:  "high-priority",
			Usage: "add HighPriority attribute (sender must be a committee member)",
		},
		cli.BoolFlag{
			Name:  "send",
			Usage: "send the transaction instead of printing it",
		},
		cli.BoolFlag{
			Name:  "await",
			Usage: "wait for the transaction to be included in a block (implies --send)",
		},
	}
	txFlags = append(txFlags, options.RPC...)
	runFlags := append([]cli.Flag{cli.StringFlag{
		Name:  "script",
		Usage: "hex-encoded script to run",
	}}, txFlags...)
	return []cli.Command{{
		Name:  "tx",
		Usage: "Build and send transactions",
		Subcommands: []cli.Command{
			{
				Name:      "run",
				Usage:     "Create a signed transaction running the given script",
				UsageText: "neokit tx run -r endpoint --script <hex> [--wif <wif>] [--high-priority] [--send | --await] [--config-file <file>]",
				Description: `Builds a transaction with the given script signed by the sender key
   (CalledByEntry scope). Fees and ValidUntilBlock are calculated using the
   RPC node, additional fees and VUB increment are taken from the
   configuration file. The transaction is printed in hex unless --send or
   --await is given, in which case its hash is printed (and the height of
   the block it's included into for --await).
`,
				Action: run,
				Flags:  flags.MarkRequired(runFlags, "script"),
			},
			{
				Name:      "invoke",
				Usage:     "Create a signed transaction calling the contract method",
				UsageText: "neokit tx invoke -r endpoint [--wif <wif>] [--send | --await] <contract> <method> [<param> ...]",
				Description: `Same as 'run', but the script is a call of the given contract method with
   All call flags. Contract is a native contract name (like GasToken), an
   address or an LE hex script hash. Parameters are given as "type:value"
   where type is one of signature, bool, int, hash160, hash256, bytes, key
   or string; the type is inferred from the value if omitted. Use '\:' to
   put a colon into the value.

   Example:
     neokit tx invoke -r http://localhost:20332 GasToken transfer \
       NbrUYaZgyhSkNoRo9ugRyEMdUZxrhkNaWB NgEisvCqr2h8wpRxQb7bVPWUZdbVCY8Uo6 int:100 any:
`,
				Action: invoke,
				Flags:  txFlags,
			},
		},
	}}
}

func run(ctx *cli.Context) error {
	script, err := hex.DecodeString(strings.TrimPrefix(ctx.String("script"), "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid script: %w", err), 1)
	}
	if len(script) == 0 {
		return cli.NewExitError(errors.New("empty script"), 1)
	}
	return makeTx(ctx, script)
}

func invoke(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) < 2 {
		return cli.NewExitError(errors.New("contract and method are required"), 1)
	}
	contract, err := parseContract(args[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	params := make([]any, 0, len(args)-2)
	for _, arg := range args[2:] {
		p, err := smartcontract.NewParameterFromString(arg)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("invalid parameter %q: %w", arg, err), 1)
		}
		v, err := smartcontract.ExpandParameterToEmitable(*p)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("invalid parameter %q: %w", arg, err), 1)
		}
		params = append(params, v)
	}
	script, err := smartcontract.CreateCallScript(contract, args[1], params...)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to create script: %w", err), 1)
	}
	return makeTx(ctx, script)
}

// parseContract accepts native contract name, address or LE script hash.
func parseContract(s string) (util.Uint160, error) {
	if nativenames.IsValid(s) {
		return nativehashes.CreateNativeContractHash(s), nil
	}
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}
	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid contract %q: not a native contract name, address or script hash", s)
	}
	return h, nil
}

func makeTx(ctx *cli.Context, script []byte) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	wif := ctx.String("wif")
	if len(wif) == 0 {
		wif, err = input.ReadPassword("Enter WIF > ")
		if err != nil {
			return cli.NewExitError(fmt.Errorf("failed to read WIF: %w", err), 1)
		}
	}
	acc, err := wallet.NewAccountFromWIF(strings.TrimSpace(wif))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer acc.Close()

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(cfg.ApplicationConfiguration.RPC, log)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	txCfg := cfg.TransactionConfiguration
	opts := actor.Options{
		AdditionalNetworkFee: txCfg.AdditionalNetworkFee,
		AdditionalSystemFee:  txCfg.AdditionalSystemFee,
		AllowFault:           txCfg.AllowFault,
		Logger:               log,
	}
	if ctx.Bool("high-priority") {
		opts.Attributes = []transaction.Attribute{{Type: transaction.HighPriority}}
	}
	a, err := actor.NewTuned(gctx, c, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: acc.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: acc,
	}}, opts)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to create actor: %w", err), 1)
	}
	if cfg.Network != 0 && cfg.Network != a.GetNetwork() {
		return cli.NewExitError(fmt.Errorf("node network %s doesn't match configured %s", a.GetNetwork(), cfg.Network), 1)
	}

	b, err := a.NewBuilder(script, nil)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if txCfg.DefaultVUBIncrement != 0 {
		count, err := c.GetBlockCount(gctx)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("failed to get block count: %w", err), 1)
		}
		if err := b.SetValidUntilBlock(count + txCfg.DefaultVUBIncrement - 1); err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	tx, err := b.Sign(gctx)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to create transaction: %w", err), 1)
	}
	log.Debug("transaction created",
		zap.Stringer("hash", tx.Hash()),
		zap.Int64("sysfee", tx.SystemFee),
		zap.Int64("netfee", tx.NetworkFee),
		zap.Uint32("vub", tx.ValidUntilBlock))

	w := ctx.App.Writer
	if !ctx.Bool("send") && !ctx.Bool("await") {
		_, _ = fmt.Fprintln(w, hex.EncodeToString(tx.Bytes()))
		return nil
	}
	h, vub, err := a.Send(gctx, tx)
	if err != nil && !ctx.Bool("await") {
		return cli.NewExitError(fmt.Errorf("failed to send transaction: %w", err), 1)
	}
	if ctx.Bool("await") {
		height, err := a.Wait(gctx, h, vub, err)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("failed to await transaction %s: %w", h.StringLE(), err), 1)
		}
		_, _ = fmt.Fprintf(w, "Hash: %s\n", h.StringLE())
		_, _ = fmt.Fprintf(w, "Height: %d\n", height)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Hash: %s\n", h.StringLE())
	return nil
}
