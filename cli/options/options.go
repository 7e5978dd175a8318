/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/r3e-network/neokit/pkg/config"
	"github.com/r3e-network/neokit/pkg/crypto/ec"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/rpcclient"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultTimeout is the default timeout used for RPC requests.
	DefaultTimeout = 10 * time.Second
	// DefaultAwaitableTimeout is the default timeout used for RPC requests that
	// require transaction awaiting. It is set to the approximate time of three
	// Neo N3 mainnet blocks accepting.
	DefaultAwaitableTimeout = 3 * 15 * time.Second
)

// RPCEndpointFlag is a long flag name for an RPC endpoint. It can be used to
// check for flag presence in the context.
const RPCEndpointFlag = "rpc-endpoint"

// RPC is a set of flags used for RPC connections (endpoint and timeout).
var RPC = []cli.Flag{
	cli.StringFlag{
		Name:  RPCEndpointFlag + ", r",
		Usage: "RPC node address (overrides configuration)",
	},
	cli.DurationFlag{
		Name:  "timeout, s",
		Value: DefaultTimeout,
		Usage: "Timeout for the operation",
	},
}

// ConfigFile is a flag for commands that use neokit configuration file.
var ConfigFile = cli.StringFlag{
	Name:  "config-file, c",
	Usage: "path to the configuration file (defaults are used if not set)",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// Secp256k1 is a flag for commands working with keys on secp256k1 curve
// instead of the default secp256r1.
var Secp256k1 = cli.BoolFlag{
	Name:  "secp256k1",
	Usage: "use secp256k1 curve instead of secp256r1",
}

var errNoEndpoint = errors.New("no RPC endpoint specified, use option '--" + RPCEndpointFlag + "' or '-r' or set it in the configuration file")

// GetCurve returns the curve selected by the Secp256k1 flag.
func GetCurve(ctx *cli.Context) *ec.Curve {
	if ctx.Bool("secp256k1") {
		return ec.Secp256k1()
	}
	return ec.P256()
}

// GetTimeoutContext returns a context.Context with the default or a user-set timeout.
func GetTimeoutContext(ctx *cli.Context) (context.Context, func()) {
	dur := ctx.Duration("timeout")
	if dur == 0 {
		dur = DefaultTimeout
	}
	if !ctx.IsSet("timeout") && ctx.Bool("await") {
		dur = DefaultAwaitableTimeout
	}
	return context.WithTimeout(context.Background(), dur)
}

// GetConfigFromContext loads the configuration file given with ConfigFile flag
// (or defaults if there is none) and applies RPC endpoint override.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	var (
		cfg = config.Default()
		err error
	)
	if configFile := ctx.String("config-file"); len(configFile) != 0 {
		cfg, err = config.LoadFile(configFile)
		if err != nil {
			return config.Config{}, err
		}
	}
	if endpoint := ctx.String(RPCEndpointFlag); len(endpoint) != 0 {
		cfg.ApplicationConfiguration.RPC.Endpoint = endpoint
	}
	return cfg, nil
}

// GetRPCClient returns an RPC client instance for the given configuration.
func GetRPCClient(cfg config.RPC, log *zap.Logger) (*rpcclient.Client, cli.ExitCoder) {
	if len(cfg.Endpoint) == 0 {
		return nil, cli.NewExitError(errNoEndpoint, 1)
	}
	c, err := rpcclient.New(cfg.Endpoint, rpcclient.Options{
		DialTimeout:     cfg.DialTimeout,
		RequestTimeout:  cfg.RequestTimeout,
		MaxConnsPerHost: cfg.MaxConnsPerHost,
		Logger:          log,
	})
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return c, nil
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, *zap.AtomicLevel, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	return log, &cc.Level, err
}
