/*
Package actor provides a way to create, sign and send transactions via RPC
client.

Builder is the core of it, it's a state machine that collects transaction
script, signers and attributes and then computes the rest (ValidUntilBlock,
system and network fees) using the RPC node. Actor builds on top of it for
the most widespread case of a fixed set of signers and Waiter allows to await
transaction acceptance.
*/
package actor

import (
	"context"
	"errors"
	"fmt"

	"github.com/r3e-network/neokit/pkg/config/netmode"
	"github.com/r3e-network/neokit/pkg/core/transaction"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/neorpc/result"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/wallet"
	"go.uber.org/zap"
)

// RPCBuilder is an interface required from the RPC client to build
// transactions.
type RPCBuilder interface {
	// CalculateNetworkFee calculates network fee for the given transaction.
	//
	// CalculateNetworkFee MUST NOT call state-changing methods (like Hash or Size)
	// of the transaction through the passed pointer: make a copy if necessary.
	CalculateNetworkFee(ctx context.Context, tx *transaction.Transaction) (int64, error)
	GetBlockCount(ctx context.Context) (uint32, error)
	GetCommittee(ctx context.Context) (keys.PublicKeys, error)
	GetVersion(ctx context.Context) (*result.Version, error)
	InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*result.Invoke, error)
}

// RPCActor is an interface required from the RPC client to successfully
// create, send and await transactions.
type RPCActor interface {
	RPCBuilder

	SendRawTransaction(ctx context.Context, tx *transaction.Transaction) (util.Uint256, error)
	GetTransactionHeight(ctx context.Context, hash util.Uint256) (uint32, error)
}

// SignerAccount represents combination of the transaction.Signer and the
// corresponding wallet.Account. It's used to create and sign transactions, each
// transaction has a set of signers that must witness the transaction with their
// signatures.
type SignerAccount struct {
	Signer  transaction.Signer
	Account *wallet.Account
}

// TransactionModifier is a callback that receives the transaction before
// it's signed from a method that creates signed transactions. It can check
// fees and other fields of the transaction and return an error if there is
// anything wrong there which will abort the creation process. It also can modify
// Nonce, SystemFee, NetworkFee and ValidUntilBlock values taking full
// responsibility on the effects of these modifications.
type TransactionModifier func(t *transaction.Transaction) error

// DefaultModifier is the default modifier, it does nothing.
func DefaultModifier(t *transaction.Transaction) error {
	return nil
}

// Actor keeps a connection to the RPC endpoint and allows to perform
// state-changing actions (via transactions that can also be created without
// sending them to the network) on behalf of a set of signers.
//
// "Make" prefix is used for methods that create transactions, while "Send"
// prefix is used by methods that directly transmit created transactions to
// the RPC server. Actor also provides a Waiter to wait until transaction is
// accepted to the chain.
type Actor struct {
	Waiter

	client  RPCActor
	opts    Options
	signers []SignerAccount
	version *result.Version
}

// Options are used to create Actor with non-standard settings applied to
// every transaction it creates.
type Options struct {
	// Attributes are set as is into every transaction created by Actor,
	// unless they're explicitly set in a method call that accepts
	// attributes.
	Attributes []transaction.Attribute
	// AdditionalNetworkFee is added to the network fee of every transaction.
	AdditionalNetworkFee int64
	// AdditionalSystemFee is added to the system fee of every transaction.
	AdditionalSystemFee int64
	// AllowFault allows to create transactions failing in test invocation.
	AllowFault bool
	// InsufficientFundsErr, if set, is returned when the sender can't pay
	// transaction fees.
	InsufficientFundsErr error
	// Modifier is applied to transactions before they're signed.
	Modifier TransactionModifier
	// Logger is used for debug logging, nothing is logged if it's nil.
	Logger *zap.Logger
}

// New creates an Actor instance using the specified RPC interface and the set of
// signers with corresponding accounts. Every transaction created by this Actor
// will have this set of signers and all communication will be performed via this
// RPC. Upon Actor instance creation a GetVersion call is made and the result of
// it is cached forever (and used for internal purposes).
func New(ctx context.Context, ra RPCActor, signers []SignerAccount) (*Actor, error) {
	return NewTuned(ctx, ra, signers, Options{})
}

// NewSimple makes it easier to create an Actor for the most widespread case
// when transactions have only one signer that uses CalledByEntry scope. When
// other scopes or multiple signers are needed use New.
func NewSimple(ctx context.Context, ra RPCActor, acc *wallet.Account) (*Actor, error) {
	return New(ctx, ra, []SignerAccount{{
		Signer: transaction.Signer{
			Account: acc.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: acc,
	}})
}

// NewTuned creates an Actor that will use the specified Options as defaults when
// creating new transactions.
func NewTuned(ctx context.Context, ra RPCActor, signers []SignerAccount, opts Options) (*Actor, error) {
	if len(signers) < 1 {
		return nil, errors.New("at least one signer (sender) is required")
	}
	// Builder validates the rest, fail early.
	if err := NewBuilder(ra, nil).AddSigners(signers...); err != nil {
		return nil, err
	}
	version, err := ra.GetVersion(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Modifier == nil {
		opts.Modifier = DefaultModifier
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Actor{
		Waiter:  NewPollingWaiter(ra, version),
		client:  ra,
		opts:    opts,
		signers: signers,
		version: version,
	}, nil
}

// GetNetwork is a convenience method that returns the network's magic number.
func (a *Actor) GetNetwork() netmode.Magic {
	return a.version.Protocol.Network
}

// GetVersion returns version data from the RPC endpoint.
func (a *Actor) GetVersion() result.Version {
	return *a.version
}

// Sender return the sender address that will be used in transactions created
// by Actor.
func (a *Actor) Sender() util.Uint160 {
	return a.signers[0].Signer.Account
}

// NewBuilder returns a Builder preconfigured with Actor signers, options and
// the given script. Attributes override Actor defaults if not nil.
func (a *Actor) NewBuilder(script []byte, attrs []transaction.Attribute) (*Builder, error) {
	b := NewBuilder(a.client, a.opts.Logger)
	if err := b.SetScript(script); err != nil {
		return nil, err
	}
	if err := b.AddSigners(a.signers...); err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = a.opts.Attributes
	}
	if err := b.AddAttributes(attrs...); err != nil {
		return nil, err
	}
	if err := b.SetAdditionalNetworkFee(a.opts.AdditionalNetworkFee); err != nil {
		return nil, err
	}
	if err := b.SetAdditionalSystemFee(a.opts.AdditionalSystemFee); err != nil {
		return nil, err
	}
	if err := b.AllowFault(a.opts.AllowFault); err != nil {
		return nil, err
	}
	if a.opts.InsufficientFundsErr != nil {
		if err := b.ThrowOnInsufficientFunds(a.opts.InsufficientFundsErr); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// MakeRun creates a transaction with the given executable script, runs
// Actor's TransactionModifier over it and signs it.
func (a *Actor) MakeRun(ctx context.Context, script []byte) (*transaction.Transaction, error) {
	tx, err := a.MakeUnsignedRun(ctx, script, nil)
	if err != nil {
		return nil, err
	}
	if err = a.opts.Modifier(tx); err != nil {
		return nil, err
	}
	if err = a.Sign(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// MakeUnsignedRun creates an unsigned transaction with the given attributes
// (Actor defaults are used if nil) that executes the given script. The
// transaction returned has correct SystemFee and NetworkFee values.
func (a *Actor) MakeUnsignedRun(ctx context.Context, script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	b, err := a.NewBuilder(script, attrs)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx)
}

// Sign adds signatures to arbitrary transaction using Actor signers wallets.
// Most of the time it shouldn't be used directly since it'll be successful only
// if the transaction is made using the same set of accounts as the one used
// for Actor creation.
func (a *Actor) Sign(tx *transaction.Transaction) error {
	if len(tx.Signers) != len(a.signers) {
		return errors.New("incorrect number of signers in the transaction")
	}
	for i, signer := range a.signers {
		if err := checkCanSign(signer, i); err != nil {
			return err
		}
		if err := signer.Account.SignTx(uint32(a.GetNetwork()), tx); err != nil {
			return fmt.Errorf("failed to add witness for signer #%d (%s): %w", i, signer.Account.Address, err)
		}
	}
	return nil
}

// Send allows to send arbitrary prepared transaction to the network. It returns
// transaction hash and ValidUntilBlock value.
func (a *Actor) Send(ctx context.Context, tx *transaction.Transaction) (util.Uint256, uint32, error) {
	h, err := a.client.SendRawTransaction(ctx, tx)
	return h, tx.ValidUntilBlock, err
}

// SignAndSend signs arbitrary transaction (see also Sign) and sends it to the
// network.
func (a *Actor) SignAndSend(ctx context.Context, tx *transaction.Transaction) (util.Uint256, uint32, error) {
	return a.sendWrapper(ctx, tx, a.Sign(tx))
}

// SendRun creates a transaction with the given executable script (see also
// MakeRun) and sends it to the network.
func (a *Actor) SendRun(ctx context.Context, script []byte) (util.Uint256, uint32, error) {
	tx, err := a.MakeRun(ctx, script)
	return a.sendWrapper(ctx, tx, err)
}

// sendWrapper simplifies wrapping methods that create transactions.
func (a *Actor) sendWrapper(ctx context.Context, tx *transaction.Transaction, err error) (util.Uint256, uint32, error) {
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return a.Send(ctx, tx)
}
