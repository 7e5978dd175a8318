package actor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/r3e-network/neokit/pkg/core/native/nativehashes"
	"github.com/r3e-network/neokit/pkg/core/transaction"
	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/crypto/keys"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/neorpc/result"
	"github.com/r3e-network/neokit/pkg/smartcontract"
	"github.com/r3e-network/neokit/pkg/util"
	"github.com/r3e-network/neokit/pkg/vm/opcode"
	"github.com/r3e-network/neokit/pkg/wallet"
	"go.uber.org/zap"
)

// State is a Builder state.
type State byte

// Builder states. Builder moves from StateUnconfigured to StateScripted once
// the script is set and to StateSigned after successful Sign, StateSigned is
// final.
const (
	StateUnconfigured State = iota
	StateScripted
	StateSigned
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "Unconfigured"
	case StateScripted:
		return "Scripted"
	case StateSigned:
		return "Signed"
	default:
		return fmt.Sprintf("State(%d)", byte(s))
	}
}

// ErrExecutionFault is returned by Build when the test invocation of the
// transaction script ends up in FAULT state and faults are not allowed.
var ErrExecutionFault = fmt.Errorf("%w: script execution failed", neoerr.ErrValidation)

// InsufficientFundsHandler is a callback invoked by Build when the first
// signer's GAS balance can't cover the transaction fees. Returning an error
// aborts the build, returning nil lets it proceed.
type InsufficientFundsHandler func(required *big.Int, available *big.Int) error

// Builder creates transactions step by step: script, signers and attributes
// are configured first, then Build fetches everything else from the RPC node
// (ValidUntilBlock, fees) and Sign adds witnesses. Builder is not thread-safe.
// Failed Build or Sign calls leave the Builder unchanged, so they can be
// retried.
type Builder struct {
	client RPCBuilder
	log    *zap.Logger

	state   State
	script  []byte
	signers []SignerAccount
	attrs   []transaction.Attribute

	nonce      uint32
	nonceSet   bool
	vub        uint32
	addNetFee  int64
	addSysFee  int64
	allowFault bool

	fundsHandler InsufficientFundsHandler
	fundsErr     error
}

// NewBuilder creates a Builder using the given RPC client. Logger is optional,
// nothing is logged if it's nil.
func NewBuilder(client RPCBuilder, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		client: client,
		log:    log,
	}
}

// State returns the current state of the Builder.
func (b *Builder) State() State {
	return b.state
}

func (b *Builder) checkMutable() error {
	if b.state == StateSigned {
		return fmt.Errorf("%w: transaction is already signed", neoerr.ErrConfiguration)
	}
	return nil
}

// SetScript sets the script to be executed by the transaction.
func (b *Builder) SetScript(script []byte) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if len(script) == 0 {
		return fmt.Errorf("%w: empty script", neoerr.ErrConfiguration)
	}
	if len(script) > transaction.MaxScriptLength {
		return fmt.Errorf("%w: script is too big (%d > %d)", neoerr.ErrValidation, len(script), transaction.MaxScriptLength)
	}
	b.script = slices.Clone(script)
	b.state = StateScripted
	return nil
}

// AddSigners appends signers to the transaction, the first signer ever added
// becomes the sender. Signer accounts must be unique and match the script
// hashes of their wallet accounts (unless it's a deployed contract account).
func (b *Builder) AddSigners(signers ...SignerAccount) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if n := len(b.signers) + len(signers) + len(b.attrs); n > transaction.MaxAttributes {
		return fmt.Errorf("%w: too many signers and attributes (%d > %d)", neoerr.ErrConfiguration, n, transaction.MaxAttributes)
	}
	for i := range signers {
		s := &signers[i]
		if s.Account == nil || s.Account.Contract == nil {
			return fmt.Errorf("%w: signer %s has no account contract", neoerr.ErrConfiguration, s.Signer.Account.StringLE())
		}
		if s.Account.ScriptHash() != s.Signer.Account {
			return fmt.Errorf("%w: signer account doesn't match script hash for signer %s", neoerr.ErrConfiguration, s.Account.Address)
		}
		if err := s.Signer.Validate(); err != nil {
			return err
		}
		if b.hasSigner(s.Signer.Account) || slices.ContainsFunc(signers[:i], func(o SignerAccount) bool {
			return o.Signer.Account == s.Signer.Account
		}) {
			return fmt.Errorf("%w: duplicate signer %s", neoerr.ErrConfiguration, s.Account.Address)
		}
	}
	b.signers = append(b.signers, signers...)
	return nil
}

func (b *Builder) hasSigner(h util.Uint160) bool {
	for i := range b.signers {
		if b.signers[i].Signer.Account == h {
			return true
		}
	}
	return false
}

// AddAttributes appends attributes to the transaction.
func (b *Builder) AddAttributes(attrs ...transaction.Attribute) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if n := len(b.signers) + len(b.attrs) + len(attrs); n > transaction.MaxAttributes {
		return fmt.Errorf("%w: too many signers and attributes (%d > %d)", neoerr.ErrConfiguration, n, transaction.MaxAttributes)
	}
	for i := range attrs {
		b.attrs = append(b.attrs, *attrs[i].Copy())
	}
	return nil
}

// SetNonce sets the transaction nonce, a random one is used by default.
func (b *Builder) SetNonce(nonce uint32) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	b.nonce = nonce
	b.nonceSet = true
	return nil
}

// SetValidUntilBlock sets the transaction ValidUntilBlock. If it's not set
// (or set to 0), the maximum value allowed by the node at the moment of Build
// is used.
func (b *Builder) SetValidUntilBlock(vub uint32) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	b.vub = vub
	return nil
}

// SetAdditionalNetworkFee sets the amount of GAS added to the calculated
// network fee.
func (b *Builder) SetAdditionalNetworkFee(fee int64) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if fee < 0 {
		return fmt.Errorf("%w: negative additional network fee %d", neoerr.ErrValidation, fee)
	}
	b.addNetFee = fee
	return nil
}

// SetAdditionalSystemFee sets the amount of GAS added to the system fee
// obtained from the test invocation.
func (b *Builder) SetAdditionalSystemFee(fee int64) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if fee < 0 {
		return fmt.Errorf("%w: negative additional system fee %d", neoerr.ErrValidation, fee)
	}
	b.addSysFee = fee
	return nil
}

// AllowFault makes Build accept scripts failing in test invocation, the
// consumed GAS is used as the system fee anyway.
func (b *Builder) AllowFault(allow bool) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	b.allowFault = allow
	return nil
}

// OnInsufficientFunds registers a callback for the case of the sender not
// having enough GAS to pay fees. It can't be combined with
// ThrowOnInsufficientFunds.
func (b *Builder) OnInsufficientFunds(h InsufficientFundsHandler) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("%w: nil insufficient funds handler", neoerr.ErrConfiguration)
	}
	if b.fundsErr != nil || b.fundsHandler != nil {
		return fmt.Errorf("%w: insufficient funds policy is already set", neoerr.ErrConfiguration)
	}
	b.fundsHandler = h
	return nil
}

// ThrowOnInsufficientFunds makes Build fail with the given error if the sender
// doesn't have enough GAS to pay fees. It can't be combined with
// OnInsufficientFunds.
func (b *Builder) ThrowOnInsufficientFunds(err error) error {
	if e := b.checkMutable(); e != nil {
		return e
	}
	if err == nil {
		return fmt.Errorf("%w: nil insufficient funds error", neoerr.ErrConfiguration)
	}
	if b.fundsErr != nil || b.fundsHandler != nil {
		return fmt.Errorf("%w: insufficient funds policy is already set", neoerr.ErrConfiguration)
	}
	b.fundsErr = err
	return nil
}

// rpcError converts RPC call failure into a build error, cancellation is
// reported as neoerr.ErrBuildCancelled.
func rpcError(ctx context.Context, what string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %s: %w", neoerr.ErrBuildCancelled, what, ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", neoerr.ErrBuildCancelled, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// Build creates an unsigned transaction with all fees and ValidUntilBlock
// calculated. Signer witnesses are not added, use Sign for that. Each Build
// call makes a new transaction with new values obtained from the node.
func (b *Builder) Build(ctx context.Context) (*transaction.Transaction, error) {
	tx, _, err := b.build(ctx)
	return tx, err
}

func (b *Builder) build(ctx context.Context) (*transaction.Transaction, *result.Version, error) {
	if b.state == StateUnconfigured || len(b.script) == 0 {
		return nil, nil, fmt.Errorf("%w: script is not set", neoerr.ErrConfiguration)
	}
	if len(b.signers) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one signer is required", neoerr.ErrConfiguration)
	}
	if !slices.ContainsFunc(b.signers, func(s SignerAccount) bool { return !s.Account.Contract.Deployed }) {
		return nil, nil, fmt.Errorf("%w: at least one account-based signer is required", neoerr.ErrConfiguration)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", neoerr.ErrBuildCancelled, err)
	}

	version, err := b.client.GetVersion(ctx)
	if err != nil {
		return nil, nil, rpcError(ctx, "failed to get version", err)
	}

	tx := transaction.New(slices.Clone(b.script), 0)
	if b.nonceSet {
		tx.Nonce = b.nonce
	}
	tx.Signers = make([]transaction.Signer, len(b.signers))
	for i := range b.signers {
		tx.Signers[i] = *b.signers[i].Signer.Copy()
	}
	tx.Attributes = make([]transaction.Attribute, len(b.attrs))
	for i := range b.attrs {
		tx.Attributes[i] = *b.attrs[i].Copy()
	}

	tx.ValidUntilBlock = b.vub
	if tx.ValidUntilBlock == 0 {
		if version.Protocol.MaxValidUntilBlockIncrement == 0 {
			return nil, nil, fmt.Errorf("%w: node reported zero MaxValidUntilBlockIncrement", neoerr.ErrConfiguration)
		}
		count, err := b.client.GetBlockCount(ctx)
		if err != nil {
			return nil, nil, rpcError(ctx, "failed to get block count", err)
		}
		tx.ValidUntilBlock = count + version.Protocol.MaxValidUntilBlockIncrement - 1
	}

	if tx.HasAttribute(transaction.HighPriority) {
		if err := b.checkCommittee(ctx); err != nil {
			return nil, nil, err
		}
	}

	inv, err := b.client.InvokeScript(ctx, tx.Script, tx.Signers)
	if err != nil {
		return nil, nil, rpcError(ctx, "test invocation failed", err)
	}
	if inv.HasFaulted() && !b.allowFault {
		return nil, nil, fmt.Errorf("%w (%s state): %s", ErrExecutionFault, inv.State, inv.FaultException)
	}
	if inv.GasConsumed < 0 {
		return nil, nil, fmt.Errorf("%w: invalid GAS consumed %d", neoerr.ErrFormat, inv.GasConsumed)
	}
	tx.SystemFee = inv.GasConsumed + b.addSysFee

	feeTx := tx.Copy()
	feeTx.Scripts = make([]transaction.Witness, len(b.signers))
	for i := range b.signers {
		feeTx.Scripts[i], err = dummyWitness(b.signers[i])
		if err != nil {
			return nil, nil, err
		}
	}
	netFee, err := b.client.CalculateNetworkFee(ctx, feeTx)
	if err != nil {
		return nil, nil, rpcError(ctx, "failed to calculate network fee", err)
	}
	tx.NetworkFee = netFee + b.addNetFee

	if err := b.checkFunds(ctx, tx); err != nil {
		return nil, nil, err
	}

	b.log.Debug("transaction built",
		zap.Uint32("nonce", tx.Nonce),
		zap.Uint32("vub", tx.ValidUntilBlock),
		zap.Int64("sysfee", tx.SystemFee),
		zap.Int64("netfee", tx.NetworkFee))
	return tx, version, nil
}

// checkCommittee ensures that at least one signer is a committee member, the
// committee multisignature account or a multisignature account including
// committee member keys.
func (b *Builder) checkCommittee(ctx context.Context) error {
	committee, err := b.client.GetCommittee(ctx)
	if err != nil {
		return rpcError(ctx, "failed to get committee", err)
	}
	var committeeHash util.Uint160
	if len(committee) != 0 {
		script, err := smartcontract.CreateMajorityMultiSigRedeemScript(committee.Copy())
		if err != nil {
			return fmt.Errorf("committee multisignature script: %w", err)
		}
		committeeHash = hash.Hash160(script)
	}
	for i := range b.signers {
		c := b.signers[i].Account.Contract
		if c.Deployed {
			continue
		}
		if len(committee) != 0 && b.signers[i].Signer.Account == committeeHash {
			return nil
		}
		var pubs keys.PublicKeys
		if pub, ok := smartcontract.ParseSignatureContract(c.Script); ok {
			k := new(keys.PublicKey)
			if k.DecodeBytes(pub) == nil {
				pubs = keys.PublicKeys{k}
			}
		} else if _, ks, ok := smartcontract.ParseMultiSigContractKeys(c.Script); ok {
			pubs = ks
		}
		for _, k := range pubs {
			if committee.Contains(k) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: high priority transaction requires a committee signer", neoerr.ErrPermissionDenied)
}

// checkFunds applies insufficient funds policy (if any) to the sender balance.
func (b *Builder) checkFunds(ctx context.Context, tx *transaction.Transaction) error {
	if b.fundsHandler == nil && b.fundsErr == nil {
		return nil
	}
	script, err := smartcontract.CreateCallScript(nativehashes.Gas, "balanceOf", tx.Sender())
	if err != nil {
		return fmt.Errorf("failed to create balanceOf script: %w", err)
	}
	inv, err := b.client.InvokeScript(ctx, script, nil)
	if err != nil {
		return rpcError(ctx, "failed to get sender balance", err)
	}
	balance, err := inv.TopIntFromStack()
	if err != nil {
		return fmt.Errorf("failed to get sender balance: %w", err)
	}
	required := new(big.Int).Add(big.NewInt(tx.SystemFee), big.NewInt(tx.NetworkFee))
	if balance.Cmp(required) >= 0 {
		return nil
	}
	b.log.Debug("insufficient funds",
		zap.Stringer("required", required),
		zap.Stringer("available", balance))
	if b.fundsErr != nil {
		return fmt.Errorf("%w: required %s, available %s", b.fundsErr, required, balance)
	}
	return b.fundsHandler(required, balance)
}

// dummyWitness creates a witness used for network fee calculation: real
// verification script and zero signatures for every key required.
func dummyWitness(s SignerAccount) (transaction.Witness, error) {
	c := s.Account.Contract
	if c.Deployed {
		if len(c.InvocationParams) != len(c.Parameters) {
			return transaction.Witness{}, nil
		}
		invoc, err := c.InvocationScript()
		if err != nil {
			return transaction.Witness{}, err
		}
		return transaction.Witness{InvocationScript: invoc}, nil
	}
	n := len(c.Parameters)
	if m, _, ok := smartcontract.ParseMultiSigContract(c.Script); ok {
		n = m
	} else if smartcontract.IsSignatureContract(c.Script) {
		n = 1
	}
	invoc := make([]byte, 0, n*(2+keys.SignatureLen))
	for i := 0; i < n; i++ {
		invoc = append(invoc, byte(opcode.PUSHDATA1), keys.SignatureLen)
		invoc = append(invoc, make([]byte, keys.SignatureLen)...)
	}
	return transaction.Witness{
		InvocationScript:   invoc,
		VerificationScript: slices.Clone(c.Script),
	}, nil
}

// Sign builds the transaction (see Build) and adds witnesses for all signers
// in order. Multisignature accounts can't be signed automatically, accounts
// without private keys can't sign either. Builder becomes StateSigned after
// successful signing.
func (b *Builder) Sign(ctx context.Context) (*transaction.Transaction, error) {
	if err := b.checkMutable(); err != nil {
		return nil, err
	}
	for i := range b.signers {
		if err := checkCanSign(b.signers[i], i); err != nil {
			return nil, err
		}
	}
	tx, version, err := b.build(ctx)
	if err != nil {
		return nil, err
	}
	for i := range b.signers {
		if err := b.signers[i].Account.SignTx(uint32(version.Protocol.Network), tx); err != nil {
			return nil, fmt.Errorf("failed to add witness for signer #%d (%s): %w", i, b.signers[i].Account.Address, err)
		}
	}
	b.state = StateSigned
	return tx, nil
}

func checkCanSign(s SignerAccount, i int) error {
	acc := s.Account
	switch {
	case acc.Contract.Deployed:
		if len(acc.Contract.InvocationParams) != len(acc.Contract.Parameters) {
			return fmt.Errorf("%w: signer #%d (%s): %d parameters must be provided to construct invocation script",
				neoerr.ErrConfiguration, i, acc.Address, len(acc.Contract.Parameters))
		}
	case acc.IsMultiSig():
		return fmt.Errorf("%w: signer #%d (%s) is a multisignature account", neoerr.ErrUnsupportedOperation, i, acc.Address)
	case acc.PrivateKey() == nil:
		return fmt.Errorf("%w: signer #%d (%s) has no private key", neoerr.ErrCrypto, i, acc.Address)
	}
	if acc.Locked {
		return fmt.Errorf("signer #%d: %w", i, wallet.ErrAccountLocked)
	}
	return nil
}
