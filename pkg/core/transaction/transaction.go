package transaction

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
	"github.com/r3e-network/neokit/pkg/util"
)

const (
	// MaxScriptLength is the limit for transaction's script length.
	MaxScriptLength = math.MaxUint16
	// MaxTransactionSize is the upper limit size in bytes that a transaction can reach. It is
	// set to be 102400.
	MaxTransactionSize = 102400
	// MaxAttributes is maximum number of attributes including signers that can be contained
	// within a transaction. It is set to be 16.
	MaxAttributes = 16
	// DummyVersion represents reserved transaction version for trimmed transactions.
	DummyVersion = 255
)

// ErrInvalidWitnessNum returns when the number of witnesses does not match signers.
var ErrInvalidWitnessNum = errors.New("number of signers doesn't match witnesses")

// Transaction is a process recorded in the Neo blockchain.
type Transaction struct {
	// Incremented when updated to be used in future.
	Version uint8

	// Random number to avoid hash collision.
	Nonce uint32

	// Fee to be burned.
	SystemFee int64

	// Fee to be distributed to consensus nodes.
	NetworkFee int64

	// Maximum blockchain height exceeding which
	// transaction should fail verification.
	ValidUntilBlock uint32

	// Code to run in NeoVM for this transaction.
	Script []byte

	// Transaction attributes.
	Attributes []Attribute

	// Transaction signers list (starts with Sender).
	Signers []Signer

	// The scripts that comes with this transaction.
	// Scripts exist out of the verification script
	// and invocation script.
	Scripts []Witness

	// size is transaction's serialized size.
	size int

	// Hash of the transaction (double SHA256).
	hash util.Uint256

	// Whether hash is correct.
	hashed bool
}

// NewTransactionFromBytes decodes byte array into *Transaction.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	r := io.NewBinReaderFromBuf(b)
	tx.DecodeBinary(r)
	if r.Err != nil {
		if !errors.Is(r.Err, neoerr.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", neoerr.ErrFormat, r.Err)
		}
		return nil, r.Err
	}
	_ = r.ReadB()
	if r.Err == nil {
		return nil, fmt.Errorf("%w: additional data after the transaction", neoerr.ErrFormat)
	}
	tx.size = len(b)
	return tx, nil
}

// New returns a new transaction to execute given script and pay given system
// fee. Nonce is random.
func New(script []byte, gas int64) *Transaction {
	return &Transaction{
		Version:    0,
		Nonce:      rand.Uint32(),
		Script:     script,
		SystemFee:  gas,
		Attributes: []Attribute{},
		Signers:    []Signer{},
		Scripts:    []Witness{},
	}
}

// Hash returns the hash of the transaction.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashed {
		if t.createHash() != nil {
			panic("failed to compute hash!")
		}
	}
	return t.hash
}

// HasAttribute returns true iff t has an attribute of type typ.
func (t *Transaction) HasAttribute(typ AttrType) bool {
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			return true
		}
	}
	return false
}

// GetAttributes returns the list of transaction's attributes of the given type.
// Returns nil in case if attributes not found.
func (t *Transaction) GetAttributes(typ AttrType) []Attribute {
	var result []Attribute
	for _, attr := range t.Attributes {
		if attr.Type == typ {
			result = append(result, attr)
		}
	}
	return result
}

// decodeHashableFields decodes the fields that are used for signing the
// transaction, which are all fields except the scripts.
func (t *Transaction) decodeHashableFields(br *io.BinReader) {
	t.Version = uint8(br.ReadB())
	t.Nonce = br.ReadU32LE()
	t.SystemFee = int64(br.ReadU64LE())
	t.NetworkFee = int64(br.ReadU64LE())
	t.ValidUntilBlock = br.ReadU32LE()
	nsigners := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if nsigners > MaxAttributes {
		br.Err = fmt.Errorf("%w: too many signers", neoerr.ErrFormat)
		return
	} else if nsigners == 0 {
		br.Err = fmt.Errorf("%w: missing signers", neoerr.ErrFormat)
		return
	}
	t.Signers = make([]Signer, nsigners)
	for i := 0; i < int(nsigners); i++ {
		t.Signers[i].DecodeBinary(br)
	}
	nattrs := br.ReadVarUint()
	if nattrs > MaxAttributes-nsigners {
		br.Err = fmt.Errorf("%w: too many attributes", neoerr.ErrFormat)
		return
	}
	t.Attributes = make([]Attribute, nattrs)
	for i := 0; i < int(nattrs); i++ {
		t.Attributes[i].DecodeBinary(br)
	}
	t.Script = br.ReadVarBytes(MaxScriptLength)
	if br.Err == nil {
		br.Err = t.isValid()
	}
}

func (t *Transaction) decodeBinaryNoSize(br *io.BinReader) {
	t.decodeHashableFields(br)
	if br.Err != nil {
		return
	}
	nscripts := br.ReadVarUint()
	if nscripts > MaxAttributes {
		br.Err = fmt.Errorf("%w: too many witnesses", neoerr.ErrFormat)
		return
	} else if int(nscripts) != len(t.Signers) {
		br.Err = fmt.Errorf("%w: %w: %d vs %d", neoerr.ErrFormat, ErrInvalidWitnessNum, len(t.Signers), nscripts)
		return
	}
	t.Scripts = make([]Witness, nscripts)
	for i := 0; i < int(nscripts); i++ {
		t.Scripts[i].DecodeBinary(br)
	}

	// Create the hash of the transaction at decode, so we dont need
	// to do it anymore.
	if br.Err == nil {
		br.Err = t.createHash()
	}
}

// DecodeBinary implements the Serializable interface.
func (t *Transaction) DecodeBinary(br *io.BinReader) {
	t.decodeBinaryNoSize(br)

	if br.Err == nil {
		_ = t.Size()
	}
}

// EncodeBinary implements the Serializable interface.
func (t *Transaction) EncodeBinary(bw *io.BinWriter) {
	t.encodeHashableFields(bw)
	bw.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(bw)
	}
}

// encodeHashableFields encodes the fields that are not used for
// signing the transaction, which are all fields except the scripts.
func (t *Transaction) encodeHashableFields(bw *io.BinWriter) {
	if len(t.Script) == 0 {
		bw.Err = fmt.Errorf("%w: transaction has no script", neoerr.ErrValidation)
		return
	}
	bw.WriteB(byte(t.Version))
	bw.WriteU32LE(t.Nonce)
	bw.WriteU64LE(uint64(t.SystemFee))
	bw.WriteU64LE(uint64(t.NetworkFee))
	bw.WriteU32LE(t.ValidUntilBlock)
	bw.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(bw)
	}
	bw.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(bw)
	}
	bw.WriteVarBytes(t.Script)
}

// EncodeHashableFields returns serialized transaction's fields which are hashed.
func (t *Transaction) EncodeHashableFields() ([]byte, error) {
	bw := io.NewBufBinWriter()
	t.encodeHashableFields(bw.BinWriter)
	if bw.Err != nil {
		return nil, bw.Err
	}
	return bw.Bytes(), nil
}

// createHash creates the hash of the transaction.
func (t *Transaction) createHash() error {
	shaHash, err := t.hashUnsigned()
	if err != nil {
		return err
	}
	t.hash = shaHash
	t.hashed = true
	return nil
}

func (t *Transaction) hashUnsigned() (util.Uint256, error) {
	b, err := t.EncodeHashableFields()
	if err != nil {
		return util.Uint256{}, err
	}
	return hash.Sha256(b), nil
}

// GetSignedPart returns the part of the transaction which must be signed:
// network magic followed by the transaction hash.
func (t *Transaction) GetSignedPart(net uint32) []byte {
	return hash.GetSignedData(net, t)
}

// GetSignedHash returns the digest signers sign, it's the SHA-256 of
// GetSignedPart.
func (t *Transaction) GetSignedHash(net uint32) util.Uint256 {
	return hash.NetSha256(net, t)
}

// Bytes converts the transaction to []byte.
func (t *Transaction) Bytes() []byte {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return nil
	}
	return buf.Bytes()
}

// FeePerByte returns NetworkFee of the transaction divided by
// its size.
func (t *Transaction) FeePerByte() int64 {
	return t.NetworkFee / int64(t.Size())
}

// Size returns size of the serialized transaction.
func (t *Transaction) Size() int {
	if t.size == 0 {
		t.size = io.GetVarSize(t)
	}
	return t.size
}

// Sender returns the sender of the transaction which is always on the first place
// in the transaction's signers list.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		panic("transaction does not have signers")
	}
	return t.Signers[0].Account
}

// Various errors for transaction validation.
var (
	ErrInvalidVersion     = errors.New("only version 0 is supported")
	ErrNegativeSystemFee  = errors.New("negative system fee")
	ErrNegativeNetworkFee = errors.New("negative network fee")
	ErrTooBigFees         = errors.New("too big fees: int64 overflow")
	ErrEmptySigners       = errors.New("signers array should contain sender")
	ErrNonUniqueSigners   = errors.New("transaction signers should be unique")
	ErrInvalidAttribute   = errors.New("invalid attribute")
	ErrEmptyScript        = errors.New("no script")
)

// isValid checks whether decoded/unmarshalled transaction has all fields valid.
func (t *Transaction) isValid() error {
	if t.Version > 0 && t.Version != DummyVersion {
		return fmt.Errorf("%w: %w", neoerr.ErrFormat, ErrInvalidVersion)
	}
	if t.SystemFee < 0 {
		return fmt.Errorf("%w: %w", neoerr.ErrFormat, ErrNegativeSystemFee)
	}
	if t.NetworkFee < 0 {
		return fmt.Errorf("%w: %w", neoerr.ErrFormat, ErrNegativeNetworkFee)
	}
	if t.NetworkFee+t.SystemFee < t.SystemFee {
		return fmt.Errorf("%w: %w", neoerr.ErrFormat, ErrTooBigFees)
	}
	if len(t.Signers) == 0 {
		return fmt.Errorf("%w: %w", neoerr.ErrFormat, ErrEmptySigners)
	}
	for i := 0; i < len(t.Signers); i++ {
		for j := i + 1; j < len(t.Signers); j++ {
			if t.Signers[i].Account.Equals(t.Signers[j].Account) {
				return fmt.Errorf("%w: %w", neoerr.ErrFormat, ErrNonUniqueSigners)
			}
		}
	}
	attrs := map[AttrType]bool{}
	for i := range t.Attributes {
		typ := t.Attributes[i].Type
		if !typ.allowMultiple() {
			if attrs[typ] {
				return fmt.Errorf("%w: %w: multiple '%s' attributes", neoerr.ErrFormat, ErrInvalidAttribute, typ.String())
			}
			attrs[typ] = true
		}
	}
	if len(t.Script) == 0 {
		return fmt.Errorf("%w: %w", neoerr.ErrFormat, ErrEmptyScript)
	}
	return nil
}

// Copy creates a deep copy of the Transaction, including all slice fields.
// Cached values like hash and size are reset to ensure the copy can be
// modified independently of the original.
func (t *Transaction) Copy() *Transaction {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Attributes != nil {
		cp.Attributes = make([]Attribute, len(t.Attributes))
		for i, attr := range t.Attributes {
			cp.Attributes[i] = *attr.Copy()
		}
	}
	if t.Signers != nil {
		cp.Signers = make([]Signer, len(t.Signers))
		for i, signer := range t.Signers {
			cp.Signers[i] = *signer.Copy()
		}
	}
	if t.Scripts != nil {
		cp.Scripts = make([]Witness, len(t.Scripts))
		for i, script := range t.Scripts {
			cp.Scripts[i] = script.Copy()
		}
	}
	cp.Script = bytes.Clone(t.Script)

	cp.hashed = false
	cp.size = 0
	cp.hash = util.Uint256{}
	return &cp
}

// InvalidateHash resets cached hash and size, it must be called after any
// change of the hashable fields.
func (t *Transaction) InvalidateHash() {
	t.hashed = false
	t.size = 0
}
