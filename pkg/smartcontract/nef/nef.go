package nef

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/r3e-network/neokit/pkg/crypto/hash"
	"github.com/r3e-network/neokit/pkg/io"
	"github.com/r3e-network/neokit/pkg/neoerr"
)

// NEO Executable Format 3 (NEF3)
// +------------+-----------+------------------------------------------------------------+
// |   Field    |  Length   |                          Comment                           |
// +------------+-----------+------------------------------------------------------------+
// | Magic      | 4 bytes   | Magic header                                               |
// | Compiler   | 64 bytes  | Compiler name and version                                  |
// +------------+-----------+------------------------------------------------------------+
// | Source     | Var bytes | Source file URL.                                           |
// +------------+-----------+------------------------------------------------------------+
// | Reserved   | 1 byte    | Reserved for extensions. Must be 0.                        |
// | Tokens     | Var array | List of method tokens                                      |
// | Reserved   | 2 bytes   | Reserved for extensions. Must be 0.                        |
// | Script     | Var bytes | Var bytes for the payload                                  |
// +------------+-----------+------------------------------------------------------------+
// | Checksum   | 4 bytes   | First four bytes of double SHA256 hash of the file         |
// +------------+-----------+------------------------------------------------------------+

const (
	// Magic is a magic File header constant.
	Magic uint32 = 0x3346454E
	// MaxScriptLength is the maximum allowed contract script length.
	MaxScriptLength = 512 * 1024
	// MaxSourceURLLength is the maximum allowed source URL length.
	MaxSourceURLLength = 255
	// MaxMethodTokens is the maximum number of method tokens in a file.
	MaxMethodTokens = 128
	// compilerFieldSize is the length of `Compiler` File header field in bytes.
	compilerFieldSize = 64
)

var (
	errInvalidMagic    = errors.New("invalid Magic")
	errInvalidReserved = errors.New("reserved bytes must be 0")
	errEmptyScript     = errors.New("empty script")
	errChecksum        = errors.New("checksum verification failure")
)

// File represents a compiled contract file structure according to the NEF3 standard.
type File struct {
	Header
	Source   string        `json:"source"`
	Tokens   []MethodToken `json:"tokens"`
	Script   []byte        `json:"script"`
	Checksum uint32        `json:"checksum"`
}

// Header represents a File header.
type Header struct {
	Magic    uint32 `json:"magic"`
	Compiler string `json:"compiler"`
}

// NewFile returns a new NEF3 file with the script specified and the checksum
// calculated.
func NewFile(script []byte, compiler string, source string, tokens []MethodToken) (*File, error) {
	if tokens == nil {
		tokens = []MethodToken{}
	}
	file := &File{
		Header: Header{
			Magic:    Magic,
			Compiler: compiler,
		},
		Source: source,
		Tokens: tokens,
		Script: script,
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	file.Checksum = file.CalculateChecksum()
	return file, nil
}

// Validate checks size limits of all the file fields. It doesn't check the
// checksum.
func (n *File) Validate() error {
	if n.Magic != Magic {
		return fmt.Errorf("%w: %w: %x", neoerr.ErrValidation, errInvalidMagic, n.Magic)
	}
	if len(n.Compiler) > compilerFieldSize {
		return fmt.Errorf("%w: compiler name is %d bytes long, max %d", neoerr.ErrValidation, len(n.Compiler), compilerFieldSize)
	}
	if len(n.Source) > MaxSourceURLLength {
		return fmt.Errorf("%w: source URL is %d bytes long, max %d", neoerr.ErrValidation, len(n.Source), MaxSourceURLLength)
	}
	if len(n.Tokens) > MaxMethodTokens {
		return fmt.Errorf("%w: %d method tokens, max %d", neoerr.ErrValidation, len(n.Tokens), MaxMethodTokens)
	}
	for i := range n.Tokens {
		if err := n.Tokens[i].Validate(); err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
	}
	if len(n.Script) == 0 {
		return fmt.Errorf("%w: %w", neoerr.ErrValidation, errEmptyScript)
	}
	if len(n.Script) > MaxScriptLength {
		return fmt.Errorf("%w: script is %d bytes long, max %d", neoerr.ErrValidation, len(n.Script), MaxScriptLength)
	}
	return nil
}

// EncodeBinary implements the io.Serializable interface.
func (h *Header) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(h.Magic)
	if len(h.Compiler) > compilerFieldSize {
		w.Err = fmt.Errorf("%w: invalid compiler name length", neoerr.ErrValidation)
		return
	}
	var b = make([]byte, compilerFieldSize)
	copy(b, []byte(h.Compiler))
	w.WriteBytes(b)
}

// DecodeBinary implements the io.Serializable interface.
func (h *Header) DecodeBinary(r *io.BinReader) {
	h.Magic = r.ReadU32LE()
	if r.Err == nil && h.Magic != Magic {
		r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errInvalidMagic)
		return
	}
	buf := make([]byte, compilerFieldSize)
	r.ReadBytes(buf)
	buf = bytes.TrimRightFunc(buf, func(r rune) bool {
		return r == 0
	})
	h.Compiler = string(buf)
}

// CalculateChecksum returns first 4 bytes of double-SHA256(Header) converted to uint32.
// CalculateChecksum doesn't perform the resulting serialized NEF size check, and return
// the checksum of the whole file even if it's too big.
func (n *File) CalculateChecksum() uint32 {
	bb, err := n.Bytes()
	if err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint32(hash.Checksum(bb[:len(bb)-4]))
}

// EncodeBinary implements the io.Serializable interface.
func (n *File) EncodeBinary(w *io.BinWriter) {
	n.Header.EncodeBinary(w)
	w.WriteString(n.Source)
	w.WriteB(0)
	w.WriteArray(n.Tokens)
	w.WriteU16LE(0)
	w.WriteVarBytes(n.Script)
	w.WriteU32LE(n.Checksum)
}

// DecodeBinary implements the io.Serializable interface.
func (n *File) DecodeBinary(r *io.BinReader) {
	n.Header.DecodeBinary(r)
	n.Source = r.ReadString(MaxSourceURLLength)
	reservedB := r.ReadB()
	if r.Err == nil && reservedB != 0 {
		r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errInvalidReserved)
		return
	}
	r.ReadArray(&n.Tokens, MaxMethodTokens)
	reserved := r.ReadU16LE()
	if r.Err == nil && reserved != 0 {
		r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errInvalidReserved)
		return
	}
	n.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err == nil && len(n.Script) == 0 {
		r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errEmptyScript)
		return
	}
	n.Checksum = r.ReadU32LE()
	if r.Err == nil {
		checksum := n.CalculateChecksum()
		if checksum != n.Checksum {
			r.Err = fmt.Errorf("%w: %w", neoerr.ErrFormat, errChecksum)
		}
	}
}

// Bytes returns a byte array with a serialized NEF File.
func (n File) Bytes() ([]byte, error) {
	buf := io.NewBufBinWriter()
	n.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}

// FileFromBytes returns a NEF File deserialized from the given bytes. Every
// decoding failure is a format error.
func FileFromBytes(source []byte) (File, error) {
	result := File{}
	if len(source) > MaxScriptLength*2 {
		return result, fmt.Errorf("%w: invalid NEF file size: expected %d at max, got %d", neoerr.ErrFormat, MaxScriptLength*2, len(source))
	}
	r := io.NewBinReaderFromBuf(source)
	result.DecodeBinary(r)
	if r.Err != nil {
		if !errors.Is(r.Err, neoerr.ErrFormat) {
			return result, fmt.Errorf("%w: %w", neoerr.ErrFormat, r.Err)
		}
		return result, r.Err
	}
	if r.Len() != 0 {
		return result, fmt.Errorf("%w: %d trailing bytes", neoerr.ErrFormat, r.Len())
	}
	return result, nil
}
