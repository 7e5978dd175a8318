package io

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mocks io.Reader and io.Writer, always fails to Write() or Read().
type badRW struct{}

func (w *badRW) Write(p []byte) (int, error) {
	return 0, errors.New("it always fails")
}

func (w *badRW) Read(p []byte) (int, error) {
	return w.Write(p)
}

func TestWriteU64LE(t *testing.T) {
	var (
		val     uint64 = 0xbadc0de15a11dead
		readval uint64
		bin     = []byte{0xad, 0xde, 0x11, 0x5a, 0xe1, 0x0d, 0xdc, 0xba}
	)
	bw := NewBufBinWriter()
	bw.WriteU64LE(val)
	assert.Nil(t, bw.Err)
	wrotebin := bw.Bytes()
	assert.Equal(t, wrotebin, bin)
	br := NewBinReaderFromBuf(bin)
	readval = br.ReadU64LE()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, readval)
}

func TestWriteU32LEAndBE(t *testing.T) {
	var (
		val uint32 = 0xdeadbeef
		le         = []byte{0xef, 0xbe, 0xad, 0xde}
		be         = []byte{0xde, 0xad, 0xbe, 0xef}
	)
	bw := NewBufBinWriter()
	bw.WriteU32LE(val)
	bw.WriteU32BE(val)
	require.NoError(t, bw.Err)
	require.Equal(t, append(le, be...), bw.Bytes())

	br := NewBinReaderFromBuf(append(le, be...))
	require.Equal(t, val, br.ReadU32LE())
	require.Equal(t, val, br.ReadU32BE())
	require.NoError(t, br.Err)
}

func TestWriteU16LE(t *testing.T) {
	var (
		val uint16 = 0xbabe
		bin        = []byte{0xbe, 0xba}
	)
	bw := NewBufBinWriter()
	bw.WriteU16LE(val)
	require.NoError(t, bw.Err)
	require.Equal(t, bin, bw.Bytes())
	br := NewBinReaderFromBuf(bin)
	require.Equal(t, val, br.ReadU16LE())
	require.NoError(t, br.Err)
}

func TestWriteBool(t *testing.T) {
	var bin = []byte{0x01, 0x00}
	bw := NewBufBinWriter()
	bw.WriteBool(true)
	bw.WriteBool(false)
	require.NoError(t, bw.Err)
	require.Equal(t, bin, bw.Bytes())
	br := NewBinReaderFromBuf(bin)
	require.True(t, br.ReadBool())
	require.False(t, br.ReadBool())
	require.NoError(t, br.Err)
}

func TestReadLEErrors(t *testing.T) {
	bin := []byte{0xad, 0xde, 0x11, 0x5a, 0xe1, 0x0d, 0xdc, 0xba}
	br := NewBinReaderFromBuf(bin)
	// Prime the buffers with something.
	_ = br.ReadU64LE()
	assert.Nil(t, br.Err)

	assert.Equal(t, uint64(0), br.ReadU64LE())
	assert.Equal(t, uint32(0), br.ReadU32LE())
	assert.Equal(t, uint16(0), br.ReadU16LE())
	assert.Equal(t, uint32(0), br.ReadU32BE())
	assert.Equal(t, byte(0), br.ReadB())
	assert.Equal(t, false, br.ReadBool())
	assert.NotNil(t, br.Err)
}

func TestBufBinWriter_Len(t *testing.T) {
	val := []byte{0xde}
	bw := NewBufBinWriter()
	bw.WriteBytes(val)
	require.Equal(t, 1, bw.Len())
}

func TestBufBinWriterDrained(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteB(1)
	require.Equal(t, []byte{1}, bw.Bytes())
	bw.WriteB(2)
	require.ErrorIs(t, bw.Err, ErrDrained)
	require.Nil(t, bw.Bytes())

	bw.Reset()
	bw.WriteB(3)
	require.Equal(t, []byte{3}, bw.Bytes())
}

func TestWriterErrHandling(t *testing.T) {
	var badio = &badRW{}
	bw := NewBinWriterFromIO(badio)
	bw.WriteU32LE(uint32(0))
	assert.NotNil(t, bw.Err)
	// These should work (without panic), but not actually write anything.
	bw.WriteU32LE(uint32(0))
	bw.WriteU16LE(uint16(0))
	bw.WriteVarUint(0)
	bw.WriteVarBytes([]byte{0x55, 0xaa})
	bw.WriteString("neo")
	assert.NotNil(t, bw.Err)
}

func TestReaderErrHandling(t *testing.T) {
	var (
		badio = &badRW{}
	)
	br := NewBinReaderFromIO(badio)
	br.ReadU32LE()
	assert.NotNil(t, br.Err)
	// These should work (without panic), but not actually read anything.
	assert.Equal(t, uint64(0), br.ReadVarUint())
	assert.Equal(t, []byte{}, br.ReadVarBytes())
	assert.Equal(t, "", br.ReadString())
	assert.NotNil(t, br.Err)
}

func TestBufBinWriterErr(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteU32LE(uint32(0))
	assert.Nil(t, bw.Err)
	// inject error
	bw.Err = errors.New("oopsie")
	res := bw.Bytes()
	assert.NotNil(t, bw.Err)
	assert.Nil(t, res)
}

func TestWriteVarUint(t *testing.T) {
	testCases := []struct {
		val uint64
		bin []byte
	}{
		{0, []byte{0}},
		{0xfc, []byte{0xfc}},
		{0xfd, []byte{0xfd, 0xfd, 0x00}},
		{0xffff, []byte{0xfd, 0xff, 0xff}},
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		{0xffffffff, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}},
		{0x100000000, []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
	}
	for _, tc := range testCases {
		bw := NewBufBinWriter()
		bw.WriteVarUint(tc.val)
		require.NoError(t, bw.Err)
		buf := bw.Bytes()
		require.Equal(t, tc.bin, buf)
		require.Equal(t, len(tc.bin), GetVarSize(tc.val))

		br := NewBinReaderFromBuf(buf)
		require.Equal(t, tc.val, br.ReadVarUint())
		require.NoError(t, br.Err)
	}
}

func TestWriteBytes(t *testing.T) {
	var (
		bin = []byte{0xde, 0xad, 0xbe, 0xef}
	)
	bw := NewBufBinWriter()
	bw.WriteBytes(bin)
	assert.Nil(t, bw.Err)
	buf := bw.Bytes()
	assert.Equal(t, 4, len(buf))
	assert.Equal(t, byte(0xde), buf[0])

	bw = NewBufBinWriter()
	bw.Err = errors.New("smth bad")
	bw.WriteBytes(bin)
	assert.Equal(t, 0, bw.Len())
}

func TestVarBytesLimits(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteVarBytes([]byte{1, 2, 3, 4, 5})
	buf := bw.Bytes()

	br := NewBinReaderFromBuf(buf)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, br.ReadVarBytes(5))
	require.NoError(t, br.Err)

	br = NewBinReaderFromBuf(buf)
	require.Nil(t, br.ReadVarBytes(4))
	require.ErrorIs(t, br.Err, ErrTooBig)
}

func TestWriteString(t *testing.T) {
	var (
		str = "teststring"
	)
	bw := NewBufBinWriter()
	bw.WriteString(str)
	assert.Nil(t, bw.Err)
	wrotebin := bw.Bytes()
	// +1 byte for length
	assert.Equal(t, len(wrotebin), len(str)+1)
	assert.Equal(t, len(wrotebin), GetVarSize(str))
	br := NewBinReaderFromBuf(wrotebin)
	readstr := br.ReadString()
	assert.Nil(t, br.Err)
	assert.Equal(t, str, readstr)

	br = NewBinReaderFromBuf([]byte{2, 0xff, 0xfe})
	_ = br.ReadString()
	require.Error(t, br.Err)
}

type testSerializable uint16

// EncodeBinary implements io.Serializable interface.
func (t testSerializable) EncodeBinary(w *BinWriter) {
	w.WriteU16LE(uint16(t))
}

// DecodeBinary implements io.Serializable interface.
func (t *testSerializable) DecodeBinary(r *BinReader) {
	*t = testSerializable(r.ReadU16LE())
}

func TestBinWriter_WriteArray(t *testing.T) {
	var arr [3]testSerializable
	for i := range arr {
		arr[i] = testSerializable(i)
	}

	expected := []byte{3, 0, 0, 1, 0, 2, 0}

	w := NewBufBinWriter()
	w.WriteArray(arr)
	require.NoError(t, w.Err)
	require.Equal(t, expected, w.Bytes())

	w.Reset()
	w.WriteArray(arr[:])
	require.NoError(t, w.Err)
	require.Equal(t, expected, w.Bytes())

	w.Reset()
	WriteArray(w.BinWriter, arr[:])
	require.NoError(t, w.Err)
	require.Equal(t, expected, w.Bytes())

	w.Reset()
	require.Panics(t, func() { w.WriteArray(1) })
	require.Equal(t, len(expected), GetVarSize(arr[:]))
}

func TestBinReader_ReadArray(t *testing.T) {
	data := []byte{3, 0, 0, 1, 0, 2, 0}
	elems := []testSerializable{0, 1, 2}

	r := NewBinReaderFromBuf(data)
	arrPtr := []*testSerializable{}
	r.ReadArray(&arrPtr)
	require.NoError(t, r.Err)
	require.Equal(t, []*testSerializable{&elems[0], &elems[1], &elems[2]}, arrPtr)

	r = NewBinReaderFromBuf(data)
	arrVal := []testSerializable{}
	r.ReadArray(&arrVal)
	require.NoError(t, r.Err)
	require.Equal(t, elems, arrVal)

	r = NewBinReaderFromBuf(data)
	arrVal = []testSerializable{}
	r.ReadArray(&arrVal, 2)
	require.ErrorIs(t, r.Err, ErrTooBig)

	r = NewBinReaderFromBuf([]byte{0})
	arrVal = []testSerializable{}
	r.ReadArray(&arrVal)
	require.NoError(t, r.Err)
	require.Equal(t, []testSerializable{}, arrVal)

	r = NewBinReaderFromBuf([]byte{0})
	require.Panics(t, func() { r.ReadArray(arrVal) })
}
