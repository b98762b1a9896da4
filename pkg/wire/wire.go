// Package wire implements the primitive codec of the KFM binary format:
// fixed-width integers, 32-bit floats and u32 length-prefixed ASCII strings
// under an explicit byte order.
//
// A file stores its byte order once, in the header, and every multi-byte
// field after it uses that order. [Reader] and [Writer] take the order at
// construction so it is threaded through every call without being repeated.
//
// Both sides work on whole in-memory buffers. The reader knows how many bytes
// remain, which lets it reject a declared length or element count that could
// never be satisfied before allocating anything for it.
package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/matzehuels/kfmtool/pkg/errors"
)

// Sizes of the fixed-width primitives, in bytes.
const (
	SizeU8  = 1
	SizeU32 = 4
	SizeI32 = 4
	SizeF32 = 4
)

// Reader decodes primitives from an in-memory buffer.
// The zero value is not usable; use [NewReader].
type Reader struct {
	data  []byte
	off   int
	order binary.ByteOrder
}

// NewReader returns a Reader over data using the given byte order.
// The reader does not copy data; callers must not modify it while reading.
func NewReader(data []byte, order binary.ByteOrder) *Reader {
	return &Reader{data: data, order: order}
}

// Order returns the byte order used for multi-byte primitives.
func (r *Reader) Order() binary.ByteOrder { return r.order }

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// ReadBytes returns the next n bytes. The returned slice aliases the
// underlying buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, errors.New(errors.ErrCodeFormat,
			"unexpected end of input: need %d bytes at offset %d, have %d", n, r.off, r.Remaining())
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(SizeU8)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(SizeU32)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads an IEEE-754 single-precision float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadString reads a u32 byte-length prefix followed by that many bytes.
// The bytes must be valid UTF-8; the format only ever contains ASCII.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(r.Remaining()) {
		return "", errors.New(errors.ErrCodeFormat,
			"string length %d exceeds remaining input %d", n, r.Remaining())
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New(errors.ErrCodeFormat, "string is not valid UTF-8: %q", b)
	}
	return string(b), nil
}

// ReadCount reads a u32 element count and checks that count elements of at
// least minElemSize bytes each could still fit in the remaining input.
func (r *Reader) ReadCount(minElemSize int) (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if minElemSize < 1 {
		minElemSize = 1
	}
	if uint64(n)*uint64(minElemSize) > uint64(r.Remaining()) {
		return 0, errors.New(errors.ErrCodeFormat,
			"count %d exceeds remaining input %d", n, r.Remaining())
	}
	return int(n), nil
}

// Writer encodes primitives into a growing in-memory buffer.
// The zero value is not usable; use [NewWriter].
type Writer struct {
	buf   bytes.Buffer
	order binary.ByteOrder
}

// NewWriter returns an empty Writer using the given byte order.
func NewWriter(order binary.ByteOrder) *Writer {
	return &Writer{order: order}
}

// Order returns the byte order used for multi-byte primitives.
func (w *Writer) Order() binary.ByteOrder { return w.order }

// Bytes returns the encoded bytes. The slice is valid until the next write.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// WriteBytes appends raw bytes without a length prefix.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteU8 appends a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteU32 appends an unsigned 32-bit integer.
func (w *Writer) WriteU32(v uint32) {
	var b [SizeU32]byte
	w.order.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteI32 appends a signed 32-bit integer.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteF32 appends an IEEE-754 single-precision float.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteCount appends a u32 element count.
func (w *Writer) WriteCount(n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return errors.New(errors.ErrCodeEncoding, "count %d does not fit in u32", n)
	}
	w.WriteU32(uint32(n))
	return nil
}

// WriteString appends s as a u32 byte-length prefix followed by its bytes.
// Strings containing any non-ASCII byte cannot be represented in the format.
func (w *Writer) WriteString(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return errors.New(errors.ErrCodeEncoding, "%q is not ascii (byte %d)", s, i)
		}
	}
	if err := w.WriteCount(len(s)); err != nil {
		return err
	}
	w.buf.WriteString(s)
	return nil
}
