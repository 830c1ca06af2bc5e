package f4v

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var be = binary.BigEndian

// Decode errors.
var (
	// ErrOutOfBounds reports a read past the end of the buffer or past a
	// box's declared bound.
	ErrOutOfBounds = errors.New("f4v: read out of bounds")

	// ErrInvalidSize reports a box whose declared size is smaller than its
	// own header.
	ErrInvalidSize = errors.New("f4v: box size smaller than header")

	// ErrInvalidUTF8 reports a string field that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("f4v: invalid UTF-8 in string field")
)

// BitReader reads big-endian bit fields from a byte buffer. The position
// advances in bits, so flag bits, padding and sub-byte integers mix freely
// with byte-aligned reads.
//
// Errors are sticky: once a read fails, Err returns the failure and every
// later read returns the zero value without advancing. Callers check Err
// at decode boundaries instead of after each read.
type BitReader struct {
	buf []byte
	pos int // bit offset, 0 <= pos <= len(buf)*8
	err error
}

// NewBitReader creates a BitReader over buf. The reader does not modify buf.
func NewBitReader(buf []byte) *BitReader {
	return &BitReader{buf: buf}
}

// Err returns the first error encountered by the reader.
func (r *BitReader) Err() error {
	return r.err
}

// Remaining returns the number of unread bits.
func (r *BitReader) Remaining() int {
	return len(r.buf)*8 - r.pos
}

func (r *BitReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// ReadUint reads an nbits-wide big-endian unsigned integer, nbits <= 64.
func (r *BitReader) ReadUint(nbits int) uint64 {
	if r.err != nil {
		return 0
	}
	if nbits > r.Remaining() {
		r.fail(ErrOutOfBounds)
		return 0
	}
	// Fast path for byte-aligned whole-byte reads, which is every field in
	// this format except the abst/afra flag clusters.
	if r.pos&7 == 0 && nbits&7 == 0 {
		i := r.pos >> 3
		var v uint64
		switch nbits {
		case 8:
			v = uint64(r.buf[i])
		case 16:
			v = uint64(be.Uint16(r.buf[i:]))
		case 32:
			v = uint64(be.Uint32(r.buf[i:]))
		case 64:
			v = be.Uint64(r.buf[i:])
		default:
			for n := 0; n < nbits; n += 8 {
				v = v<<8 | uint64(r.buf[i+n>>3])
			}
		}
		r.pos += nbits
		return v
	}
	var v uint64
	for n := 0; n < nbits; n++ {
		bit := r.buf[r.pos>>3] >> (7 - uint(r.pos&7)) & 1
		v = v<<1 | uint64(bit)
		r.pos++
	}
	return v
}

// ReadBool reads a single bit.
func (r *BitReader) ReadBool() bool {
	return r.ReadUint(1) == 1
}

// Skip advances past nbits without interpreting them.
func (r *BitReader) Skip(nbits int) {
	if r.err != nil {
		return
	}
	if nbits < 0 || nbits > r.Remaining() {
		r.fail(ErrOutOfBounds)
		return
	}
	r.pos += nbits
}

// ReadBytes reads n bytes. The returned slice points into the reader's
// buffer when the position is byte-aligned.
func (r *BitReader) ReadBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	// Compare in bytes: multiplying n by 8 overflows for sizes near the
	// int range, which a corrupt 64-bit box size can declare.
	if n < 0 || n > r.Remaining()/8 {
		r.fail(ErrOutOfBounds)
		return nil
	}
	if r.pos&7 == 0 {
		i := r.pos >> 3
		r.pos += n * 8
		return r.buf[i : i+n]
	}
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(r.ReadUint(8))
	}
	return p
}

// ReadBounded reads the next n bytes as a new reader scoped to exactly
// those bytes, advancing this reader past them. Decoders receive a bounded
// reader per box so a payload read can never cross into a sibling box.
func (r *BitReader) ReadBounded(n int) *BitReader {
	return NewBitReader(r.ReadBytes(n))
}

// ReadUntil reads bytes from the current byte boundary up to, but not
// including, the first occurrence of marker, and consumes the marker.
// Fails with ErrOutOfBounds when the marker is missing.
func (r *BitReader) ReadUntil(marker byte) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos&7 != 0 {
		r.fail(ErrOutOfBounds)
		return nil
	}
	start := r.pos >> 3
	i := bytes.IndexByte(r.buf[start:], marker)
	if i < 0 {
		r.fail(ErrOutOfBounds)
		return nil
	}
	r.pos += (i + 1) * 8
	return r.buf[start : start+i]
}
