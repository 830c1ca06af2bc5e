package f4v

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
)

// Parser is a pull iterator over the top-level boxes of a buffer. It is
// single-pass and forward-only; re-decoding requires a fresh Parser over
// the same data.
//
//	p := f4v.NewParser(data)
//	for p.Next() {
//	    switch box := p.Box().(type) {
//	    ...
//	    }
//	}
//	if err := p.Err(); err != nil { ... }
//
// Boxes yielded before a failure remain valid; the failure itself is
// reported by Err after Next returns false.
type Parser struct {
	// Logger, when set, receives a debug record for every box that is
	// skipped as unimplemented. A nil Logger is silent.
	Logger *slog.Logger

	r   *BitReader
	box Box
	err error
}

// NewParser creates a Parser over an in-memory buffer.
func NewParser(data []byte) *Parser {
	return &Parser{r: NewBitReader(data)}
}

// ParseFile reads the named file and returns a Parser positioned at offset,
// for formats that embed these boxes inside another container.
func ParseFile(name string, offset int64) (*Parser, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > int64(len(data)) {
		return nil, fmt.Errorf("%w: offset %d in %d-byte file", ErrOutOfBounds, offset, len(data))
	}
	return NewParser(data[offset:]), nil
}

// Next advances to the next box. It returns false when the buffer is
// exhausted or decoding fails; check Err after the loop.
func (p *Parser) Next() bool {
	if p.err != nil || p.r.Remaining() == 0 {
		return false
	}
	hdr, err := ReadHeader(p.r)
	if err != nil {
		p.err = err
		return false
	}
	if hdr.BoxSize > uint64(p.r.Remaining()/8) {
		p.err = fmt.Errorf("%s: %w: payload of %d bytes, %d left",
			hdr.BoxType, ErrOutOfBounds, hdr.BoxSize, p.r.Remaining()/8)
		return false
	}
	// Each decoder gets a reader bounded to the declared payload. The
	// parser re-synchronizes on the declared size, so a decoder that
	// leaves trailing padding unread cannot misalign the next sibling.
	box, err := p.decodePayload(hdr, p.r.ReadBounded(int(hdr.BoxSize)))
	if err != nil {
		p.err = fmt.Errorf("%s: %w", hdr.BoxType, err)
		return false
	}
	p.box = box
	return true
}

// Box returns the current box. Only valid after Next returns true.
func (p *Parser) Box() Box {
	return p.box
}

// Err returns the first error encountered while decoding.
func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) decodePayload(hdr BoxHeader, r *BitReader) (Box, error) {
	switch hdr.BoxType {
	case TypeAbst:
		return decodeAbst(hdr, r)
	case TypeAfra:
		return decodeAfra(hdr, r)
	case TypeMdat:
		return decodeMdat(hdr, r)
	case TypeMoof:
		return p.decodeMoof(hdr, r)
	case TypeMfhd:
		return decodeMfhd(hdr, r)
	case TypePssh:
		return decodePssh(hdr, r)
	default:
		// Unknown types are skipped, not rejected.
		if p.Logger != nil {
			p.Logger.Debug("skipping unimplemented box",
				"type", hdr.BoxType.String(), "size", hdr.BoxSize)
		}
		return &UnimplementedBox{Header: hdr}, nil
	}
}

// decodeMdat copies the entire payload verbatim.
func decodeMdat(hdr BoxHeader, r *BitReader) (Box, error) {
	payload := bytes.Clone(r.ReadBytes(int(hdr.BoxSize)))
	if err := r.Err(); err != nil {
		return nil, err
	}
	return &MediaDataBox{Header: hdr, Payload: payload}, nil
}

// decodeMfhd consumes and discards the payload; the sequence number field
// is not exposed.
func decodeMfhd(hdr BoxHeader, r *BitReader) (Box, error) {
	r.Skip(int(hdr.BoxSize) * 8)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return &MovieFragmentHeaderBox{Header: hdr}, nil
}

// decodePssh exposes the payload from offset 8 on; the first 8 bytes are
// the version/flags/system-id prefix. A box shorter than the prefix has an
// empty payload.
func decodePssh(hdr BoxHeader, r *BitReader) (Box, error) {
	var payload []byte
	if hdr.BoxSize > 8 {
		r.Skip(8 * 8)
		payload = bytes.Clone(r.ReadBytes(int(hdr.BoxSize) - 8))
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return &ProtectionSystemSpecificHeaderBox{Header: hdr, Payload: payload}, nil
}

// decodeMoof recursively parses the bounded payload and collects the child
// boxes by type tag.
func (p *Parser) decodeMoof(hdr BoxHeader, r *BitReader) (Box, error) {
	children := make(map[BoxType]Box)
	sub := &Parser{Logger: p.Logger, r: r}
	for sub.Next() {
		child := sub.Box()
		children[child.BoxHeader().BoxType] = child
	}
	if err := sub.Err(); err != nil {
		return nil, err
	}
	return &MovieFragmentBox{Header: hdr, Children: children}, nil
}
