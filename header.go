package f4v

import "fmt"

// ReadHeader reads a box header at the reader's current position: a 32-bit
// size and a 4-byte type tag. A declared size of 1 is the escape for boxes
// larger than 4 GiB and is followed by the real size as 64 bits. The
// returned BoxSize counts payload bytes only.
func ReadHeader(r *BitReader) (BoxHeader, error) {
	declared := r.ReadUint(32)
	var t BoxType
	copy(t[:], r.ReadBytes(4))
	headerSize := uint32(8)
	if declared == 1 {
		declared = r.ReadUint(64)
		headerSize = 16
	}
	if err := r.Err(); err != nil {
		return BoxHeader{}, err
	}
	if declared < uint64(headerSize) {
		return BoxHeader{}, fmt.Errorf("%w: %q declares %d bytes, header is %d",
			ErrInvalidSize, t, declared, headerSize)
	}
	return BoxHeader{
		BoxSize:    declared - uint64(headerSize),
		BoxType:    t,
		HeaderSize: headerSize,
	}, nil
}
