package f4v

// decodeAfra decodes a fragment random access box. Three header flags pick
// the field widths once for the whole box: long ids widen segment and
// fragment numbers from 16 to 32 bits, long offsets widen every offset from
// 32 to 64 bits, and the third flag announces a trailing global entry run.
func decodeAfra(hdr BoxHeader, r *BitReader) (Box, error) {
	afra := &FragmentRandomAccessBox{Header: hdr}
	r.Skip(8 + 24) // version + flags
	longIDs := r.ReadBool()
	longOffsets := r.ReadBool()
	hasGlobalEntries := r.ReadBool()
	r.Skip(5) // reserved
	afra.TimeScale = uint32(r.ReadUint(32))

	idBits, offsetBits := 16, 32
	if longIDs {
		idBits = 32
	}
	if longOffsets {
		offsetBits = 64
	}

	localCount := int(r.ReadUint(32))
	for i := 0; i < localCount; i++ {
		if r.Err() != nil {
			break
		}
		entry := FragmentRandomAccessEntry{}
		if t, ok := scaledTime(r.ReadUint(64), afra.TimeScale); ok {
			entry.Time = t
		}
		entry.Offset = r.ReadUint(offsetBits)
		afra.LocalEntries = append(afra.LocalEntries, entry)
	}

	if hasGlobalEntries {
		globalCount := int(r.ReadUint(32))
		for i := 0; i < globalCount; i++ {
			if r.Err() != nil {
				break
			}
			entry := FragmentRandomAccessGlobalEntry{}
			if t, ok := scaledTime(r.ReadUint(64), afra.TimeScale); ok {
				entry.Time = t
			}
			entry.SegmentNumber = uint32(r.ReadUint(idBits))
			entry.FragmentNumber = uint32(r.ReadUint(idBits))
			entry.AfraOffset = r.ReadUint(offsetBits)
			entry.SampleOffset = r.ReadUint(offsetBits)
			afra.GlobalEntries = append(afra.GlobalEntries, entry)
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return afra, nil
}
