package f4v

import "fmt"

// decodeAbst decodes a bootstrap info box. The fixed fields are followed by
// a count of nested asrt boxes and a count of nested afrt boxes, each
// nested box carrying its own header.
func decodeAbst(hdr BoxHeader, r *BitReader) (Box, error) {
	abst := &BootstrapInfoBox{Header: hdr}
	r.Skip(8 + 24) // version + flags
	abst.Version = uint32(r.ReadUint(32))
	abst.Profile = uint8(r.ReadUint(2))
	abst.Live = r.ReadBool()
	abst.Update = r.ReadBool()
	r.Skip(4) // reserved
	abst.TimeScale = uint32(r.ReadUint(32))
	rawMediaTime := r.ReadUint(64)
	abst.SmpteTimeCodeOffset = r.ReadUint(64)
	abst.MovieIdentifier = readString(r)
	abst.ServerEntries = readStringTable(r)
	abst.QualityEntries = readStringTable(r)
	abst.DrmData = readString(r)
	abst.MetaData = readString(r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if t, ok := scaledTime(rawMediaTime, abst.TimeScale); ok {
		abst.CurrentMediaTime = t
	}

	segmentCount := int(r.ReadUint(8))
	for i := 0; i < segmentCount; i++ {
		srt, err := decodeAsrt(r)
		if err != nil {
			return nil, err
		}
		abst.SegmentRunTables = append(abst.SegmentRunTables, srt)
	}

	fragmentCount := int(r.ReadUint(8))
	for i := 0; i < fragmentCount; i++ {
		frt, err := decodeAfrt(r)
		if err != nil {
			return nil, err
		}
		abst.FragmentRunTables = append(abst.FragmentRunTables, frt)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return abst, nil
}

// decodeAsrt reads one nested segment run table: its own box header, then a
// payload bounded to that header's size.
func decodeAsrt(r *BitReader) (*SegmentRunTable, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.BoxType != TypeAsrt {
		return nil, fmt.Errorf("expected asrt, found %q", hdr.BoxType)
	}
	br := r.ReadBounded(int(hdr.BoxSize))
	if err := r.Err(); err != nil {
		return nil, err
	}

	srt := &SegmentRunTable{Header: hdr}
	br.Skip(8) // version
	srt.Update = br.ReadUint(24) != 0
	srt.QualitySegmentURLModifiers = readStringTable(br)
	count := int(br.ReadUint(32))
	for i := 0; i < count; i++ {
		if br.Err() != nil {
			break
		}
		srt.Entries = append(srt.Entries, SegmentRunEntry{
			FirstSegment:        uint32(br.ReadUint(32)),
			FragmentsPerSegment: uint32(br.ReadUint(32)),
		})
	}
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("asrt: %w", err)
	}
	return srt, nil
}

// decodeAfrt reads one nested fragment run table. An entry carries a
// discontinuity indicator only when its fragment duration is zero.
func decodeAfrt(r *BitReader) (*FragmentRunTable, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.BoxType != TypeAfrt {
		return nil, fmt.Errorf("expected afrt, found %q", hdr.BoxType)
	}
	br := r.ReadBounded(int(hdr.BoxSize))
	if err := r.Err(); err != nil {
		return nil, err
	}

	frt := &FragmentRunTable{Header: hdr}
	br.Skip(8) // version
	frt.Update = br.ReadUint(24) != 0
	frt.TimeScale = uint32(br.ReadUint(32))
	frt.QualityFragmentURLModifiers = readStringTable(br)
	count := int(br.ReadUint(32))
	for i := 0; i < count; i++ {
		if br.Err() != nil {
			break
		}
		entry := FragmentRunEntry{
			FirstFragment: uint32(br.ReadUint(32)),
		}
		if t, ok := scaledTime(br.ReadUint(64), frt.TimeScale); ok {
			entry.FirstFragmentTimestamp = t
		}
		entry.FragmentDuration = uint32(br.ReadUint(32))
		if entry.FragmentDuration == 0 {
			di := DiscontinuityIndicator(br.ReadUint(8))
			entry.Discontinuity = &di
		}
		frt.Entries = append(frt.Entries, entry)
	}
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("afrt: %w", err)
	}
	return frt, nil
}
