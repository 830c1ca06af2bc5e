package f4v

import "unicode/utf8"

// readString reads a null-terminated UTF-8 string. A bare terminator
// decodes to the empty string, which callers treat as absent. A missing
// terminator fails the reader with ErrOutOfBounds, invalid UTF-8 with
// ErrInvalidUTF8; string lengths are structural in this format, so neither
// is recoverable.
func readString(r *BitReader) string {
	b := r.ReadUntil(0x00)
	if r.Err() != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.fail(ErrInvalidUTF8)
		return ""
	}
	return string(b)
}

// readStringTable reads a 1-byte entry count followed by that many
// null-terminated strings. Both abst string tables and the quality URL
// modifier tables of asrt/afrt boxes use this layout.
func readStringTable(r *BitReader) []string {
	count := int(r.ReadUint(8))
	var table []string
	for i := 0; i < count; i++ {
		if r.Err() != nil {
			return nil
		}
		table = append(table, readString(r))
	}
	return table
}
