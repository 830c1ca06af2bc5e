package f4v

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// afra flag bytes: longIDs, longOffsets, hasGlobalEntries, 5 reserved bits.
func afraFlags(longIDs, longOffsets, globalEntries bool) byte {
	var b byte
	if longIDs {
		b |= 0x80
	}
	if longOffsets {
		b |= 0x40
	}
	if globalEntries {
		b |= 0x20
	}
	return b
}

func TestDecodeAfraShortIDsLongOffsets(t *testing.T) {
	var w writer
	w.startBox(TypeAfra)
	w.putUint32(0) // version + flags
	w.putUint8(afraFlags(false, true, true))
	w.putUint32(1000) // time scale
	w.putUint32(2)    // local entries
	w.putUint64(1000) // 1s
	w.putUint64(0x0102030405060708)
	w.putUint64(2000) // 2s
	w.putUint64(0x1112131415161718)
	w.putUint32(2) // global entries
	w.putUint64(3000)
	w.putUint16(7)  // segment number, 16-bit
	w.putUint16(9)  // fragment number, 16-bit
	w.putUint64(100)
	w.putUint64(200)
	w.putUint64(4000)
	w.putUint16(8)
	w.putUint16(10)
	w.putUint64(300)
	w.putUint64(400)
	w.endBox()

	boxes := collect(t, NewParser(w.bytes()))
	require.Len(t, boxes, 1)
	afra := boxes[0].(*FragmentRandomAccessBox)

	assert.Equal(t, uint32(1000), afra.TimeScale)
	require.Len(t, afra.LocalEntries, 2)
	assert.True(t, afra.LocalEntries[0].Time.Equal(time.Unix(1, 0).UTC()))
	assert.Equal(t, uint64(0x0102030405060708), afra.LocalEntries[0].Offset)
	assert.True(t, afra.LocalEntries[1].Time.Equal(time.Unix(2, 0).UTC()))
	assert.Equal(t, uint64(0x1112131415161718), afra.LocalEntries[1].Offset)

	// Widths hold for every entry in the box.
	require.Len(t, afra.GlobalEntries, 2)
	assert.Equal(t, FragmentRandomAccessGlobalEntry{
		Time:           time.Unix(3, 0).UTC(),
		SegmentNumber:  7,
		FragmentNumber: 9,
		AfraOffset:     100,
		SampleOffset:   200,
	}, afra.GlobalEntries[0])
	assert.Equal(t, FragmentRandomAccessGlobalEntry{
		Time:           time.Unix(4, 0).UTC(),
		SegmentNumber:  8,
		FragmentNumber: 10,
		AfraOffset:     300,
		SampleOffset:   400,
	}, afra.GlobalEntries[1])
}

func TestDecodeAfraLongIDsShortOffsets(t *testing.T) {
	var w writer
	w.startBox(TypeAfra)
	w.putUint32(0)
	w.putUint8(afraFlags(true, false, true))
	w.putUint32(1)
	w.putUint32(1) // local entries
	w.putUint64(5)
	w.putUint32(0xcafebabe) // offset, 32-bit
	w.putUint32(1)          // global entries
	w.putUint64(6)
	w.putUint32(0x00010000) // segment number, 32-bit
	w.putUint32(0x00020000) // fragment number, 32-bit
	w.putUint32(111)
	w.putUint32(222)
	w.endBox()

	boxes := collect(t, NewParser(w.bytes()))
	require.Len(t, boxes, 1)
	afra := boxes[0].(*FragmentRandomAccessBox)

	require.Len(t, afra.LocalEntries, 1)
	assert.Equal(t, uint64(0xcafebabe), afra.LocalEntries[0].Offset)

	require.Len(t, afra.GlobalEntries, 1)
	g := afra.GlobalEntries[0]
	assert.Equal(t, uint32(0x00010000), g.SegmentNumber)
	assert.Equal(t, uint32(0x00020000), g.FragmentNumber)
	assert.Equal(t, uint64(111), g.AfraOffset)
	assert.Equal(t, uint64(222), g.SampleOffset)
}

func TestDecodeAfraNoGlobalEntries(t *testing.T) {
	var w writer
	w.startBox(TypeAfra)
	w.putUint32(0)
	w.putUint8(afraFlags(false, false, false))
	w.putUint32(1000)
	w.putUint32(1)
	w.putUint64(1000)
	w.putUint32(77)
	w.endBox()

	boxes := collect(t, NewParser(w.bytes()))
	require.Len(t, boxes, 1)
	afra := boxes[0].(*FragmentRandomAccessBox)
	require.Len(t, afra.LocalEntries, 1)
	assert.Equal(t, uint64(77), afra.LocalEntries[0].Offset)
	assert.Empty(t, afra.GlobalEntries)
}

func TestDecodeAfraTruncatedEntries(t *testing.T) {
	var w writer
	w.startBox(TypeAfra)
	w.putUint32(0)
	w.putUint8(afraFlags(false, false, false))
	w.putUint32(1000)
	w.putUint32(5) // declares 5 entries, carries none
	w.endBox()

	p := NewParser(w.bytes())
	assert.False(t, p.Next())
	assert.ErrorIs(t, p.Err(), ErrOutOfBounds)
}
