// Package f4v implements decoding of the box-based container structure used
// by MPEG-4 Part 12 / Adobe F4V bootstrap streams (HTTP Dynamic Streaming).
package f4v

import "time"

// BoxType is a 4-byte box type identifier.
type BoxType [4]byte

func (t BoxType) String() string {
	return string(t[:])
}

// Known box types.
var (
	TypeAbst = BoxType{'a', 'b', 's', 't'} // Bootstrap info box
	TypeAsrt = BoxType{'a', 's', 'r', 't'} // Segment run table box (inside abst)
	TypeAfrt = BoxType{'a', 'f', 'r', 't'} // Fragment run table box (inside abst)
	TypeAfra = BoxType{'a', 'f', 'r', 'a'} // Fragment random access box
	TypeMdat = BoxType{'m', 'd', 'a', 't'} // Media data box
	TypeMoof = BoxType{'m', 'o', 'o', 'f'} // Movie fragment box (container)
	TypeMfhd = BoxType{'m', 'f', 'h', 'd'} // Movie fragment header box
	TypePssh = BoxType{'p', 's', 's', 'h'} // Protection system specific header box
)

// BoxHeader describes a single box: its payload size in bytes (header
// excluded), its 4-byte type tag, and the header length that was consumed
// (8, or 16 when the 64-bit extended size form was used).
type BoxHeader struct {
	BoxSize    uint64
	BoxType    BoxType
	HeaderSize uint32
}

// Box is the decoded form of a single box. Concrete types are
// UnimplementedBox, MediaDataBox, MovieFragmentHeaderBox,
// ProtectionSystemSpecificHeaderBox, MovieFragmentBox,
// FragmentRandomAccessBox and BootstrapInfoBox.
type Box interface {
	BoxHeader() BoxHeader
}

// UnimplementedBox records a box whose type is not decoded. The payload is
// skipped without interpretation; only the header survives.
type UnimplementedBox struct {
	Header BoxHeader
}

// BoxHeader returns the box header.
func (b *UnimplementedBox) BoxHeader() BoxHeader { return b.Header }

// MediaDataBox holds the raw payload of an mdat box. The media data itself
// is opaque to this package.
type MediaDataBox struct {
	Header  BoxHeader
	Payload []byte
}

// BoxHeader returns the box header.
func (b *MediaDataBox) BoxHeader() BoxHeader { return b.Header }

// MovieFragmentHeaderBox records an mfhd box. The payload is consumed but
// not exposed.
type MovieFragmentHeaderBox struct {
	Header BoxHeader
}

// BoxHeader returns the box header.
func (b *MovieFragmentHeaderBox) BoxHeader() BoxHeader { return b.Header }

// ProtectionSystemSpecificHeaderBox holds the DRM system payload of a pssh
// box. The payload starts 8 bytes into the box; the version/flags/system-id
// prefix is skipped as opaque.
type ProtectionSystemSpecificHeaderBox struct {
	Header  BoxHeader
	Payload []byte
}

// BoxHeader returns the box header.
func (b *ProtectionSystemSpecificHeaderBox) BoxHeader() BoxHeader { return b.Header }

// MovieFragmentBox holds the decoded children of a moof box, keyed by type
// tag. Type tags are unique within one moof in this format.
type MovieFragmentBox struct {
	Header   BoxHeader
	Children map[BoxType]Box
}

// BoxHeader returns the box header.
func (b *MovieFragmentBox) BoxHeader() BoxHeader { return b.Header }

// FragmentRandomAccessEntry is one local entry of an afra box.
type FragmentRandomAccessEntry struct {
	Time   time.Time
	Offset uint64
}

// FragmentRandomAccessGlobalEntry is one global entry of an afra box.
type FragmentRandomAccessGlobalEntry struct {
	Time           time.Time
	SegmentNumber  uint32
	FragmentNumber uint32
	AfraOffset     uint64
	SampleOffset   uint64
}

// FragmentRandomAccessBox is the decoded form of an afra box. Entry id and
// offset field widths are selected once per box by header flags and apply
// to every entry.
type FragmentRandomAccessBox struct {
	Header        BoxHeader
	TimeScale     uint32
	LocalEntries  []FragmentRandomAccessEntry
	GlobalEntries []FragmentRandomAccessGlobalEntry
}

// BoxHeader returns the box header.
func (b *FragmentRandomAccessBox) BoxHeader() BoxHeader { return b.Header }

// BootstrapInfoBox is the decoded form of an abst box: the top-level
// metadata box describing the segment and fragment run tables of an
// HTTP-fragmented stream.
//
// CurrentMediaTime is the zero time.Time when the raw value could not be
// converted (zero time scale or out-of-range result). String fields are
// empty when the box carried a bare terminator.
type BootstrapInfoBox struct {
	Header              BoxHeader
	Version             uint32
	Profile             uint8
	Live                bool
	Update              bool
	TimeScale           uint32
	CurrentMediaTime    time.Time
	SmpteTimeCodeOffset uint64
	MovieIdentifier     string
	ServerEntries       []string
	QualityEntries      []string
	DrmData             string
	MetaData            string
	SegmentRunTables    []*SegmentRunTable
	FragmentRunTables   []*FragmentRunTable
}

// BoxHeader returns the box header.
func (b *BootstrapInfoBox) BoxHeader() BoxHeader { return b.Header }

// SegmentRunEntry maps a first segment number to the fragment count of each
// segment in that run.
type SegmentRunEntry struct {
	FirstSegment        uint32
	FragmentsPerSegment uint32
}

// SegmentRunTable is the decoded form of an asrt box nested in an abst box.
type SegmentRunTable struct {
	Header                     BoxHeader
	Update                     bool
	QualitySegmentURLModifiers []string
	Entries                    []SegmentRunEntry
}

// BoxHeader returns the box header.
func (t *SegmentRunTable) BoxHeader() BoxHeader { return t.Header }

// DiscontinuityIndicator marks a timeline break at a fragment run boundary.
type DiscontinuityIndicator uint8

// Discontinuity indicator values.
const (
	DiscontinuityEndOfPresentation DiscontinuityIndicator = iota
	DiscontinuityNumbering
	DiscontinuityTimestamp
	DiscontinuityNumberingAndTimestamp
)

// FragmentRunEntry is one entry of a fragment run table.
//
// FirstFragmentTimestamp is the zero time.Time when the raw value could not
// be converted with the table's time scale; some real-world encoders emit
// such timestamps and they must not abort the decode. Discontinuity is
// present exactly when FragmentDuration is zero.
type FragmentRunEntry struct {
	FirstFragment          uint32
	FirstFragmentTimestamp time.Time
	FragmentDuration       uint32
	Discontinuity          *DiscontinuityIndicator
}

// FragmentRunTable is the decoded form of an afrt box nested in an abst box.
type FragmentRunTable struct {
	Header                      BoxHeader
	Update                      bool
	TimeScale                   uint32
	QualityFragmentURLModifiers []string
	Entries                     []FragmentRunEntry
}

// BoxHeader returns the box header.
func (t *FragmentRunTable) BoxHeader() BoxHeader { return t.Header }
