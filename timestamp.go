package f4v

import "time"

// maxEpochSeconds is 9999-12-31T23:59:59Z. Scaled timestamps past it come
// from encoders emitting garbage tick counts (observed in Elemental
// output) and decode as absent.
const maxEpochSeconds = 253402300799

// scaledTime converts a raw tick count to a UTC instant: raw/scale seconds
// since the Unix epoch, sub-second remainder preserved. Returns false when
// scale is zero or the result is past year 9999; such values are absent
// fields, not decode failures.
func scaledTime(raw uint64, scale uint32) (time.Time, bool) {
	if scale == 0 {
		return time.Time{}, false
	}
	sec := raw / uint64(scale)
	if sec > maxEpochSeconds {
		return time.Time{}, false
	}
	rem := raw % uint64(scale)
	nsec := rem * uint64(time.Second) / uint64(scale)
	return time.Unix(int64(sec), int64(nsec)).UTC(), true
}
