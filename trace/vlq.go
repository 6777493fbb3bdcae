package trace

import "errors"

// ErrTruncated is returned when a VLQ value runs past the end of its frame.
var ErrTruncated = errors.New("trace: truncated value")

// appendVLQ appends v in variable length quantity encoding, most
// significant 7-bit group first, continuation bit on all but the last.
func appendVLQ(buf []byte, v uint32) []byte {
	sv := int32(v)
	if !(-(1 << 26) <= sv && sv < (3 << 26)) {
		buf = append(buf, byte((sv>>28)&0x7F)|0x80)
	}
	if !(-(1 << 19) <= sv && sv < (3 << 19)) {
		buf = append(buf, byte((sv>>21)&0x7F)|0x80)
	}
	if !(-(1 << 12) <= sv && sv < (3 << 12)) {
		buf = append(buf, byte((sv>>14)&0x7F)|0x80)
	}
	if !(-(1 << 5) <= sv && sv < (3 << 5)) {
		buf = append(buf, byte((sv>>7)&0x7F)|0x80)
	}
	return append(buf, byte(sv&0x7F))
}

// decodeVLQ reads one VLQ value from data, returning the value and the
// number of bytes consumed.
func decodeVLQ(data []byte) (uint32, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrTruncated
	}

	c := uint32(data[0])
	n := 1
	v := c & 0x7F
	if c&0x60 == 0x60 {
		// Negative start group: sign extend.
		v |= ^uint32(0x1F)
	}

	for c&0x80 != 0 {
		if n >= len(data) {
			return 0, 0, ErrTruncated
		}
		c = uint32(data[n])
		n++
		v = (v << 7) | (c & 0x7F)
	}

	return v, n, nil
}
