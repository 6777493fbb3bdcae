// Package trace provides a compact event trace for interrupt-driven
// peripheral drivers. Firmware records driver events into a lock-free ring
// from interrupt context; a foreground loop drains the ring and frames the
// records for the debug UART, where the host monitor decodes them. Frames
// carry a sequence number, a CRC and a sync byte so the host can resync
// after dropped bytes.
package trace

import "errors"

// Kind identifies a traced driver event.
type Kind uint8

const (
	KindAddrMatch Kind = iota + 1 // a: direction (0 write, 1 read)
	KindDataReady                 // a: byte value, b: remaining count
	KindStop                      // a: final session status
	KindJobStart                  // a: direction, b: job length
	KindComplete                  // a: direction, b: transferred count
	KindError                     // a: session status
	KindTimer                     // a: TCC condition flags
)

// String returns the event name.
func (k Kind) String() string {
	switch k {
	case KindAddrMatch:
		return "addr-match"
	case KindDataReady:
		return "data-ready"
	case KindStop:
		return "stop"
	case KindJobStart:
		return "job-start"
	case KindComplete:
		return "complete"
	case KindError:
		return "error"
	case KindTimer:
		return "timer"
	default:
		return "unknown"
	}
}

// Record is one traced event. A and B are context dependent values, see
// the Kind constants.
type Record struct {
	Seq  uint8
	Kind Kind
	A    uint32
	B    uint32
}

// Frame layout: length, seq, kind, VLQ A, VLQ B, CRC16 (big endian), sync.
// The length byte counts the whole frame including itself and the trailer.
const (
	headerSize  = 3
	trailerSize = 3

	// MinFrame and MaxFrame bound a valid frame length.
	MinFrame = headerSize + 2 + trailerSize
	MaxFrame = headerSize + 10 + trailerSize

	// SyncByte terminates every frame.
	SyncByte = 0x7E
)

var (
	// ErrBadFrame is returned for a frame with an invalid length or
	// missing sync byte.
	ErrBadFrame = errors.New("trace: malformed frame")

	// ErrBadCRC is returned when the frame checksum does not match.
	ErrBadCRC = errors.New("trace: checksum mismatch")
)

// Append appends the framed record to buf and returns the extended slice.
func Append(buf []byte, r Record) []byte {
	start := len(buf)
	buf = append(buf, 0, r.Seq, byte(r.Kind))
	buf = appendVLQ(buf, r.A)
	buf = appendVLQ(buf, r.B)

	buf[start] = byte(len(buf) - start + trailerSize)
	crc := CRC16(buf[start:])
	return append(buf, byte(crc>>8), byte(crc&0xFF), SyncByte)
}

// Decode decodes one frame from the front of data, returning the record
// and the number of bytes consumed. On a framing or checksum error the
// caller should discard up to the next sync byte and retry.
func Decode(data []byte) (Record, int, error) {
	var r Record

	if len(data) < MinFrame {
		return r, 0, ErrTruncated
	}

	n := int(data[0])
	if n < MinFrame || n > MaxFrame {
		return r, 0, ErrBadFrame
	}
	if len(data) < n {
		return r, 0, ErrTruncated
	}
	if data[n-1] != SyncByte {
		return r, 0, ErrBadFrame
	}

	crc := uint16(data[n-3])<<8 | uint16(data[n-2])
	if CRC16(data[:n-trailerSize]) != crc {
		return r, 0, ErrBadCRC
	}

	r.Seq = data[1]
	r.Kind = Kind(data[2])

	body := data[headerSize : n-trailerSize]
	a, used, err := decodeVLQ(body)
	if err != nil {
		return r, 0, ErrBadFrame
	}
	b, _, err := decodeVLQ(body[used:])
	if err != nil {
		return r, 0, ErrBadFrame
	}
	r.A = a
	r.B = b

	return r, n, nil
}

// Resync returns data advanced past the next sync byte, discarding
// garbage after a framing error. If no sync byte is present everything is
// discarded.
func Resync(data []byte) []byte {
	for i, b := range data {
		if b == SyncByte {
			return data[i+1:]
		}
	}
	return data[len(data):]
}
