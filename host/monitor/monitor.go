// Package monitor decodes the firmware event trace stream on the host
// side: it reassembles frames from a byte stream, recovers from garbage
// between frames, and flags gaps in the record sequence numbers.
package monitor

import (
	"fmt"
	"io"

	"gosam/trace"
)

// Event is one decoded trace record plus stream accounting.
type Event struct {
	Record trace.Record

	// Lost is the number of records missing before this one, derived
	// from the sequence numbers.
	Lost int
}

// Decoder reassembles trace records from a byte stream.
type Decoder struct {
	r   io.Reader
	buf []byte

	started bool
	nextSeq uint8
}

// NewDecoder creates a decoder reading from r, typically a serial port.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next blocks until one complete record has been read. Corrupted input is
// skipped silently; io errors from the underlying reader are returned.
func (d *Decoder) Next() (Event, error) {
	for {
		rec, n, err := trace.Decode(d.buf)
		switch err {
		case nil:
			d.buf = d.buf[n:]
			return d.observe(rec), nil
		case trace.ErrBadCRC, trace.ErrBadFrame:
			d.buf = trace.Resync(d.buf)
			continue
		}

		// Truncated: need more bytes.
		var chunk [256]byte
		m, err := d.r.Read(chunk[:])
		if m > 0 {
			d.buf = append(d.buf, chunk[:m]...)
			continue
		}
		if err != nil {
			return Event{}, err
		}
	}
}

// observe applies sequence accounting to a decoded record.
func (d *Decoder) observe(rec trace.Record) Event {
	ev := Event{Record: rec}
	if d.started {
		ev.Lost = int(uint8(rec.Seq - d.nextSeq))
	}
	d.started = true
	d.nextSeq = rec.Seq + 1
	return ev
}

// Format renders a record the way the monitor CLI prints it.
func Format(rec trace.Record) string {
	switch rec.Kind {
	case trace.KindAddrMatch:
		return fmt.Sprintf("addr-match dir=%s", direction(rec.A))
	case trace.KindDataReady:
		return fmt.Sprintf("data-ready byte=%#02x remaining=%d", rec.A, rec.B)
	case trace.KindStop:
		return fmt.Sprintf("stop status=%d", rec.A)
	case trace.KindJobStart:
		return fmt.Sprintf("job-start dir=%s len=%d", direction(rec.A), rec.B)
	case trace.KindComplete:
		return fmt.Sprintf("complete dir=%s n=%d", direction(rec.A), rec.B)
	case trace.KindError:
		return fmt.Sprintf("error status=%d", rec.A)
	case trace.KindTimer:
		return fmt.Sprintf("timer flags=%#x", rec.A)
	default:
		return fmt.Sprintf("unknown kind=%d a=%d b=%d", rec.Kind, rec.A, rec.B)
	}
}

func direction(v uint32) string {
	if v == 0 {
		return "write"
	}
	return "read"
}
