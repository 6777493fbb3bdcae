package trace

import "sync/atomic"

// ringSize must be a power of two.
const ringSize = 64

// Ring is a lock-free single-producer single-consumer record queue. The
// producer is the interrupt context recording events; the consumer is the
// foreground loop draining them to the debug channel. When the ring is
// full new records are dropped and counted, never blocked on.
type Ring struct {
	buf  [ringSize]Record
	head uint32 // next write position, producer only
	tail uint32 // next read position, consumer only

	seq     uint8
	dropped uint32
}

// Push records an event. The sequence number is assigned here so gaps on
// the host side reveal drops. Returns false if the ring was full and the
// record was dropped.
func (r *Ring) Push(rec Record) bool {
	head := atomic.LoadUint32(&r.head)
	tail := atomic.LoadUint32(&r.tail)

	if head-tail >= ringSize {
		atomic.AddUint32(&r.dropped, 1)
		return false
	}

	rec.Seq = r.seq
	r.seq++

	r.buf[head&(ringSize-1)] = rec
	atomic.StoreUint32(&r.head, head+1)
	return true
}

// Pop removes the oldest record. Returns false when the ring is empty.
func (r *Ring) Pop() (Record, bool) {
	tail := atomic.LoadUint32(&r.tail)
	if atomic.LoadUint32(&r.head) == tail {
		return Record{}, false
	}

	rec := r.buf[tail&(ringSize-1)]
	atomic.StoreUint32(&r.tail, tail+1)
	return rec, true
}

// Dropped returns the number of records lost to a full ring.
func (r *Ring) Dropped() uint32 {
	return atomic.LoadUint32(&r.dropped)
}
