package sim

import (
	"errors"

	"tinygo.org/x/drivers"

	"gosam/i2cslave"
)

var (
	// ErrNoDevice is returned when the addressed device is not on the bus.
	ErrNoDevice = errors.New("sim: no device at address")

	// ErrAddrNack is returned when the slave rejects the address phase.
	ErrAddrNack = errors.New("sim: address not acknowledged")

	// ErrDataNack is returned when the slave rejects a data byte.
	ErrDataNack = errors.New("sim: data byte not acknowledged")

	// ErrNoReply is returned when the slave supplies no data for a read.
	ErrNoReply = errors.New("sim: no data from slave")
)

// Bus is the master side of a simulated I2C bus with a single slave. Its
// Tx method satisfies the drivers.I2C interface, so anything written
// against tinygo.org/x/drivers can act as the bus master. Each Tx call
// synthesizes the full hardware event sequence, address match, one data
// ready per byte and a trailing stop, against the slave's interrupt
// service routine.
//
// Bus is not safe for concurrent use: like the hardware interrupt line it
// models, events are strictly serialized.
type Bus struct {
	regs *I2CS
	addr uint16
	isr  func()
}

var _ drivers.I2C = (*Bus)(nil)

// NewBus creates a master endpoint for the slave behind regs, responding
// at the given 7-bit address. isr is invoked for every event whose
// interrupt source is armed, normally the bound slave's Interrupt method.
func NewBus(regs *I2CS, addr uint16, isr func()) *Bus {
	if regs == nil || isr == nil {
		panic("sim: nil bus arguments")
	}
	return &Bus{regs: regs, addr: addr, isr: isr}
}

// Tx performs a write then a read transfer against the slave, as defined
// by the drivers.I2C contract. A nil w or r skips that phase.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if addr != b.addr {
		return ErrNoDevice
	}

	if len(w) > 0 {
		if !b.addressPhase(false) {
			b.stopPhase()
			return ErrAddrNack
		}
		for _, c := range w {
			if !b.writeByte(c) {
				b.stopPhase()
				return ErrDataNack
			}
		}
	}

	if len(r) > 0 {
		// Repeated start when a write phase preceded.
		if !b.addressPhase(true) {
			b.stopPhase()
			return ErrAddrNack
		}
		for i := range r {
			v, ok := b.readByte()
			if !ok {
				b.stopPhase()
				return ErrNoReply
			}
			r[i] = v
		}
		b.finishRead()
	}

	b.stopPhase()
	return nil
}

// event raises an interrupt condition and services it if its source is
// armed. An unarmed condition is dropped: with nobody to release the bus
// the master sees no acknowledge.
func (b *Bus) event(f i2cslave.IntFlags) bool {
	b.regs.intflag |= f
	if b.regs.intenset&f == 0 {
		b.regs.intflag &^= f
		return false
	}
	b.isr()
	return true
}

// addressPhase issues a start plus address and reports whether the slave
// ACKed it.
func (b *Bus) addressPhase(masterReads bool) bool {
	r := b.regs
	if masterReads {
		r.status |= i2cslave.BusDir
	} else {
		r.status &^= i2cslave.BusDir
	}

	r.addrCommitted = false
	r.committedAck = false
	if !b.event(i2cslave.IntAddrMatch) {
		return false
	}

	// Fault bits are one-shot: reported at this address match, then gone.
	r.status &^= i2cslave.BusErr | i2cslave.BusColl | i2cslave.BusLowTimeout

	return r.addrCommitted && r.committedAck
}

// writeByte sends one byte to the slave and reports whether it was ACKed.
// The slave ACKs by consuming the data register; leaving it untouched
// (the overflow path) reads back as a NACK.
func (b *Bus) writeByte(c byte) bool {
	r := b.regs
	r.data = c
	r.dataRead = false
	if !b.event(i2cslave.IntDataReady) {
		return false
	}
	return r.dataRead
}

// readByte clocks one byte out of the slave.
func (b *Bus) readByte() (byte, bool) {
	r := b.regs
	r.status &^= i2cslave.BusNack
	r.dataWritten = false
	if !b.event(i2cslave.IntDataReady) {
		return 0, false
	}
	if !r.dataWritten {
		return 0, false
	}
	return r.data, true
}

// finishRead delivers the byte boundary at which the slave observes the
// master's NACK of the final byte and releases the bus.
func (b *Bus) finishRead() {
	r := b.regs
	r.status |= i2cslave.BusNack
	b.event(i2cslave.IntDataReady)
	r.status &^= i2cslave.BusNack
}

// stopPhase issues a stop condition.
func (b *Bus) stopPhase() {
	b.event(i2cslave.IntStop)
}
