// Package sim provides a software model of the SERCOM I2C slave hardware
// so the interrupt-driven driver can be developed and exercised without a
// device: an in-memory register block implementing i2cslave.Regs, and a
// master-side bus endpoint implementing the drivers.I2C interface from
// tinygo.org/x/drivers.
package sim

import "gosam/i2cslave"

// I2CS is an in-memory SERCOM I2C slave register block.
type I2CS struct {
	intflag  i2cslave.IntFlags
	intenset i2cslave.IntFlags
	status   i2cslave.BusStatus
	data     uint8

	ackAction bool

	// Side effects of the last interrupt service, observed by the bus
	// engine to emulate the hardware handshake.
	dataRead      bool
	dataWritten   bool
	addrCommitted bool
	committedAck  bool
}

// NewI2CS creates a reset register block.
func NewI2CS() *I2CS {
	return &I2CS{}
}

func (r *I2CS) Pending() i2cslave.IntFlags { return r.intflag }

func (r *I2CS) ClearFlag(f i2cslave.IntFlags) { r.intflag &^= f }

func (r *I2CS) EnableIRQ(f i2cslave.IntFlags) { r.intenset |= f }

func (r *I2CS) DisableIRQ(f i2cslave.IntFlags) { r.intenset &^= f }

func (r *I2CS) BusStatus() i2cslave.BusStatus { return r.status }

// ReadData hands the received byte to the driver. Reading the data
// register clears the data ready condition, as in hardware.
func (r *I2CS) ReadData() uint8 {
	r.dataRead = true
	r.intflag &^= i2cslave.IntDataReady
	return r.data
}

// WriteData accepts the outgoing byte from the driver and clears the data
// ready condition.
func (r *I2CS) WriteData(b uint8) {
	r.data = b
	r.dataWritten = true
	r.intflag &^= i2cslave.IntDataReady
}

func (r *I2CS) SetAckAction(ack bool) { r.ackAction = ack }

// Execute models CTRLB command writes. Acknowledging an address latches
// the pending acknowledge action where the bus engine can see it; waiting
// for a start releases the byte in flight.
func (r *I2CS) Execute(cmd i2cslave.Command) {
	switch cmd {
	case i2cslave.CmdAckAddress:
		r.addrCommitted = true
		r.committedAck = r.ackAction
		r.intflag &^= i2cslave.IntAddrMatch
	case i2cslave.CmdWaitStart:
		r.intflag &^= i2cslave.IntDataReady
	}
}

// InjectFault sets transfer fault bits that the hardware would report at
// the next address match (bus error, collision, timeout). The bus engine
// clears them once reported.
func (r *I2CS) InjectFault(faults i2cslave.BusStatus) {
	r.status |= faults
}
