package i2cslave

// IntFlags is a set of pending interrupt conditions reported by the
// SERCOM I2C slave hardware (INTFLAG register layout).
type IntFlags uint8

const (
	// IntStop signals a stop condition on the bus (PREC).
	IntStop IntFlags = 1 << 0

	// IntAddrMatch signals that the master addressed this slave (AMATCH).
	IntAddrMatch IntFlags = 1 << 1

	// IntDataReady signals a byte boundary: a byte has been received or
	// one must be supplied (DRDY).
	IntDataReady IntFlags = 1 << 2
)

// BusStatus is the per-transfer status reported by the hardware
// (STATUS register layout).
type BusStatus uint16

const (
	// BusErr indicates a bus error since the last transfer.
	BusErr BusStatus = 1 << 0

	// BusColl indicates a collision on the bus.
	BusColl BusStatus = 1 << 1

	// BusNack indicates the master NACKed the last byte sent.
	BusNack BusStatus = 1 << 2

	// BusDir is set when the master requests to read from the slave,
	// clear when the master writes to the slave.
	BusDir BusStatus = 1 << 3

	// BusLowTimeout indicates an SCL low timeout.
	BusLowTimeout BusStatus = 1 << 6
)

// Command is a bus command issued through the control register (CTRLB.CMD).
type Command uint8

const (
	// CmdWaitStart releases the clock line and waits for the next start
	// condition.
	CmdWaitStart Command = 0x2

	// CmdAckAddress executes the pending acknowledge action in response
	// to an address match.
	CmdAckAddress Command = 0x3
)

// Regs is the register-level interface the slave driver runs against.
//
// Hardware targets implement it over the real SERCOM I2CS register block;
// the sim package implements it in software so the state machine can be
// driven without hardware. All methods are called from interrupt context
// and must not block.
type Regs interface {
	// Pending returns the currently pending interrupt conditions.
	Pending() IntFlags

	// ClearFlag acknowledges the given interrupt conditions.
	ClearFlag(flags IntFlags)

	// EnableIRQ enables interrupt generation for the given conditions
	// (INTENSET).
	EnableIRQ(flags IntFlags)

	// DisableIRQ disables interrupt generation for the given conditions
	// (INTENCLR).
	DisableIRQ(flags IntFlags)

	// BusStatus returns the hardware transfer status flags.
	BusStatus() BusStatus

	// ReadData reads one byte received from the master.
	ReadData() uint8

	// WriteData supplies one byte to be sent to the master.
	WriteData(b uint8)

	// SetAckAction selects the acknowledge action for the next
	// address or data byte: true sends ACK, false sends NACK.
	// The action takes effect when committed with a Command.
	SetAckAction(ack bool)

	// Execute issues a bus command.
	Execute(cmd Command)
}
