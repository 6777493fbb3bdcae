// Package i2cslave implements an interrupt-driven I2C slave driver for
// SERCOM-style hardware.
//
// The application submits a buffer with ReadPacketJob or WritePacketJob and
// the transfer then runs entirely from the interrupt dispatcher, paced by
// the bus master: every address match, byte boundary and stop condition
// invokes Interrupt, which advances the session state machine and fires the
// registered callbacks. Job submission is normally done from inside the
// request callbacks, which run synchronously in the same interrupt context.
//
// The session state is single-writer by convention: the dispatcher is the
// only mutator from interrupt context, and the control API must only touch
// an idle session (submission returns ErrBusy otherwise). A port to a
// multi-threaded host that calls the control API from outside a request
// callback must add its own mutual exclusion around the Slave.
package i2cslave

import "errors"

// ErrBusy is returned by job submission while a transfer is in flight.
var ErrBusy = errors.New("i2cslave: transfer in progress")

// Status describes the outcome of the current or last transaction.
type Status uint8

const (
	// StatusOK means the session is idle or the last transaction
	// completed cleanly.
	StatusOK Status = iota

	// StatusBusy means a job is armed or a transfer is in progress.
	StatusBusy

	// StatusErrIO means the hardware reported a bus error, collision or
	// timeout for the last transfer.
	StatusErrIO

	// StatusErrOverflow means the master sent more bytes than the
	// supplied buffer could hold.
	StatusErrOverflow
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBusy:
		return "busy"
	case StatusErrIO:
		return "io error"
	case StatusErrOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Direction is the direction of the active transfer, as seen from the
// master.
type Direction uint8

const (
	// DirWrite: master writes, slave receives.
	DirWrite Direction = iota

	// DirRead: master reads, slave transmits.
	DirRead
)

// Packet describes the data for one transaction. The buffer is owned by
// the caller and borrowed by the driver until the job completes.
type Packet struct {
	Data []byte
}

// Slave is one I2C slave session, bound to one hardware instance. At most
// one job is in flight per session at any time.
type Slave struct {
	regs Regs

	// Active job. buffer is the unconsumed tail of the submitted data;
	// bufferRemaining tracks it and bufferLength holds the size of the
	// job as submitted. bufferRemaining == 0 means no job is armed.
	buffer          []byte
	bufferRemaining int
	bufferLength    int

	status        Status
	direction     Direction
	nackOnAddress bool

	callbacks  [numCallbacks]Callback
	registered CallbackMask
	enabled    CallbackMask
}

// New creates a slave session driving the given registers.
func New(regs Regs) *Slave {
	if regs == nil {
		panic("i2cslave: nil registers")
	}
	return &Slave{regs: regs}
}

// Status returns the session status.
func (s *Slave) Status() Status {
	return s.status
}

// Direction returns the direction of the active transfer. It is only
// meaningful while a job is active or inside a completion callback.
func (s *Slave) Direction() Direction {
	return s.direction
}

// EnableNackOnAddress makes the slave NACK every address match, discarding
// incoming transactions. Takes effect on the next address match.
func (s *Slave) EnableNackOnAddress() {
	if s == nil {
		panic("i2cslave: nil slave")
	}
	s.nackOnAddress = true
}

// DisableNackOnAddress restores acknowledging of address matches.
func (s *Slave) DisableNackOnAddress() {
	if s == nil {
		panic("i2cslave: nil slave")
	}
	s.nackOnAddress = false
}

// ReadPacketJob arms the session to receive a packet from the master. The
// master must initiate a write transfer before any data moves; the
// CallbackWriteRequest handler is the natural place to call this. Returns
// ErrBusy while another job is in flight.
func (s *Slave) ReadPacketJob(packet *Packet) error {
	return s.startJob(packet)
}

// WritePacketJob arms the session to send a packet to the master. The
// master must initiate a read transfer before any data moves; the
// CallbackReadRequest handler is the natural place to call this. Returns
// ErrBusy while another job is in flight.
func (s *Slave) WritePacketJob(packet *Packet) error {
	return s.startJob(packet)
}

func (s *Slave) startJob(packet *Packet) error {
	if s == nil || s.regs == nil || packet == nil {
		panic("i2cslave: nil job arguments")
	}

	if s.bufferRemaining > 0 {
		return ErrBusy
	}

	s.buffer = packet.Data
	s.bufferRemaining = len(packet.Data)
	s.bufferLength = len(packet.Data)
	s.status = StatusBusy

	// The transfer begins when the master initiates the bus phase.
	s.regs.EnableIRQ(IntAddrMatch | IntDataReady | IntStop)

	return nil
}

// Interrupt services one hardware interrupt for this session. Targets call
// it from their SERCOM interrupt handler; tests may call it directly after
// staging flags on a simulated register block.
func (s *Slave) Interrupt() {
	mask := s.enabled & s.registered

	switch flags := s.regs.Pending(); {
	case flags&IntAddrMatch != 0:
		s.onAddressMatch(mask)
	case flags&IntStop != 0:
		s.onStop(mask)
	case flags&IntDataReady != 0:
		s.onDataReady(mask)
	}
}

func (s *Slave) invoke(mask CallbackMask, t CallbackType) {
	if mask.Has(t) {
		s.callbacks[t](s)
	}
}

// onAddressMatch handles a new address phase: it settles the previous
// transfer (repeated start), reports bus faults, decides the acknowledge
// action and records the direction of the new transfer.
func (s *Slave) onAddressMatch(mask CallbackMask) {
	// A repeated start arrived before the previous job was drained.
	// Settle that transfer first: counters reset and the completion
	// callback for the old direction fires.
	if s.bufferLength != s.bufferRemaining && s.direction == DirWrite {
		s.status = StatusOK
		s.bufferLength = 0
		s.bufferRemaining = 0
		s.invoke(mask, CallbackReadComplete)
	} else if s.bufferLength != s.bufferRemaining && s.direction == DirRead {
		s.status = StatusOK
		s.bufferLength = 0
		s.bufferRemaining = 0
		s.invoke(mask, CallbackWriteComplete)
	}

	if s.regs.BusStatus()&(BusErr|BusColl|BusLowTimeout) != 0 {
		// An error occurred in the last packet transfer.
		s.status = StatusErrIO
		s.invoke(mask, CallbackErrorLastTransfer)
	}

	if s.nackOnAddress {
		s.regs.SetAckAction(false)
	} else if s.regs.BusStatus()&BusDir != 0 {
		// Read request from master. The request callback gets a chance
		// to arm a write job before the acknowledge decision is made.
		s.direction = DirRead
		s.invoke(mask, CallbackReadRequest)

		// NACK the address if no buffer was set up.
		s.regs.SetAckAction(s.bufferLength != 0)
	} else {
		// Write request from master.
		s.direction = DirWrite
		s.invoke(mask, CallbackWriteRequest)

		s.regs.SetAckAction(s.bufferLength != 0)
	}

	// Commit the address acknowledge, then pre-arm ACK for the data
	// bytes that follow.
	s.regs.Execute(CmdAckAddress)
	s.regs.SetAckAction(true)
}

// onStop handles a stop condition: the current transaction is done.
func (s *Slave) onStop(mask CallbackMask) {
	s.regs.ClearFlag(IntStop)
	s.regs.DisableIRQ(IntStop | IntDataReady)

	if !s.enabled.Has(CallbackReadRequest) && !s.enabled.Has(CallbackWriteRequest) {
		// No further transactions expected without re-arming.
		s.regs.DisableIRQ(IntAddrMatch)
	}

	// Error states persist until the next address match restarts the
	// session; they are not overwritten here.
	if s.status != StatusErrOverflow && s.status != StatusErrIO {
		s.status = StatusOK
		s.bufferLength = 0
		s.bufferRemaining = 0

		if mask.Has(CallbackReadComplete) && s.direction == DirWrite {
			s.callbacks[CallbackReadComplete](s)
		} else if mask.Has(CallbackWriteComplete) && s.direction == DirRead {
			s.callbacks[CallbackWriteComplete](s)
		}
	}
}

// onDataReady handles one byte boundary.
func (s *Slave) onDataReady(mask CallbackMask) {
	// Early termination: the buffer is exhausted, or the master NACKed a
	// byte mid-read while bytes remain unsent.
	if s.bufferRemaining <= 0 ||
		(s.direction == DirRead && s.bufferLength > s.bufferRemaining &&
			s.regs.BusStatus()&BusNack != 0) {

		s.bufferRemaining = 0
		s.bufferLength = 0

		if s.direction == DirWrite {
			// Buffer is full. NACK and drop the incoming byte rather
			// than read it into a dead buffer.
			s.regs.SetAckAction(false)
			s.regs.Execute(CmdWaitStart)

			s.status = StatusErrOverflow
			s.invoke(mask, CallbackError)
		} else {
			// Master stopped reading before the buffer ran out, which
			// is legal. Release the clock and wait for the next start.
			s.regs.SetAckAction(false)
			s.regs.Execute(CmdWaitStart)

			s.status = StatusOK
			s.regs.DisableIRQ(IntDataReady)
		}
		return
	}

	if s.bufferLength > 0 && s.bufferRemaining > 0 {
		if s.direction == DirWrite {
			s.readByte()
		} else {
			s.writeByte()
		}
	}
}

// readByte moves the next incoming byte from the hardware into the buffer.
func (s *Slave) readByte() {
	s.buffer[0] = s.regs.ReadData()
	s.buffer = s.buffer[1:]
	s.bufferRemaining--
}

// writeByte moves the next buffer byte out to the hardware.
func (s *Slave) writeByte() {
	s.regs.WriteData(s.buffer[0])
	s.buffer = s.buffer[1:]
	s.bufferRemaining--
}
