package i2cslave

import "testing"

// fakeRegs is an in-memory stand-in for the SERCOM I2CS register block.
// Tests stage interrupt flags and bus status on it, then invoke the
// dispatcher directly.
type fakeRegs struct {
	pending IntFlags
	armed   IntFlags
	status  BusStatus

	rx []byte // bytes the master sends, consumed by ReadData
	tx []byte // bytes sent toward the master

	ackAction bool
	addrAcks  []bool // acknowledge action at each CmdAckAddress commit
	cmds      []Command
}

func (r *fakeRegs) Pending() IntFlags     { return r.pending }
func (r *fakeRegs) ClearFlag(f IntFlags)  { r.pending &^= f }
func (r *fakeRegs) EnableIRQ(f IntFlags)  { r.armed |= f }
func (r *fakeRegs) DisableIRQ(f IntFlags) { r.armed &^= f }
func (r *fakeRegs) BusStatus() BusStatus  { return r.status }
func (r *fakeRegs) SetAckAction(ack bool) { r.ackAction = ack }

func (r *fakeRegs) ReadData() uint8 {
	b := r.rx[0]
	r.rx = r.rx[1:]
	r.pending &^= IntDataReady
	return b
}

func (r *fakeRegs) WriteData(b uint8) {
	r.tx = append(r.tx, b)
	r.pending &^= IntDataReady
}

func (r *fakeRegs) Execute(cmd Command) {
	r.cmds = append(r.cmds, cmd)
	switch cmd {
	case CmdAckAddress:
		r.addrAcks = append(r.addrAcks, r.ackAction)
		r.pending &^= IntAddrMatch
	case CmdWaitStart:
		r.pending &^= IntDataReady
	}
}

// addressMatch stages an address match event and services it.
func (r *fakeRegs) addressMatch(s *Slave, masterReads bool) {
	if masterReads {
		r.status |= BusDir
	} else {
		r.status &^= BusDir
	}
	r.pending |= IntAddrMatch
	s.Interrupt()
}

// dataReady stages one byte boundary and services it.
func (r *fakeRegs) dataReady(s *Slave) {
	r.pending |= IntDataReady
	s.Interrupt()
}

// stop stages a stop condition and services it.
func (r *fakeRegs) stop(s *Slave) {
	r.pending |= IntStop
	s.Interrupt()
}

func newTestSlave() (*Slave, *fakeRegs) {
	regs := &fakeRegs{}
	return New(regs), regs
}

func TestJobRejectedWhileBusy(t *testing.T) {
	s, _ := newTestSlave()

	first := []byte{0, 0, 0}
	if err := s.ReadPacketJob(&Packet{Data: first}); err != nil {
		t.Fatalf("first job rejected: %v", err)
	}

	second := []byte{0}
	if err := s.ReadPacketJob(&Packet{Data: second}); err != ErrBusy {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if err := s.WritePacketJob(&Packet{Data: second}); err != ErrBusy {
		t.Errorf("expected ErrBusy for write job, got %v", err)
	}

	// The rejected submission must not have touched the session.
	if s.bufferLength != len(first) || s.bufferRemaining != len(first) {
		t.Errorf("counters mutated by rejected job: length=%d remaining=%d",
			s.bufferLength, s.bufferRemaining)
	}
	if &s.buffer[0] != &first[0] {
		t.Error("buffer replaced by rejected job")
	}
}

func TestJobArmsInterrupts(t *testing.T) {
	s, regs := newTestSlave()

	if err := s.WritePacketJob(&Packet{Data: []byte{1}}); err != nil {
		t.Fatalf("job rejected: %v", err)
	}

	want := IntAddrMatch | IntDataReady | IntStop
	if regs.armed&want != want {
		t.Errorf("interrupt sources not armed: got %03b, want %03b", regs.armed, want)
	}
	if s.Status() != StatusBusy {
		t.Errorf("status = %v, want %v", s.Status(), StatusBusy)
	}
}

// Master writes three bytes to the slave; the slave receives them into a
// read job and the stop condition completes the transaction.
func TestMasterWriteTransaction(t *testing.T) {
	s, regs := newTestSlave()

	var requests, completes int
	buf := make([]byte, 3)

	s.RegisterCallback(func(s *Slave) {
		requests++
		if err := s.ReadPacketJob(&Packet{Data: buf}); err != nil {
			t.Errorf("job submission from request callback: %v", err)
		}
	}, CallbackWriteRequest)
	s.EnableCallback(CallbackWriteRequest)

	s.RegisterCallback(func(s *Slave) {
		completes++
		if s.Status() != StatusOK {
			t.Errorf("completion status = %v, want %v", s.Status(), StatusOK)
		}
	}, CallbackReadComplete)
	s.EnableCallback(CallbackReadComplete)

	regs.rx = []byte{0x11, 0x22, 0x33}
	regs.addressMatch(s, false)

	if requests != 1 {
		t.Fatalf("write request fired %d times, want 1", requests)
	}
	if len(regs.addrAcks) != 1 || !regs.addrAcks[0] {
		t.Fatalf("address not ACKed: %v", regs.addrAcks)
	}

	for i := 0; i < 3; i++ {
		regs.dataReady(s)
	}
	regs.stop(s)

	if completes != 1 {
		t.Errorf("read complete fired %d times, want 1", completes)
	}
	if buf[0] != 0x11 || buf[1] != 0x22 || buf[2] != 0x33 {
		t.Errorf("received %x, want 112233", buf)
	}
	if s.bufferRemaining != 0 || s.bufferLength != 0 {
		t.Errorf("counters not reset: remaining=%d length=%d",
			s.bufferRemaining, s.bufferLength)
	}
	if s.Status() != StatusOK {
		t.Errorf("status = %v, want %v", s.Status(), StatusOK)
	}
}

// Master reads three bytes from the slave via a write job armed in the
// read request callback.
func TestMasterReadTransaction(t *testing.T) {
	s, regs := newTestSlave()

	var completes int
	data := []byte{0xA0, 0xA1, 0xA2}

	s.RegisterCallback(func(s *Slave) {
		if err := s.WritePacketJob(&Packet{Data: data}); err != nil {
			t.Errorf("job submission from request callback: %v", err)
		}
	}, CallbackReadRequest)
	s.EnableCallback(CallbackReadRequest)

	s.RegisterCallback(func(s *Slave) { completes++ }, CallbackWriteComplete)
	s.EnableCallback(CallbackWriteComplete)

	regs.addressMatch(s, true)
	if s.Direction() != DirRead {
		t.Fatalf("direction = %v, want %v", s.Direction(), DirRead)
	}

	for i := 0; i < 3; i++ {
		regs.dataReady(s)
	}
	regs.stop(s)

	if completes != 1 {
		t.Errorf("write complete fired %d times, want 1", completes)
	}
	if len(regs.tx) != 3 || regs.tx[0] != 0xA0 || regs.tx[1] != 0xA1 || regs.tx[2] != 0xA2 {
		t.Errorf("sent %x, want a0a1a2", regs.tx)
	}
}

// With no buffer set up, an address match must be NACKed and no transfer
// logic run.
func TestAddressNackedWithoutBuffer(t *testing.T) {
	s, regs := newTestSlave()

	s.RegisterCallback(func(*Slave) {}, CallbackReadRequest)
	s.EnableCallback(CallbackReadRequest)

	regs.addressMatch(s, true)

	if len(regs.addrAcks) != 1 || regs.addrAcks[0] {
		t.Errorf("address acknowledge = %v, want single NACK", regs.addrAcks)
	}
	if len(regs.tx) != 0 {
		t.Errorf("bytes sent without a job: %x", regs.tx)
	}
}

func TestNackOnAddressPolicy(t *testing.T) {
	s, regs := newTestSlave()

	s.EnableNackOnAddress()
	if err := s.ReadPacketJob(&Packet{Data: make([]byte, 4)}); err != nil {
		t.Fatalf("job rejected: %v", err)
	}

	// Even with a buffer armed, the address must be rejected.
	regs.addressMatch(s, false)
	if len(regs.addrAcks) != 1 || regs.addrAcks[0] {
		t.Errorf("address acknowledge = %v, want single NACK", regs.addrAcks)
	}

	s.DisableNackOnAddress()
	regs.addressMatch(s, false)
	if len(regs.addrAcks) != 2 || !regs.addrAcks[1] {
		t.Errorf("address acknowledge after disable = %v, want ACK", regs.addrAcks)
	}
}

// A repeated start while a previous master-write transfer is partially
// consumed settles that transfer before the new address phase.
func TestRepeatedStartCompletesPartialWrite(t *testing.T) {
	s, regs := newTestSlave()

	var completes int
	s.RegisterCallback(func(s *Slave) {
		completes++
		if s.bufferRemaining != 0 || s.bufferLength != 0 {
			t.Errorf("counters not reset before completion: remaining=%d length=%d",
				s.bufferRemaining, s.bufferLength)
		}
	}, CallbackReadComplete)
	s.EnableCallback(CallbackReadComplete)

	buf := make([]byte, 4)
	if err := s.ReadPacketJob(&Packet{Data: buf}); err != nil {
		t.Fatalf("job rejected: %v", err)
	}

	regs.rx = []byte{0x55, 0x66}
	regs.addressMatch(s, false)
	regs.dataReady(s)
	regs.dataReady(s)

	// Repeated start: new address phase with two of four bytes consumed.
	regs.addressMatch(s, true)

	if completes != 1 {
		t.Errorf("read complete fired %d times, want 1", completes)
	}
	if s.Direction() != DirRead {
		t.Errorf("new direction = %v, want %v", s.Direction(), DirRead)
	}
}

// Master sends more bytes than the armed buffer holds: overflow is
// reported once and the errant byte is dropped.
func TestOverflowDropsByte(t *testing.T) {
	s, regs := newTestSlave()

	var errors int
	s.RegisterCallback(func(s *Slave) {
		errors++
		if s.Status() != StatusErrOverflow {
			t.Errorf("status in error callback = %v, want %v", s.Status(), StatusErrOverflow)
		}
	}, CallbackError)
	s.EnableCallback(CallbackError)

	buf := make([]byte, 1)
	if err := s.ReadPacketJob(&Packet{Data: buf}); err != nil {
		t.Fatalf("job rejected: %v", err)
	}

	regs.rx = []byte{0x01, 0x02}
	regs.addressMatch(s, false)
	regs.dataReady(s)

	// Buffer exhausted; the next byte must not be read out of DATA.
	regs.dataReady(s)

	if errors != 1 {
		t.Errorf("error callback fired %d times, want 1", errors)
	}
	if s.Status() != StatusErrOverflow {
		t.Errorf("status = %v, want %v", s.Status(), StatusErrOverflow)
	}
	if len(regs.rx) != 1 {
		t.Errorf("errant byte was consumed, %d bytes left in DATA", len(regs.rx))
	}
	if len(regs.cmds) == 0 || regs.cmds[len(regs.cmds)-1] != CmdWaitStart {
		t.Errorf("expected wait-for-start command, got %v", regs.cmds)
	}
}

// Master NACKs mid-read before the buffer is drained: a legal early end,
// not an error.
func TestMasterStopsReadingEarly(t *testing.T) {
	s, regs := newTestSlave()

	var errors int
	s.RegisterCallback(func(*Slave) { errors++ }, CallbackError)
	s.EnableCallback(CallbackError)

	if err := s.WritePacketJob(&Packet{Data: []byte{1, 2, 3, 4}}); err != nil {
		t.Fatalf("job rejected: %v", err)
	}

	regs.addressMatch(s, true)
	regs.dataReady(s)
	regs.dataReady(s)

	// Master NACKs the second byte and will issue a stop.
	regs.status |= BusNack
	regs.dataReady(s)

	if errors != 0 {
		t.Errorf("error callback fired %d times on early read end", errors)
	}
	if s.Status() != StatusOK {
		t.Errorf("status = %v, want %v", s.Status(), StatusOK)
	}
	if regs.armed&IntDataReady != 0 {
		t.Error("data ready interrupt still armed after early end")
	}
	if s.bufferRemaining != 0 || s.bufferLength != 0 {
		t.Errorf("counters not reset: remaining=%d length=%d",
			s.bufferRemaining, s.bufferLength)
	}
}

// Bus faults are reported at the next address match and persist across a
// stop condition.
func TestBusErrorReportedAndPersists(t *testing.T) {
	for _, fault := range []BusStatus{BusErr, BusColl, BusLowTimeout} {
		s, regs := newTestSlave()

		var lastTransferErrs int
		s.RegisterCallback(func(s *Slave) {
			lastTransferErrs++
			if s.Status() != StatusErrIO {
				t.Errorf("status in callback = %v, want %v", s.Status(), StatusErrIO)
			}
		}, CallbackErrorLastTransfer)
		s.EnableCallback(CallbackErrorLastTransfer)

		regs.status = fault
		regs.addressMatch(s, false)

		if lastTransferErrs != 1 {
			t.Errorf("fault %v: error callback fired %d times, want 1", fault, lastTransferErrs)
		}

		regs.status = 0
		regs.stop(s)
		if s.Status() != StatusErrIO {
			t.Errorf("fault %v: stop overwrote error status with %v", fault, s.Status())
		}
	}
}

func TestStopDisablesAddressMatchWhenRequestsDisabled(t *testing.T) {
	s, regs := newTestSlave()

	// No request callbacks enabled at all.
	if err := s.ReadPacketJob(&Packet{Data: make([]byte, 1)}); err != nil {
		t.Fatalf("job rejected: %v", err)
	}
	regs.stop(s)
	if regs.armed&IntAddrMatch != 0 {
		t.Error("address match interrupt still armed with no request callbacks")
	}

	// With a request callback enabled the source stays armed.
	s2, regs2 := newTestSlave()
	s2.RegisterCallback(func(*Slave) {}, CallbackWriteRequest)
	s2.EnableCallback(CallbackWriteRequest)
	if err := s2.ReadPacketJob(&Packet{Data: make([]byte, 1)}); err != nil {
		t.Fatalf("job rejected: %v", err)
	}
	regs2.stop(s2)
	if regs2.armed&IntAddrMatch == 0 {
		t.Error("address match interrupt disarmed despite enabled request callback")
	}
}

func TestServiceInterruptRouting(t *testing.T) {
	s, regs := newTestSlave()
	Bind(3, s)
	defer Unbind(3)

	if err := s.WritePacketJob(&Packet{Data: []byte{0x42}}); err != nil {
		t.Fatalf("job rejected: %v", err)
	}
	regs.status |= BusDir
	regs.pending |= IntAddrMatch
	ServiceInterrupt(3)

	if s.Direction() != DirRead {
		t.Errorf("interrupt not routed to bound session")
	}
}

func TestServiceInterruptUnbound(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unbound instance")
		}
	}()
	ServiceInterrupt(5)
}
