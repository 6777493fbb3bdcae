//go:build atsamd21 || atsamr34

package main

import (
	"device/sam"
	"machine"
	"runtime/interrupt"
	"time"

	"gosam/i2cslave"
	"gosam/tcc"
	"gosam/trace"
)

// Demo firmware: a register-file I2C slave on SERCOM1 at address 0x50,
// with a TCC0 heartbeat. Driver events are recorded into the trace ring
// from interrupt context and drained to the debug UART by the main loop,
// where gosam-mon can decode them.

const slaveAddr = 0x50

var (
	events trace.Ring

	// Register file exposed to the master: a one byte register pointer
	// written first, then reads return the selected register contents.
	regFile [32]byte
	regPtr  [1]byte

	slave *i2cslave.Slave
)

func main() {
	regs := &i2csRegs{bus: sam.SERCOM1_I2CS}
	configureSlave(regs.bus, slaveAddr)

	slave = i2cslave.New(regs)
	i2cslave.Bind(1, slave)

	slave.RegisterCallback(onWriteRequest, i2cslave.CallbackWriteRequest)
	slave.RegisterCallback(onReadRequest, i2cslave.CallbackReadRequest)
	slave.RegisterCallback(onReadComplete, i2cslave.CallbackReadComplete)
	slave.RegisterCallback(onWriteComplete, i2cslave.CallbackWriteComplete)
	slave.RegisterCallback(onError, i2cslave.CallbackError)
	slave.RegisterCallback(onBusFault, i2cslave.CallbackErrorLastTransfer)

	slave.EnableCallback(i2cslave.CallbackWriteRequest)
	slave.EnableCallback(i2cslave.CallbackReadRequest)
	slave.EnableCallback(i2cslave.CallbackReadComplete)
	slave.EnableCallback(i2cslave.CallbackWriteComplete)
	slave.EnableCallback(i2cslave.CallbackError)
	slave.EnableCallback(i2cslave.CallbackErrorLastTransfer)

	interrupt.New(sam.IRQ_SERCOM1, func(interrupt.Interrupt) {
		i2cslave.ServiceInterrupt(1)
	}).Enable()

	heartbeat := tcc.New(&tccRegs{timer: sam.TCC0})
	tcc.Bind(0, heartbeat)
	heartbeat.RegisterCallback(onHeartbeat, tcc.CallbackOverflow)
	heartbeat.EnableCallback(tcc.CallbackOverflow)

	interrupt.New(sam.IRQ_TCC0, func(interrupt.Interrupt) {
		tcc.ServiceInterrupt(0)
	}).Enable()

	// Drain trace records to the debug UART.
	var frame []byte
	for {
		rec, ok := events.Pop()
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		frame = trace.Append(frame[:0], rec)
		machine.Serial.Write(frame)
	}
}

func onWriteRequest(s *i2cslave.Slave) {
	events.Push(trace.Record{Kind: trace.KindAddrMatch, A: 0})
	if s.ReadPacketJob(&i2cslave.Packet{Data: regPtr[:]}) == nil {
		events.Push(trace.Record{Kind: trace.KindJobStart, A: 0, B: 1})
	}
}

func onReadRequest(s *i2cslave.Slave) {
	events.Push(trace.Record{Kind: trace.KindAddrMatch, A: 1})
	off := int(regPtr[0]) % len(regFile)
	if s.WritePacketJob(&i2cslave.Packet{Data: regFile[off:]}) == nil {
		events.Push(trace.Record{Kind: trace.KindJobStart, A: 1, B: uint32(len(regFile) - off)})
	}
}

func onReadComplete(s *i2cslave.Slave) {
	events.Push(trace.Record{Kind: trace.KindComplete, A: 0, B: 1})
}

func onWriteComplete(s *i2cslave.Slave) {
	events.Push(trace.Record{Kind: trace.KindComplete, A: 1})
}

func onError(s *i2cslave.Slave) {
	events.Push(trace.Record{Kind: trace.KindError, A: uint32(s.Status())})
}

func onBusFault(s *i2cslave.Slave) {
	events.Push(trace.Record{Kind: trace.KindError, A: uint32(s.Status())})
}

func onHeartbeat(*tcc.TCC) {
	events.Push(trace.Record{Kind: trace.KindTimer, A: uint32(tcc.IntOverflow)})
}
