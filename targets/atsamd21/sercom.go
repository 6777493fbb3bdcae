//go:build atsamd21 || atsamr34

package main

import (
	"device/sam"

	"gosam/i2cslave"
)

// i2csRegs adapts a SERCOM I2C slave register block to i2cslave.Regs.
// The interrupt flag and status bit layouts in the driver match the
// hardware registers, so the adapter is a thin passthrough.
type i2csRegs struct {
	bus *sam.SERCOM_I2CS_Type
}

func (r *i2csRegs) Pending() i2cslave.IntFlags {
	return i2cslave.IntFlags(r.bus.INTFLAG.Get())
}

func (r *i2csRegs) ClearFlag(f i2cslave.IntFlags) {
	// INTFLAG is write-one-to-clear.
	r.bus.INTFLAG.Set(uint8(f))
}

func (r *i2csRegs) EnableIRQ(f i2cslave.IntFlags) {
	r.bus.INTENSET.Set(uint8(f))
}

func (r *i2csRegs) DisableIRQ(f i2cslave.IntFlags) {
	r.bus.INTENCLR.Set(uint8(f))
}

func (r *i2csRegs) BusStatus() i2cslave.BusStatus {
	return i2cslave.BusStatus(r.bus.STATUS.Get())
}

func (r *i2csRegs) ReadData() uint8 {
	return uint8(r.bus.DATA.Get())
}

func (r *i2csRegs) WriteData(b uint8) {
	r.bus.DATA.Set(b)
}

func (r *i2csRegs) SetAckAction(ack bool) {
	if ack {
		r.bus.CTRLB.ClearBits(sam.SERCOM_I2CS_CTRLB_ACKACT)
	} else {
		r.bus.CTRLB.SetBits(sam.SERCOM_I2CS_CTRLB_ACKACT)
	}
}

func (r *i2csRegs) Execute(cmd i2cslave.Command) {
	r.bus.CTRLB.SetBits((uint32(cmd) << sam.SERCOM_I2CS_CTRLB_CMD_Pos) &
		sam.SERCOM_I2CS_CTRLB_CMD_Msk)
}

// configureSlave puts the SERCOM into I2C slave mode and answers at the
// given 7-bit address. Clock and pin routing are board-level concerns and
// must already be set up.
func configureSlave(bus *sam.SERCOM_I2CS_Type, addr uint8) {
	bus.CTRLA.ClearBits(sam.SERCOM_I2CS_CTRLA_ENABLE)
	for bus.SYNCBUSY.HasBits(sam.SERCOM_I2CS_SYNCBUSY_ENABLE) {
	}

	bus.CTRLA.Set(sam.SERCOM_I2CS_CTRLA_MODE_I2C_SLAVE << sam.SERCOM_I2CS_CTRLA_MODE_Pos)
	bus.ADDR.Set(uint32(addr) << sam.SERCOM_I2CS_ADDR_ADDR_Pos)

	bus.CTRLA.SetBits(sam.SERCOM_I2CS_CTRLA_ENABLE)
	for bus.SYNCBUSY.HasBits(sam.SERCOM_I2CS_SYNCBUSY_ENABLE) {
	}
}
