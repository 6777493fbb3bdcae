//go:build atsamd21 || atsamr34

package main

import (
	"device/sam"

	"gosam/tcc"
)

// tccRegs adapts a TCC register block to tcc.Regs. Flag layout matches
// the hardware INTFLAG register.
type tccRegs struct {
	timer *sam.TCC_Type
}

func (r *tccRegs) Pending() tcc.IntFlags {
	return tcc.IntFlags(r.timer.INTFLAG.Get())
}

func (r *tccRegs) ClearFlag(f tcc.IntFlags) {
	r.timer.INTFLAG.Set(uint32(f))
}

func (r *tccRegs) EnableIRQ(f tcc.IntFlags) {
	r.timer.INTENSET.Set(uint32(f))
}

func (r *tccRegs) DisableIRQ(f tcc.IntFlags) {
	r.timer.INTENCLR.Set(uint32(f))
}
