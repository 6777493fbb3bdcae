// Package tcc implements the callback dispatcher for SERCOM-era TCC timer
// hardware. Unlike the I2C slave driver it carries no transfer state: the
// interrupt handler scans the pending condition flags against the
// registered and enabled masks and invokes every matching callback.
package tcc

// Callback is a user handler invoked by the interrupt dispatcher. It runs
// in interrupt context and must not block.
type Callback func(*TCC)

// CallbackType identifies the timer condition a callback is attached to.
type CallbackType uint8

const (
	CallbackOverflow CallbackType = iota
	CallbackRetrigger
	CallbackCounter
	CallbackError
	CallbackFaultA
	CallbackFaultB
	CallbackFault0
	CallbackFault1
	CallbackChannel0
	CallbackChannel1
	CallbackChannel2
	CallbackChannel3

	numCallbacks
)

// intFlag maps each callback type to its hardware condition bit. The
// registered and enabled masks are kept in flag space so the dispatcher
// can AND them with INTFLAG directly.
var intFlag = [numCallbacks]IntFlags{
	IntOverflow,
	IntRetrigger,
	IntCount,
	IntError,
	IntFaultA,
	IntFaultB,
	IntFault0,
	IntFault1,
	IntMatch0,
	IntMatch1,
	IntMatch2,
	IntMatch3,
}

// TCC is one timer module instance.
type TCC struct {
	regs Regs

	callbacks  [numCallbacks]Callback
	registered IntFlags
	enabled    IntFlags
}

// New creates a timer callback dispatcher driving the given registers.
func New(regs Regs) *TCC {
	if regs == nil {
		panic("tcc: nil registers")
	}
	return &TCC{regs: regs}
}

// RegisterCallback associates a handler with the given condition. The
// handler is not dispatched until enabled with EnableCallback.
func (t *TCC) RegisterCallback(cb Callback, ct CallbackType) {
	if cb == nil {
		panic("tcc: nil callback")
	}
	t.callbacks[ct] = cb
	t.registered |= intFlag[ct]
}

// UnregisterCallback removes the handler for the given condition.
func (t *TCC) UnregisterCallback(ct CallbackType) {
	t.callbacks[ct] = nil
	t.registered &^= intFlag[ct]
}

// EnableCallback enables dispatch of the given condition and arms its
// interrupt source. Enabling the interrupt vector itself is target code's
// responsibility.
func (t *TCC) EnableCallback(ct CallbackType) {
	t.enabled |= intFlag[ct]
	t.regs.EnableIRQ(intFlag[ct])
}

// DisableCallback disables dispatch of the given condition and disarms its
// interrupt source.
func (t *TCC) DisableCallback(ct CallbackType) {
	t.enabled &^= intFlag[ct]
	t.regs.DisableIRQ(intFlag[ct])
}

// Interrupt services one hardware interrupt: every pending condition whose
// callback is both registered and enabled is dispatched and its flag
// cleared.
func (t *TCC) Interrupt() {
	pending := t.regs.Pending() & t.registered & t.enabled

	for ct := CallbackType(0); ct < numCallbacks; ct++ {
		if pending&intFlag[ct] != 0 {
			t.callbacks[ct](t)
			t.regs.ClearFlag(intFlag[ct])
		}
	}
}

// MaxInstances is the number of TCC units on the largest supported parts.
const MaxInstances = 3

var instances [MaxInstances]*TCC

// Bind associates a module with a TCC instance number so that
// ServiceInterrupt can route interrupts to it.
func Bind(instance uint8, t *TCC) {
	if int(instance) >= MaxInstances {
		panic("tcc: instance out of range")
	}
	if t == nil {
		panic("tcc: nil module")
	}
	instances[instance] = t
}

// Unbind removes the module bound to a TCC instance number.
func Unbind(instance uint8) {
	if int(instance) >= MaxInstances {
		panic("tcc: instance out of range")
	}
	instances[instance] = nil
}

// ServiceInterrupt dispatches one interrupt for the given TCC instance.
func ServiceInterrupt(instance uint8) {
	t := instances[instance]
	if t == nil {
		panic("tcc: interrupt for unbound instance")
	}
	t.Interrupt()
}
