package tcc

// IntFlags is a set of pending TCC interrupt conditions (INTFLAG register
// layout).
type IntFlags uint32

const (
	IntOverflow  IntFlags = 1 << 0  // OVF: overflow / underflow
	IntRetrigger IntFlags = 1 << 1  // TRG: retrigger
	IntCount     IntFlags = 1 << 2  // CNT: counter event
	IntError     IntFlags = 1 << 3  // ERR
	IntFaultA    IntFlags = 1 << 12 // FAULTA: recoverable fault A
	IntFaultB    IntFlags = 1 << 13 // FAULTB: recoverable fault B
	IntFault0    IntFlags = 1 << 14 // FAULT0: non-recoverable fault 0
	IntFault1    IntFlags = 1 << 15 // FAULT1: non-recoverable fault 1
	IntMatch0    IntFlags = 1 << 16 // MC0: match or capture channel 0
	IntMatch1    IntFlags = 1 << 17 // MC1
	IntMatch2    IntFlags = 1 << 18 // MC2
	IntMatch3    IntFlags = 1 << 19 // MC3
)

// Regs is the register-level interface the timer callback dispatcher runs
// against. Hardware targets implement it over the TCC register block.
type Regs interface {
	// Pending returns the currently pending interrupt conditions.
	Pending() IntFlags

	// ClearFlag acknowledges the given interrupt conditions.
	ClearFlag(flags IntFlags)

	// EnableIRQ enables interrupt generation for the given conditions.
	EnableIRQ(flags IntFlags)

	// DisableIRQ disables interrupt generation for the given conditions.
	DisableIRQ(flags IntFlags)
}
