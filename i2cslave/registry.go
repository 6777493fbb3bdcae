package i2cslave

// MaxInstances is the number of SERCOM units on the largest supported
// parts.
const MaxInstances = 6

// Registry of slave sessions by SERCOM instance number. Target code binds
// each session at initialization so interrupt vectors can dispatch by
// instance, and tests can construct sessions without touching it.
var instances [MaxInstances]*Slave

// Bind associates a session with a SERCOM instance number so that
// ServiceInterrupt can route interrupts to it.
func Bind(instance uint8, s *Slave) {
	if int(instance) >= MaxInstances {
		panic("i2cslave: instance out of range")
	}
	if s == nil {
		panic("i2cslave: nil slave")
	}
	instances[instance] = s
}

// Unbind removes the session bound to a SERCOM instance number.
func Unbind(instance uint8) {
	if int(instance) >= MaxInstances {
		panic("i2cslave: instance out of range")
	}
	instances[instance] = nil
}

// ServiceInterrupt dispatches one interrupt for the given SERCOM instance.
// Target interrupt handlers call this with the unit number of the vector
// that fired. An instance with no bound session indicates broken
// initialization.
func ServiceInterrupt(instance uint8) {
	s := instances[instance]
	if s == nil {
		panic("i2cslave: interrupt for unbound instance")
	}
	s.Interrupt()
}
