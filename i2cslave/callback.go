package i2cslave

// Callback is a user handler invoked by the interrupt dispatcher.
// Callbacks run in interrupt context and must not block.
type Callback func(*Slave)

// CallbackType identifies the transaction event a callback is attached to.
type CallbackType uint8

const (
	// CallbackWriteRequest fires when the master addresses the slave for
	// a write (master to slave). The handler may submit a read job.
	CallbackWriteRequest CallbackType = iota

	// CallbackReadRequest fires when the master addresses the slave for
	// a read (slave to master). The handler may submit a write job.
	CallbackReadRequest

	// CallbackWriteComplete fires when a write job (slave to master) has
	// been fully sent.
	CallbackWriteComplete

	// CallbackReadComplete fires when a read job (master to slave) has
	// been fully received.
	CallbackReadComplete

	// CallbackError fires when the master overruns the supplied buffer.
	CallbackError

	// CallbackErrorLastTransfer fires when the hardware reports a bus
	// error, collision or timeout for the last transfer.
	CallbackErrorLastTransfer

	numCallbacks
)

// CallbackMask is a set over the callback types. A callback is dispatched
// only when its bit is set in both the registered and the enabled mask.
type CallbackMask uint8

// Set adds a callback type to the set.
func (m *CallbackMask) Set(t CallbackType) {
	*m |= 1 << t
}

// Clear removes a callback type from the set.
func (m *CallbackMask) Clear(t CallbackType) {
	*m &^= 1 << t
}

// Has reports whether the callback type is in the set.
func (m CallbackMask) Has(t CallbackType) bool {
	return m&(1<<t) != 0
}

// RegisterCallback associates a handler with the given event. The handler
// will not be dispatched until the event is also enabled with
// EnableCallback. Registering a second handler for the same event replaces
// the first.
func (s *Slave) RegisterCallback(cb Callback, t CallbackType) {
	if s == nil || s.regs == nil {
		panic("i2cslave: callback registered on unconfigured slave")
	}
	if cb == nil {
		panic("i2cslave: nil callback")
	}

	s.callbacks[t] = cb
	s.registered.Set(t)
}

// UnregisterCallback removes the handler for the given event. It is safe
// to unregister an event that has no handler.
func (s *Slave) UnregisterCallback(t CallbackType) {
	if s == nil || s.regs == nil {
		panic("i2cslave: callback unregistered on unconfigured slave")
	}

	s.callbacks[t] = nil
	s.registered.Clear(t)
}

// EnableCallback enables dispatch of the given event. Enabling a request
// callback also arms the address match interrupt so new transactions are
// seen at all.
func (s *Slave) EnableCallback(t CallbackType) {
	s.enabled.Set(t)

	if t == CallbackReadRequest || t == CallbackWriteRequest {
		s.regs.EnableIRQ(IntAddrMatch)
	}
}

// DisableCallback disables dispatch of the given event. The address match
// interrupt stays armed as long as either request callback is enabled.
func (s *Slave) DisableCallback(t CallbackType) {
	s.enabled.Clear(t)

	if (t == CallbackReadRequest || t == CallbackWriteRequest) &&
		!s.enabled.Has(CallbackReadRequest) && !s.enabled.Has(CallbackWriteRequest) {
		s.regs.DisableIRQ(IntAddrMatch)
	}
}
