package i2cslave

import "testing"

func TestCallbackMask(t *testing.T) {
	var m CallbackMask

	m.Set(CallbackReadRequest)
	m.Set(CallbackError)

	if !m.Has(CallbackReadRequest) || !m.Has(CallbackError) {
		t.Errorf("mask missing set bits: %06b", m)
	}
	if m.Has(CallbackWriteRequest) {
		t.Errorf("mask has unset bit: %06b", m)
	}

	m.Clear(CallbackReadRequest)
	if m.Has(CallbackReadRequest) {
		t.Errorf("mask still has cleared bit: %06b", m)
	}
}

func TestRegisterReplacesHandler(t *testing.T) {
	s, regs := newTestSlave()

	var first, second int
	s.RegisterCallback(func(*Slave) { first++ }, CallbackWriteRequest)
	s.RegisterCallback(func(*Slave) { second++ }, CallbackWriteRequest)
	s.EnableCallback(CallbackWriteRequest)

	regs.addressMatch(s, false)

	if first != 0 {
		t.Errorf("replaced handler fired %d times", first)
	}
	if second != 1 {
		t.Errorf("current handler fired %d times, want 1", second)
	}
}

func TestUnregisterTwiceIsNoop(t *testing.T) {
	s, _ := newTestSlave()

	s.RegisterCallback(func(*Slave) {}, CallbackError)
	s.UnregisterCallback(CallbackError)
	s.UnregisterCallback(CallbackError)

	if s.registered.Has(CallbackError) {
		t.Error("callback still registered after unregister")
	}
	if s.callbacks[CallbackError] != nil {
		t.Error("handler still stored after unregister")
	}
}

func TestCallbackRequiresBothMasks(t *testing.T) {
	s, regs := newTestSlave()

	var fired int
	s.RegisterCallback(func(*Slave) { fired++ }, CallbackWriteRequest)

	// Registered but not enabled: must not fire.
	regs.addressMatch(s, false)
	if fired != 0 {
		t.Errorf("disabled callback fired %d times", fired)
	}

	s.EnableCallback(CallbackWriteRequest)
	regs.addressMatch(s, false)
	if fired != 1 {
		t.Errorf("enabled callback fired %d times, want 1", fired)
	}

	// Enabled but no longer registered: must not fire.
	s.UnregisterCallback(CallbackWriteRequest)
	regs.addressMatch(s, false)
	if fired != 1 {
		t.Errorf("unregistered callback fired, count %d", fired)
	}
}

func TestEnableRequestCallbackArmsAddressMatch(t *testing.T) {
	s, regs := newTestSlave()

	s.RegisterCallback(func(*Slave) {}, CallbackReadRequest)
	s.EnableCallback(CallbackReadRequest)
	if regs.armed&IntAddrMatch == 0 {
		t.Error("address match not armed by enabling read request callback")
	}

	s.DisableCallback(CallbackReadRequest)
	if regs.armed&IntAddrMatch != 0 {
		t.Error("address match still armed after disabling sole request callback")
	}
}

func TestRegisterNilCallbackPanics(t *testing.T) {
	s, _ := newTestSlave()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil callback")
		}
	}()
	s.RegisterCallback(nil, CallbackError)
}
