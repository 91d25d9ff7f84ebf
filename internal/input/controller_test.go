package input

import "testing"

func TestSetButtonTracksPressedState(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	if !c.IsPressed(ButtonA) {
		t.Fatal("ButtonA should read pressed after SetButton(true)")
	}
	c.SetButton(ButtonA, false)
	if c.IsPressed(ButtonA) {
		t.Fatal("ButtonA should read released after SetButton(false)")
	}
}

func TestSetButtonsOrdersBitsAsNESExpects(t *testing.T) {
	c := New()
	c.SetButtons([8]bool{true, false, false, false, false, false, false, true}) // A and Right
	if !c.IsPressed(ButtonA) || !c.IsPressed(ButtonRight) {
		t.Fatal("A and Right should both be pressed")
	}
	if c.IsPressed(ButtonB) || c.IsPressed(ButtonUp) {
		t.Fatal("unset buttons should read unpressed")
	}
}

func TestStrobeHighReturnsSnapshotTakenAtStrobe(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1) // strobe high, snapshots the current button state
	if got := c.Read(); got != 1 {
		t.Fatalf("Read() with strobe high = %d, want 1 (A was pressed at strobe time)", got)
	}
	c.Write(1) // strobe stays high, re-snapshots on every such write
	c.SetButton(ButtonA, false)
	c.Write(1)
	if got := c.Read(); got != 0 {
		t.Fatalf("Read() after re-strobing with A released = %d, want 0", got)
	}
}

func TestStrobeLowShiftsOutLatchedButtonsInOrder(t *testing.T) {
	c := New()
	// A and Select pressed; NES bit order is A,B,Select,Start,Up,Down,Left,Right.
	c.SetButtons([8]bool{true, false, true, false, false, false, false, false})
	c.Write(1) // latch
	c.Write(0) // strobe low, begin shifting

	want := []uint8{1, 0, 1, 0, 0, 0, 0, 0}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d = %d, want %d", i, got, w)
		}
	}
}

func TestReadsPastEighthBitReturnZero(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	if got := c.Read(); got != 0 {
		t.Fatalf("9th read = %d, want 0 (shift register exhausted)", got)
	}
}

func TestSnapshotIsNotUpdatedWithoutARestrobe(t *testing.T) {
	c := New()
	c.Write(1) // snapshot taken here, before B is pressed
	c.SetButton(ButtonB, true)
	if got := c.Read(); got != 0 {
		t.Fatalf("Read() = %d, want 0 (snapshot predates the button change, and bit 0 is A anyway)", got)
	}
}

func TestResetClearsButtonsAndShiftState(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1)
	c.Write(0)
	c.Read()
	c.Reset()
	if c.IsPressed(ButtonA) {
		t.Fatal("Reset should clear button state")
	}
	if c.GetBitPosition() != 0 {
		t.Fatal("Reset should clear shift position")
	}
}

func TestInputStateRoutesPortsToRespectiveControllers(t *testing.T) {
	is := NewInputState()
	is.Controller1.SetButton(ButtonA, true)
	is.Write(0x4016, 1)
	is.Write(0x4016, 0)
	if got := is.Read(0x4016); got != 1 {
		t.Fatalf("Read($4016) = %d, want 1 (controller 1's A button)", got)
	}
	// Controller 2's open-bus bit 6 should always be set.
	if got := is.Read(0x4017); got&0x40 == 0 {
		t.Fatal("Read($4017) should carry the bit-6 open-bus convention")
	}
}

func TestBothControllersLatchOnSharedStrobeLine(t *testing.T) {
	is := NewInputState()
	is.Controller2.SetButton(ButtonA, true)
	is.Write(0x4016, 1)
	is.Write(0x4016, 0)
	if got := is.Read(0x4017); got&1 != 1 {
		t.Fatal("controller 2 should have latched on the shared strobe write")
	}
}
