package apu

import "testing"

func TestWriteRegister4015SetsLengthCounterBits(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x05) // pulse1 + triangle
	status := a.ReadStatus()
	if status&0x01 == 0 {
		t.Fatal("pulse1 length-counter-active bit should be set")
	}
	if status&0x04 == 0 {
		t.Fatal("triangle length-counter-active bit should be set")
	}
	if status&0x02 != 0 {
		t.Fatal("pulse2 bit should remain clear")
	}
}

func TestReadStatusClearsFrameIRQFlag(t *testing.T) {
	a := New()
	a.frameIRQFlag = true
	first := a.ReadStatus()
	if first&0x80 == 0 {
		t.Fatal("first read should report the frame IRQ flag set")
	}
	second := a.ReadStatus()
	if second&0x80 != 0 {
		t.Fatal("reading status should clear the frame IRQ flag")
	}
}

func TestWriteRegister4015ClearsDMCIRQFlag(t *testing.T) {
	a := New()
	a.dmcIRQFlag = true
	a.WriteRegister(0x4015, 0x00)
	if a.ReadStatus()&0x40 != 0 {
		t.Fatal("writing $4015 should clear the DMC IRQ flag")
	}
}

func TestWriteRegister4017DisablesFrameIRQAndClearsFlag(t *testing.T) {
	a := New()
	a.frameIRQFlag = true
	a.WriteRegister(0x4017, 0x40) // bit 6 set disables the frame IRQ
	if a.frameIRQEnable {
		t.Fatal("frame IRQ should be disabled when bit 6 is set")
	}
	if a.ReadStatus()&0x80 != 0 {
		t.Fatal("disabling the frame IRQ should clear its pending flag")
	}
}

func TestResetClearsAllState(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x0F)
	a.frameIRQFlag = true
	a.dmcIRQFlag = true
	a.Reset()
	if a.ReadStatus() != 0 {
		t.Fatal("status should read all-clear after Reset")
	}
}

func TestGetSamplesAlwaysEmpty(t *testing.T) {
	a := New()
	if samples := a.GetSamples(); samples != nil {
		t.Fatalf("GetSamples() = %v, want nil (stub never synthesizes audio)", samples)
	}
}
