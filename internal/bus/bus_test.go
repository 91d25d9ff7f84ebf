package bus

import (
	"testing"

	"gones/internal/cartridge"
	"gones/internal/input"
)

func loadTestCartridge(b *Bus) *cartridge.MockCartridge {
	cart := cartridge.NewMockCartridge()
	b.LoadCartridge(cart)
	return cart
}

func TestNewBusResetsAllComponents(t *testing.T) {
	b := New()
	if b.GetFrameCount() != 0 {
		t.Fatalf("frame count at construction = %d, want 0", b.GetFrameCount())
	}
	if b.GetCycleCount() != 0 {
		t.Fatalf("cycle count at construction = %d, want 0", b.GetCycleCount())
	}
}

func TestStepAdvancesPPUAtThreeTimesCPURate(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	cyclesBefore := b.cpuCycles
	ppuCyclesBefore := b.ppuCycles
	b.Step()
	cpuDelta := b.cpuCycles - cyclesBefore
	ppuDelta := b.ppuCycles - ppuCyclesBefore
	if ppuDelta != cpuDelta*3 {
		t.Fatalf("ppu advanced %d dots for %d cpu cycles, want exactly 3x", ppuDelta, cpuDelta)
	}
}

func TestOAMDMAStalls513CyclesOnEvenStart(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	b.cpuCycles = 10 // even
	b.TriggerOAMDMA(0x02)
	if b.dmaSuspendCycles != 513 {
		t.Fatalf("dmaSuspendCycles = %d, want 513 starting from an even CPU cycle", b.dmaSuspendCycles)
	}
}

func TestOAMDMAStalls514CyclesOnOddStart(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	b.cpuCycles = 11 // odd
	b.TriggerOAMDMA(0x02)
	if b.dmaSuspendCycles != 514 {
		t.Fatalf("dmaSuspendCycles = %d, want 514 starting from an odd CPU cycle", b.dmaSuspendCycles)
	}
}

func TestOAMDMADoesNotStackWhileInProgress(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	b.cpuCycles = 10
	b.TriggerOAMDMA(0x02)
	stalled := b.dmaSuspendCycles
	b.TriggerOAMDMA(0x03) // should be ignored, DMA already in progress
	if b.dmaSuspendCycles != stalled {
		t.Fatal("a second OAM DMA trigger while one is in progress should be ignored")
	}
}

func TestDMAStallSuspendsCPUExecution(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	b.TriggerOAMDMA(0x02)
	pcBefore := b.CPU.PC
	stalledBefore := b.dmaSuspendCycles
	b.Step()
	if b.CPU.PC != pcBefore {
		t.Fatal("CPU PC should not advance while suspended for DMA")
	}
	if b.dmaSuspendCycles != stalledBefore-1 {
		t.Fatalf("dmaSuspendCycles = %d, want %d (decremented by one)", b.dmaSuspendCycles, stalledBefore-1)
	}
}

func TestPendingNMIReflectsCPULatch(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	if b.PendingNMI() {
		t.Fatal("no NMI should be pending immediately after reset")
	}
}

func TestFrameRunsAtLeast29781CPUCycles(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	start := b.cpuCycles
	b.Frame()
	if b.cpuCycles-start < 29781 {
		t.Fatalf("cpuCycles advanced by %d, want at least 29781 in one frame", b.cpuCycles-start)
	}
}

func TestRunCyclesStopsAtOrPastTarget(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	b.RunCycles(100)
	if b.cpuCycles < 100 {
		t.Fatalf("cpuCycles = %d, want at least 100", b.cpuCycles)
	}
}

func TestLoadCartridgeResetsCPUFromResetVector(t *testing.T) {
	b := New()
	cart := cartridge.NewMockCartridge()
	// Reset vector at $FFFC-$FFFD within the 32KB PRG window ($8000+0x7FFC).
	resetLow := byte(0x00)
	resetHigh := byte(0x90)
	prg := make([]uint8, 0x8000)
	prg[0x7FFC] = resetLow
	prg[0x7FFD] = resetHigh
	cart.LoadPRG(prg)
	b.LoadCartridge(cart)
	want := uint16(resetHigh)<<8 | uint16(resetLow)
	if b.CPU.PC != want {
		t.Fatalf("PC after LoadCartridge = %#04x, want %#04x (reset vector)", b.CPU.PC, want)
	}
}

func TestExecutionLoggingRecordsSteps(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	b.EnableExecutionLogging()
	b.Step()
	b.Step()
	log := b.GetExecutionLog()
	if len(log) != 2 {
		t.Fatalf("execution log length = %d, want 2", len(log))
	}
	b.ClearExecutionLog()
	if len(b.GetExecutionLog()) != 0 {
		t.Fatal("execution log should be empty after ClearExecutionLog")
	}
}

func TestControllerButtonRoutesToCorrectController(t *testing.T) {
	b := New()
	loadTestCartridge(b)
	b.SetControllerButton(0, input.ButtonA, true)
	state := b.GetInputState()
	if !state.Controller1.IsPressed(input.ButtonA) {
		t.Fatal("button state should be set on controller 1")
	}
}
