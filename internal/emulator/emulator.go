// Package emulator exposes the NES core's bus, CPU, PPU, and mapper wiring
// through the small operation set an external host (GUI, headless runner,
// test harness) actually needs, without handing out the bus's internal
// testing/debugging surface.
package emulator

import (
	"io"

	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/input"
)

// Emulator is the core's external entry point: load a ROM, then drive it
// one cycle, one instruction, or one frame at a time.
type Emulator struct {
	bus       *bus.Bus
	cartridge *cartridge.Cartridge

	debugAssertions bool
}

// New parses rom as an iNES image and returns an Emulator ready to Reset
// and step. A malformed or unsupported ROM surfaces as a
// *cartridge.RomParseError or *cartridge.UnsupportedFeature.
func New(rom io.Reader) (*Emulator, error) {
	cart, err := cartridge.LoadFromReader(rom)
	if err != nil {
		return nil, err
	}

	b := bus.New()
	b.LoadCartridge(cart)

	return &Emulator{bus: b, cartridge: cart}, nil
}

// Reset restores the CPU, PPU, APU, and input state to power-up/reset
// conditions without re-parsing the cartridge.
func (e *Emulator) Reset() {
	e.bus.Reset()
}

// StepCycle advances the system by exactly one CPU cycle plus the three PPU
// dots it corresponds to.
func (e *Emulator) StepCycle() {
	e.bus.StepCycle()
}

// StepInstruction executes one full CPU instruction (including any pending
// DMA stall and interrupt service) and the PPU/APU ticks alongside it.
func (e *Emulator) StepInstruction() {
	e.bus.StepInstruction()
}

// StepFrame runs the system for one NTSC frame.
func (e *Emulator) StepFrame() {
	e.bus.StepFrame()
	if e.debugAssertions {
		e.checkInvariants()
	}
}

// RunFrames runs the system for n frames.
func (e *Emulator) RunFrames(n int) {
	for i := 0; i < n; i++ {
		e.StepFrame()
	}
}

// Framebuffer returns the composited 256x240 ARGB frame, row-major,
// top-left origin.
func (e *Emulator) Framebuffer() [256 * 240]uint32 {
	buf := e.bus.GetFrameBuffer()
	var out [256 * 240]uint32
	copy(out[:], buf)
	return out
}

// BackgroundIndexBuffer returns the raw background palette index at every
// pixel (palette<<2 | color, 0 where transparent), independent of sprite
// compositing, for tests that need to inspect background rendering alone.
func (e *Emulator) BackgroundIndexBuffer() [256 * 240]uint8 {
	return e.bus.GetBackgroundIndexBuffer()
}

// Controller returns the controller plugged into the given port (1 or 2).
// Its SetButton/Write/Read methods drive $4016/$4017 port semantics exactly
// as the bus wires them; an unrecognized port returns nil.
func (e *Emulator) Controller(port int) *input.Controller {
	switch port {
	case 1:
		return e.bus.Input.Controller1
	case 2:
		return e.bus.Input.Controller2
	default:
		return nil
	}
}

// PendingNMI reports whether an NMI service is latched and waiting for the
// next instruction boundary.
func (e *Emulator) PendingNMI() bool {
	return e.bus.PendingNMI()
}

// RequestIRQ sets or clears the CPU's level-sensitive IRQ line, for buses
// beyond NROM-only setups that have their own interrupt sources (mapper IRQ
// counters, expansion audio).
func (e *Emulator) RequestIRQ(level bool) {
	e.bus.RequestIRQ(level)
}

// EnableDebugAssertions turns on InternalInvariantViolation checks after
// every StepFrame. These never fire in correct operation; they exist to
// catch regressions during development, not for production use.
func (e *Emulator) EnableDebugAssertions(enable bool) {
	e.debugAssertions = enable
}

// checkInvariants re-validates core state that should be impossible to
// violate from outside. A failure here means a bug in the core itself, not
// a ROM or caller error, so it panics with an InternalInvariantViolation
// rather than returning it through the normal step_* path.
func (e *Emulator) checkInvariants() {
	scanline := e.bus.GetScanline()
	cycle := e.bus.GetCycle()
	if scanline < -1 || scanline > 260 {
		panic(&InternalInvariantViolation{
			Invariant: "ppu.scanline",
			Detail:    "scanline out of the -1..260 NTSC range",
		})
	}
	if cycle < 0 || cycle > 340 {
		panic(&InternalInvariantViolation{
			Invariant: "ppu.cycle",
			Detail:    "dot out of the 0..340 per-scanline range",
		})
	}
}

// MapperID reports the iNES mapper number the loaded cartridge was built
// for, mostly useful for diagnostics and test fixtures.
func (e *Emulator) MapperID() uint8 {
	return e.cartridge.MapperID()
}
