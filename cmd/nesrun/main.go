// Command nesrun drives the core headlessly: load a ROM, run it for a fixed
// number of frames, and optionally dump the resulting framebuffer as a PNG.
// There is no window and no audio output; a host wanting either builds its
// own GUI/input loop on top of internal/emulator.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"gones/internal/emulator"
)

func main() {
	var (
		romPath = flag.String("rom", "", "path to an iNES ROM file")
		out     = flag.String("out", "", "write the final frame as a PNG to this path (optional)")
		frames  = flag.Int("frames", 60, "number of frames to run before stopping")
		debug   = flag.Bool("debug", false, "panic on internal invariant violations instead of ignoring them")
	)
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "nesrun: -rom is required")
		flag.Usage()
		os.Exit(2)
	}

	romFile, err := os.Open(*romPath)
	if err != nil {
		log.Fatalf("open rom: %v", err)
	}
	defer romFile.Close()

	emu, err := emulator.New(romFile)
	if err != nil {
		log.Fatalf("load rom: %v", err)
	}
	emu.EnableDebugAssertions(*debug)

	emu.Reset()
	emu.RunFrames(*frames)

	fmt.Printf("ran %d frames (mapper %d)\n", *frames, emu.MapperID())

	if *out != "" {
		if err := dumpPNG(emu, *out); err != nil {
			log.Fatalf("write png: %v", err)
		}
		fmt.Printf("wrote %s\n", *out)
	}
}

// dumpPNG encodes the emulator's current 256x240 ARGB framebuffer as a PNG
// using only the standard library, matching how the rest of the pack's
// GUI-bound emulators fall back to stdlib image encoding for their own
// headless/test paths rather than pulling in a third-party codec.
func dumpPNG(emu *emulator.Emulator, path string) error {
	buf := emu.Framebuffer()

	img := image.NewRGBA(image.Rect(0, 0, 256, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			pixel := buf[y*256+x]
			img.Set(x, y, color.RGBA{
				R: uint8(pixel >> 16),
				G: uint8(pixel >> 8),
				B: uint8(pixel),
				A: 0xFF,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
