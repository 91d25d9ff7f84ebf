package cartridge

import "fmt"

// RomParseError reports a malformed iNES file, naming the byte offset of
// the offending field.
type RomParseError struct {
	Offset int
	Reason string
}

func (e *RomParseError) Error() string {
	return fmt.Sprintf("rom parse error at offset %d: %s", e.Offset, e.Reason)
}

// UnsupportedFeature reports a structurally valid iNES file that requires
// capability this module does not implement (e.g. an unimplemented mapper).
type UnsupportedFeature struct {
	Feature string
}

func (e *UnsupportedFeature) Error() string {
	return fmt.Sprintf("unsupported feature: %s", e.Feature)
}
