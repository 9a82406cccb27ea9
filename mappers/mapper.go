// Package mappers implements the cartridge-side bank-switching logic
// referenced numerically by iNES ROM files: a small closed set of
// tagged variants behind one interface, selected by mapper ID.
package mappers

import (
	"fmt"

	"github.com/halstead/gones/rom"
)

// Mapper is the contract a cartridge's bank-switching logic must satisfy.
// The CPU-bus path and PPU path both dispatch into it by method call;
// there is no shared mutable state outside of the mapper itself.
type Mapper interface {
	ReadCPU(addr uint16) uint8
	WriteCPU(addr uint16, val uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)
	StepScanline()
	IRQAsserted() bool
	Mirroring() rom.Mirror
}

// factory builds a Mapper from a decoded ROM image. Each variant owns a
// private copy of PRG/CHR bytes plus whatever banking state it needs.
type factory func(r *rom.ROM) Mapper

var registry = map[uint8]factory{}

// RegisterMapper adds a mapper variant to the registry, keyed by the
// iNES mapper ID it implements. Called from each variant's init().
func RegisterMapper(id uint8, f factory) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mappers: mapper id %d already registered", id))
	}
	registry[id] = f
}

// Get constructs the Mapper implementation for the ROM's mapper ID. The
// ROM decoder already rejects unsupported IDs, so an unknown ID here
// indicates an internal inconsistency rather than a user-facing error.
func Get(r *rom.ROM) (Mapper, error) {
	f, ok := registry[r.Mapper]
	if !ok {
		return nil, fmt.Errorf("mappers: no implementation registered for mapper %d", r.Mapper)
	}
	return f(r), nil
}

func copyOf(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
