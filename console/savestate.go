package console

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/halstead/gones/mappers"
)

const (
	nessMagic   = "NESS"
	nessVersion = uint16(1)
)

// SaveStateErrorKind identifies a category of save-state failure.
type SaveStateErrorKind int

const (
	InvalidHeader SaveStateErrorKind = iota
	InvalidVersion
	MissingSection
	InvalidData
	IncoherentRomHash
)

// SaveStateError is the concrete error type returned by LoadState.
// Callers can branch on Kind; Version is set for InvalidVersion,
// Section for MissingSection, Expected/Actual for IncoherentRomHash.
type SaveStateError struct {
	Kind     SaveStateErrorKind
	Version  uint16
	Section  string
	Expected uint32
	Actual   uint32
	Detail   string
}

func (e *SaveStateError) Error() string {
	switch e.Kind {
	case InvalidHeader:
		return "console: save state missing NESS header"
	case InvalidVersion:
		return fmt.Sprintf("console: save state has unsupported version %d", e.Version)
	case MissingSection:
		return fmt.Sprintf("console: save state missing %q section", e.Section)
	case IncoherentRomHash:
		return fmt.Sprintf("console: save state ROM hash mismatch: want %08x, got %08x", e.Expected, e.Actual)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("console: invalid save state: %s", e.Detail)
		}
		return "console: invalid save state"
	}
}

// SaveState serializes the full machine into a self-describing,
// versioned section tree: a "NESS" header, the cartridge's ROM hash,
// then named, length-prefixed sections, one per stateful component.
func (c *Console) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(nessMagic)
	binary.Write(&buf, binary.BigEndian, nessVersion)
	binary.Write(&buf, binary.BigEndian, c.romHash)

	writeSection(&buf, "CPU", c.cpu.SaveState())
	writeSection(&buf, "PPU", c.ppu.SaveState())
	writeSection(&buf, "APU", c.apu.SaveState())

	if sm, ok := c.mpr.(mappers.Stateful); ok {
		writeSection(&buf, "MAPPER", sm.SaveState())
	}

	writeSection(&buf, "CTRL1", c.ctrl1.saveState())
	writeSection(&buf, "CTRL2", c.ctrl2.saveState())

	return buf.Bytes(), nil
}

// LoadState restores a machine previously produced by SaveState. The
// console must already be constructed from the same ROM image (New
// having built the matching mapper); LoadState only restores mutable
// state, not the cartridge's fixed PRG/CHR content.
func (c *Console) LoadState(data []byte) error {
	r := bytes.NewReader(data)

	magic := make([]byte, len(nessMagic))
	if _, err := r.Read(magic); err != nil || string(magic) != nessMagic {
		return &SaveStateError{Kind: InvalidHeader}
	}
	var version uint16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return &SaveStateError{Kind: InvalidData, Detail: "truncated version"}
	}
	if version != nessVersion {
		return &SaveStateError{Kind: InvalidVersion, Version: version}
	}
	var hash uint32
	if err := binary.Read(r, binary.BigEndian, &hash); err != nil {
		return &SaveStateError{Kind: InvalidData, Detail: "truncated ROM hash"}
	}
	if hash != c.romHash {
		return &SaveStateError{Kind: IncoherentRomHash, Expected: c.romHash, Actual: hash}
	}

	sections, err := readSections(r)
	if err != nil {
		return err
	}

	cpuState, ok := sections["CPU"]
	if !ok {
		return &SaveStateError{Kind: MissingSection, Section: "CPU"}
	}
	if err := c.cpu.LoadState(cpuState); err != nil {
		return err
	}

	ppuState, ok := sections["PPU"]
	if !ok {
		return &SaveStateError{Kind: MissingSection, Section: "PPU"}
	}
	if err := c.ppu.LoadState(ppuState); err != nil {
		return err
	}

	apuState, ok := sections["APU"]
	if !ok {
		return &SaveStateError{Kind: MissingSection, Section: "APU"}
	}
	if err := c.apu.LoadState(apuState); err != nil {
		return err
	}

	if sm, ok := c.mpr.(mappers.Stateful); ok {
		mapperState, ok := sections["MAPPER"]
		if !ok {
			return &SaveStateError{Kind: MissingSection, Section: "MAPPER"}
		}
		if err := sm.LoadState(mapperState); err != nil {
			return err
		}
	}

	ctrl1State, ok := sections["CTRL1"]
	if !ok {
		return &SaveStateError{Kind: MissingSection, Section: "CTRL1"}
	}
	c.ctrl1.loadState(ctrl1State)

	ctrl2State, ok := sections["CTRL2"]
	if !ok {
		return &SaveStateError{Kind: MissingSection, Section: "CTRL2"}
	}
	c.ctrl2.loadState(ctrl2State)

	return nil
}

func writeSection(buf *bytes.Buffer, name string, payload []byte) {
	buf.WriteByte(uint8(len(name)))
	buf.WriteString(name)
	binary.Write(buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)
}

func readSections(r *bytes.Reader) (map[string][]byte, error) {
	sections := map[string][]byte{}
	for r.Len() > 0 {
		nameLen, err := r.ReadByte()
		if err != nil {
			return nil, &SaveStateError{Kind: InvalidData, Detail: "truncated section header"}
		}
		nameBytes := make([]byte, nameLen)
		if _, err := r.Read(nameBytes); err != nil {
			return nil, &SaveStateError{Kind: InvalidData, Detail: "truncated section name"}
		}
		var payloadLen uint32
		if err := binary.Read(r, binary.BigEndian, &payloadLen); err != nil {
			return nil, &SaveStateError{Kind: InvalidData, Detail: "truncated section length"}
		}
		payload := make([]byte, payloadLen)
		if _, err := r.Read(payload); err != nil {
			return nil, &SaveStateError{Kind: InvalidData, Detail: "truncated section payload"}
		}
		sections[string(nameBytes)] = payload
	}
	return sections, nil
}

func (c *Controller) saveState() []byte {
	flags := uint8(0)
	if c.strobe {
		flags |= 0x01
	}
	return []byte{flags, c.buttons, c.shift, c.index}
}

func (c *Controller) loadState(data []byte) {
	if len(data) != 4 {
		return
	}
	c.strobe = data[0]&0x01 != 0
	c.buttons, c.shift, c.index = data[1], data[2], data[3]
}
