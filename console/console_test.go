package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildNROM assembles a minimal one-bank iNES NROM image whose reset
// vector points at $8000, where prgCode is placed.
func buildNROM(prgCode []byte) []byte {
	header := []byte{'N', 'E', 'S', 0x1A, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, 0x4000)
	copy(prg, prgCode)
	prg[0x3FFC] = 0x00 // reset vector low byte -> $8000
	prg[0x3FFD] = 0x80
	return append(header, prg...)
}

func TestConsoleNewBootsFromResetVector(t *testing.T) {
	data := buildNROM([]byte{0xEA}) // NOP
	c, err := New(data, 44100)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8000), c.CPU().PC)
}

func TestConsoleRejectsTruncatedROM(t *testing.T) {
	_, err := New([]byte{1, 2, 3}, 44100)
	assert.Error(t, err)
}

func TestConsoleStepInstructionAdvancesPC(t *testing.T) {
	data := buildNROM([]byte{0xEA, 0xEA}) // two NOPs
	c, err := New(data, 44100)
	require.NoError(t, err)

	c.StepInstruction()
	assert.Equal(t, uint16(0x8001), c.CPU().PC)
}

func TestConsoleSoftResetReloadsPCWithoutNewMapper(t *testing.T) {
	data := buildNROM([]byte{0xEA})
	c, err := New(data, 44100)
	require.NoError(t, err)

	mapperBefore := c.mpr
	c.StepInstruction()
	c.SoftReset()

	assert.Equal(t, uint16(0x8000), c.CPU().PC)
	assert.Same(t, mapperBefore, c.mpr)
}

func TestConsoleJoypadButtonsReachControllers(t *testing.T) {
	data := buildNROM([]byte{0xEA})
	c, err := New(data, 44100)
	require.NoError(t, err)

	c.SetJoypad1(ButtonStart)
	assert.Equal(t, uint8(ButtonStart), c.ctrl1.buttons)
}
