// Command gonesdbg is a terminal instruction-stepper for the console
// package: single-step or advance a frame at a time, watch the CPU
// registers and the bytes at PC in lipgloss-styled panes, and dump the
// CPU state with go-spew on demand.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/halstead/gones/console"
)

var (
	registerStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	disasmStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type model struct {
	c       *console.Console
	prevPC  uint16
	dumping bool
	err     error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "s":
		m.prevPC = m.c.CPU().PC
		m.c.StepInstruction()
		m.dumping = false
	case "f":
		var frame [256 * 240 * 3]byte
		m.c.NextFrame(frame[:])
		m.dumping = false
	case "r":
		m.c.SoftReset()
		m.dumping = false
	case "d":
		m.dumping = !m.dumping
	}
	return m, nil
}

func (m model) registers() string {
	cpu := m.c.CPU()
	return fmt.Sprintf(
		"PC: %04X (was %04X)\nA:  %02X\nX:  %02X\nY:  %02X\nSP: %02X\nST: %08b\ncyc: %d",
		cpu.PC, m.prevPC, cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.Status, cpu.TotalCycles,
	)
}

func (m model) disassembly() string {
	pc := m.c.CPU().PC
	s := ""
	addr := pc
	for i := 0; i < 8; i++ {
		marker := "  "
		if addr == pc {
			marker = "->"
		}
		s += fmt.Sprintf("%s %04X: %02X\n", marker, addr, m.c.PeekMemory(addr))
		addr++
	}
	return s
}

func (m model) View() string {
	top := lipgloss.JoinHorizontal(
		lipgloss.Top,
		registerStyle.Render(m.registers()),
		disasmStyle.Render(m.disassembly()),
	)
	help := helpStyle.Render("space/s: step instruction  f: run to frame  r: soft reset  d: dump  q: quit")
	if m.dumping {
		return lipgloss.JoinVertical(lipgloss.Left, top, spew.Sdump(m.c.CPU()), help)
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, help)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gonesdbg path/to/game.nes")
		os.Exit(2)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "gonesdbg:", err)
		os.Exit(1)
	}
	c, err := console.New(data, 44100)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gonesdbg:", err)
		os.Exit(1)
	}
	if _, err := tea.NewProgram(model{c: c}).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "gonesdbg:", err)
		os.Exit(1)
	}
}
