// Command mu51dbg is an interactive step-debugger: it assembles a source
// file and drops into a bubbletea TUI where space/j steps one
// instruction at a time and the register file, flags, and ROM listing
// are redrawn after every step.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/binaryblade/mu51/cpu"
)

type model struct {
	ctrl   *cpu.Controller
	source string
	err    error
}

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
var cursorStyle = lipgloss.NewStyle().Reverse(true)

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			if m.ctrl.State() != cpu.Done {
				if _, err := m.ctrl.Step(); err != nil {
					m.err = err
				}
			}
		case "r":
			if m.ctrl.State() != cpu.Done {
				if err := m.ctrl.Run(); err != nil {
					m.err = err
				}
			}
		}
	}
	return m, nil
}

func (m model) listing() string {
	snap := m.ctrl.Snapshot()
	lines := make([]string, len(snap.Listing))
	for i, l := range snap.Listing {
		line := fmt.Sprintf("%3d | %-24s", i, l)
		if i == snap.Cursor {
			lines[i] = cursorStyle.Render(line)
		} else {
			lines[i] = line
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	snap := m.ctrl.Snapshot()
	var flags string
	for _, name := range []string{"CY", "AC", "F0", "RS1", "RS0", "OV", "P"} {
		if snap.Flags[name] {
			flags += name + " "
		} else {
			flags += "-- "
		}
	}
	return fmt.Sprintf(`%s
state: %s   cursor: %d

  A: %02x
  B: %02x
 SP: %02x
DPTR: %04x
 PC: %04x
bank: %d

flags: %s
`,
		labelStyle.Render("mu51dbg"),
		snap.State, snap.Cursor,
		snap.A, snap.B, snap.SP, snap.DPTR, snap.PC, snap.Bank,
		flags,
	)
}

func (m model) View() string {
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.listing(),
		"   ",
		m.status(),
	)
	footer := "space/j: step   r: run   q: quit"
	if m.err != nil {
		footer = spew.Sdump(m.err)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: mu51dbg <source.a51>")
		os.Exit(1)
	}
	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctrl := cpu.NewController(nil)
	if err := ctrl.Assemble(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(model{ctrl: ctrl, source: string(src)})
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
