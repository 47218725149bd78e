// Package cpu implements the instruction interpreter and the execution
// controller: the state machine that owns a program's decoded
// instruction list, the cursor into it, and the memory.Machine the
// instructions execute against.
package cpu

import (
	"fmt"
	"io"

	"github.com/binaryblade/mu51/asm"
	"github.com/binaryblade/mu51/memory"
)

// State is one of the controller's lifecycle states.
type State int

const (
	Fresh State = iota
	Assembled
	Running
	Paused
	Done
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "Fresh"
	case Assembled:
		return "Assembled"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// NotReadyError is returned by Step/Run/RunLimited when called before
// Assemble has produced a program. WriteMemory works in any state.
type NotReadyError struct{}

func (e *NotReadyError) Error() string { return "controller is not ready: assemble a program first" }

// StepBudgetExceededError is returned by RunLimited when execution does
// not reach Done within the caller-supplied step budget: the bounded
// variant a front-end should call to guard against a runaway loop.
type StepBudgetExceededError struct {
	Steps int
}

func (e *StepBudgetExceededError) Error() string {
	return fmt.Sprintf("exceeded step budget of %d instructions", e.Steps)
}

// Controller is the instruction-list, cursor, and ready-flag tuple that
// drives a Machine through a program, with an io.Writer trace sink for
// per-line and per-instruction logging.
type Controller struct {
	Machine *memory.Machine
	Trace   io.Writer

	program *asm.Program
	cursor  int
	state   State
}

// NewController returns a fresh, unassembled controller. trace may be
// nil to discard tracing.
func NewController(trace io.Writer) *Controller {
	c := &Controller{Trace: trace}
	c.Reset()
	return c
}

// Reset replaces the machine with a fresh one and clears the program and
// cursor; the trace sink is preserved across reset.
func (c *Controller) Reset() {
	c.Machine = memory.NewMachine()
	c.program = nil
	c.cursor = 0
	c.state = Fresh
}

// State reports the controller's current lifecycle state.
func (c *Controller) State() State { return c.state }

// SetFlags applies a map of flag-name to boolean to the PSW.
func (c *Controller) SetFlags(flags map[string]bool) {
	c.Machine.PSW.Set(flags)
}

// Assemble parses source and prepares the instruction list and ROM. On
// success the controller transitions Fresh -> Assembled.
func (c *Controller) Assemble(source string) error {
	a := asm.NewAssembler(c.Machine.ROM, c.Machine.PC)
	a.Trace = c.Trace
	prog, err := a.Assemble(source)
	if err != nil {
		return err
	}
	c.program = prog
	c.cursor = 0
	c.state = Assembled
	c.logf("assemble: %d instructions\n", len(prog.Instructions))
	return nil
}

func (c *Controller) logf(format string, args ...any) {
	if c.Trace != nil {
		fmt.Fprintf(c.Trace, format, args...)
	}
}

// Step executes the instruction at the cursor and returns the new
// cursor. It transitions Assembled/Paused -> Paused, or -> Done once the
// cursor reaches the end of the program.
func (c *Controller) Step() (int, error) {
	if c.program == nil {
		return c.cursor, &NotReadyError{}
	}
	if c.cursor >= len(c.program.Instructions) {
		c.state = Done
		return c.cursor, nil
	}
	inst := c.program.Instructions[c.cursor]
	c.logf("exec: [%d] %s %s\n", c.cursor, inst.Mnemonic, inst.Source)

	action, err := Execute(c.Machine, inst, c.cursor)
	if err != nil {
		return c.cursor, err
	}

	next := c.cursor + 1
	if action.Taken {
		if action.ByIndex {
			next = action.Index
		} else {
			idx, ok := c.program.Labels[action.Label]
			if !ok {
				return c.cursor, &asm.UnresolvedLabelError{Name: action.Label, Line: inst.Line}
			}
			next = idx
		}
	}
	c.cursor = next

	if c.cursor >= len(c.program.Instructions) {
		c.state = Done
	} else {
		c.state = Paused
	}
	return c.cursor, nil
}

// Run advances the cursor from its current value to the end of the
// program. It imposes no step limit - callers worried about runaway
// loops should use RunLimited instead.
func (c *Controller) Run() error {
	if c.program == nil {
		return &NotReadyError{}
	}
	c.state = Running
	for c.cursor < len(c.program.Instructions) {
		if _, err := c.Step(); err != nil {
			return err
		}
	}
	c.state = Done
	return nil
}

// RunLimited is Run bounded by maxSteps instructions, returning
// StepBudgetExceededError if the program has not reached Done within
// that budget.
func (c *Controller) RunLimited(maxSteps int) error {
	if c.program == nil {
		return &NotReadyError{}
	}
	c.state = Running
	for i := 0; i < maxSteps; i++ {
		if c.cursor >= len(c.program.Instructions) {
			c.state = Done
			return nil
		}
		if _, err := c.Step(); err != nil {
			return err
		}
	}
	if c.cursor >= len(c.program.Instructions) {
		c.state = Done
		return nil
	}
	return &StepBudgetExceededError{Steps: maxSteps}
}

// WriteMemory is a direct user edit of a RAM cell.
func (c *Controller) WriteMemory(addr int, value byte) error {
	return c.Machine.RAM.Write(addr, value)
}

// Snapshot returns a read-only view of machine state for a front-end.
type Snapshot struct {
	RAM     []memory.Cell
	ROM     []memory.Cell
	A       byte
	B       byte
	SP      byte
	DPTR    uint16
	PC      uint16
	PSWByte byte
	Flags   map[string]bool
	Bank    int
	Cursor  int
	State   string
	Listing []string
}

// Snapshot captures the current machine and controller state.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		RAM:     c.Machine.RAM.Sorted(),
		ROM:     c.Machine.ROM.Sorted(),
		A:       c.Machine.A.Read(),
		B:       c.Machine.B.Read(),
		SP:      c.Machine.SP.Get(),
		DPTR:    c.Machine.DPTR.Read(),
		PC:      c.Machine.PC.Get(),
		PSWByte: c.Machine.PSW.Byte(),
		Bank:    c.Machine.PSW.Bank(),
		Cursor:  c.cursor,
		State:   c.state.String(),
		Flags: map[string]bool{
			"P":   c.Machine.PSW.P(),
			"OV":  c.Machine.PSW.OV(),
			"RS0": c.Machine.PSW.RS0(),
			"RS1": c.Machine.PSW.RS1(),
			"F0":  c.Machine.PSW.F0(),
			"AC":  c.Machine.PSW.AC(),
			"CY":  c.Machine.PSW.CY(),
		},
	}
	if c.program != nil {
		snap.Listing = c.program.Listing
	}
	return snap
}
