package asm

import "fmt"

// OpcodeNotFoundError is returned when a mnemonic/operand-pattern
// combination has no entry in the opcode table.
type OpcodeNotFoundError struct {
	Detail string
}

func (e *OpcodeNotFoundError) Error() string {
	return fmt.Sprintf("opcode not found: %s", e.Detail)
}

// SyntaxError is returned for a malformed source line: an ORG directive
// without exactly one valid address operand, or a jump-set mnemonic with
// no target label.
type SyntaxError struct {
	Detail string
	Line   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Detail)
}

// UnresolvedLabelError is returned at the end of Assemble when a jump
// site's target label was never defined, rather than silently leaving
// placeholder bytes in ROM.
type UnresolvedLabelError struct {
	Name string
	Line int
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("unresolved label %q referenced on line %d", e.Name, e.Line)
}
