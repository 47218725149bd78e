package cpu

import (
	"fmt"

	"github.com/binaryblade/mu51/asm"
	"github.com/binaryblade/mu51/memory"
)

// AddressingError is returned when an operand's addressing mode cannot
// be resolved against the machine (e.g. an unknown keyword register).
type AddressingError struct {
	Operand string
}

func (e *AddressingError) Error() string {
	return fmt.Sprintf("cannot resolve operand %q", e.Operand)
}

func bankIndex(name string) (int, bool) {
	if len(name) == 2 && name[0] == 'R' && name[1] >= '0' && name[1] <= '7' {
		return int(name[1] - '0'), true
	}
	return 0, false
}

// readOperand resolves a single operand used as a data source against
// its addressing mode.
func readOperand(m *memory.Machine, op asm.Operand) (byte, error) {
	switch op.Mode {
	case asm.ModeImmediate:
		return op.Value.Uint8(), nil
	case asm.ModeDirect, asm.ModeBit:
		return m.RAM.Read(int(op.Value.Uint8()))
	case asm.ModeIndirect:
		if n, ok := bankIndex(op.Pattern[1:]); ok {
			addr := int(m.Bank.Read(n))
			return m.RAM.Read(addr)
		}
		return 0, &AddressingError{Operand: op.Raw}
	case asm.ModeKeyword:
		return readKeyword(m, op.Pattern)
	default:
		return 0, &AddressingError{Operand: op.Raw}
	}
}

// writeOperand implements the resolver's write side: store value at the
// location op addresses.
func writeOperand(m *memory.Machine, op asm.Operand, value byte) error {
	switch op.Mode {
	case asm.ModeDirect, asm.ModeBit:
		return m.RAM.Write(int(op.Value.Uint8()), value)
	case asm.ModeIndirect:
		if n, ok := bankIndex(op.Pattern[1:]); ok {
			addr := int(m.Bank.Read(n))
			return m.RAM.Write(addr, value)
		}
		return &AddressingError{Operand: op.Raw}
	case asm.ModeKeyword:
		return writeKeyword(m, op.Pattern, value)
	default:
		return &AddressingError{Operand: op.Raw}
	}
}

func readKeyword(m *memory.Machine, pattern string) (byte, error) {
	if n, ok := bankIndex(pattern); ok {
		return m.Bank.Read(n), nil
	}
	switch pattern {
	case "A":
		return m.A.Read(), nil
	case "B":
		return m.B.Read(), nil
	case "PSW":
		return m.PSW.Byte(), nil
	case "SP":
		return m.SP.Get(), nil
	case "DPL":
		return byte(m.DPTR.Read()), nil
	case "DPH":
		return byte(m.DPTR.Read() >> 8), nil
	default:
		return 0, &AddressingError{Operand: pattern}
	}
}

func writeKeyword(m *memory.Machine, pattern string, value byte) error {
	if n, ok := bankIndex(pattern); ok {
		m.Bank.Write(n, value)
		return nil
	}
	switch pattern {
	case "A":
		m.A.Write(value)
	case "B":
		m.B.Write(value)
	case "PSW":
		m.PSW.SetByte(value)
	case "SP":
		m.RAM.MustWrite(memory.AddrSP, value)
	case "DPL":
		m.DPTR.Write(m.DPTR.Read()&0xFF00 | uint16(value))
	case "DPH":
		m.DPTR.Write(m.DPTR.Read()&0x00FF | uint16(value)<<8)
	default:
		return &AddressingError{Operand: pattern}
	}
	return nil
}
