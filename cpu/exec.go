package cpu

import (
	"fmt"

	"github.com/binaryblade/mu51/asm"
	"github.com/binaryblade/mu51/byteword"
	"github.com/binaryblade/mu51/memory"
)

// UnimplementedMnemonicError is returned when Execute is asked to run a
// mnemonic the assembler recognises (so it assembles fine) but the
// interpreter does not implement. JB/JNB/JBC/DJNZ/CJNE fall here: the
// assembler reserves and patches their label operand like any other
// jump-set mnemonic, but only JC/JNC/JZ/JNZ are executed among the
// conditional family - the rest of the 8051's instruction set is out of
// scope for this core.
type UnimplementedMnemonicError struct {
	Mnemonic string
}

func (e *UnimplementedMnemonicError) Error() string {
	return fmt.Sprintf("mnemonic %s is assembled but not executed", e.Mnemonic)
}

// Execute runs one decoded instruction against m. cursor is the
// instruction's own index in the program, needed by ACALL/LCALL to push
// a return index.
func Execute(m *memory.Machine, inst *asm.Instruction, cursor int) (JumpAction, error) {
	ops := inst.Operands
	switch inst.Mnemonic {
	case "MOV":
		if len(ops) < 2 {
			return Continue, &AddressingError{Operand: inst.Source}
		}
		v, err := readOperand(m, ops[1])
		if err != nil {
			return Continue, err
		}
		return Continue, writeOperand(m, ops[0], v)

	case "ADD":
		return Continue, binaryArith(m, ops, addFlags)

	case "SUBB":
		return Continue, execSUBB(m, ops)

	case "ANL":
		return Continue, binaryLogic(m, ops, func(a, b byte) byte { return a & b })

	case "ORL":
		return Continue, binaryLogic(m, ops, func(a, b byte) byte { return a | b })

	case "XRL":
		return Continue, binaryLogic(m, ops, func(a, b byte) byte { return a ^ b })

	case "INC":
		return Continue, bump(m, ops, 1)

	case "DEC":
		return Continue, bump(m, ops, -1)

	case "RL":
		return Continue, rotate(m, true)

	case "RR":
		return Continue, rotate(m, false)

	case "SWAP":
		a := m.A.Read()
		m.A.Write(a<<4 | a>>4)
		return Continue, nil

	case "XCH":
		if len(ops) < 2 {
			return Continue, &AddressingError{Operand: inst.Source}
		}
		a := m.A.Read()
		v, err := readOperand(m, ops[1])
		if err != nil {
			return Continue, err
		}
		m.A.Write(v)
		return Continue, writeOperand(m, ops[1], a)

	case "SETB":
		return Continue, execSETB(m, ops)

	case "PUSH":
		if len(ops) < 1 {
			return Continue, &AddressingError{Operand: inst.Source}
		}
		v, err := readOperand(m, ops[0])
		if err != nil {
			return Continue, err
		}
		m.SP.Push(v)
		return Continue, nil

	case "POP":
		if len(ops) < 1 {
			return Continue, &AddressingError{Operand: inst.Source}
		}
		return Continue, writeOperand(m, ops[0], m.SP.Pop())

	case "SJMP", "AJMP", "LJMP", "JMP":
		return JumpAction{Taken: true, Label: inst.TargetLabel.Name}, nil

	case "JC":
		return JumpAction{Taken: m.PSW.CY(), Label: inst.TargetLabel.Name}, nil

	case "JNC":
		return JumpAction{Taken: !m.PSW.CY(), Label: inst.TargetLabel.Name}, nil

	case "JZ":
		return JumpAction{Taken: m.A.Read() == 0, Label: inst.TargetLabel.Name}, nil

	case "JNZ":
		return JumpAction{Taken: m.A.Read() != 0, Label: inst.TargetLabel.Name}, nil

	case "ACALL", "LCALL":
		ret := cursor + 1
		m.SP.Push(byte(ret))
		m.SP.Push(byte(ret >> 8))
		return JumpAction{Taken: true, Label: inst.TargetLabel.Name}, nil

	case "RET", "RETI":
		hi := m.SP.Pop()
		lo := m.SP.Pop()
		idx := int(hi)<<8 | int(lo)
		return JumpAction{Taken: true, ByIndex: true, Index: idx}, nil

	case "JB", "JNB", "JBC", "DJNZ", "CJNE":
		return Continue, &UnimplementedMnemonicError{Mnemonic: inst.Mnemonic}

	case "DB":
		return Continue, nil

	default:
		return Continue, &UnimplementedMnemonicError{Mnemonic: inst.Mnemonic}
	}
}

func binaryArith(m *memory.Machine, ops []asm.Operand, compute func(byte, byte) (byte, bool, bool, bool, bool)) error {
	if len(ops) < 2 {
		return &AddressingError{Operand: "missing operand"}
	}
	a, err := readOperand(m, ops[0])
	if err != nil {
		return err
	}
	b, err := readOperand(m, ops[1])
	if err != nil {
		return err
	}
	result, cy, ac, p, ov := compute(a, b)
	if err := writeOperand(m, ops[0], result); err != nil {
		return err
	}
	m.PSW.SetCY(cy)
	m.PSW.SetAC(ac)
	m.PSW.SetP(p)
	m.PSW.SetOV(ov)
	return nil
}

func execSUBB(m *memory.Machine, ops []asm.Operand) error {
	if len(ops) < 2 {
		return &AddressingError{Operand: "missing operand"}
	}
	src, err := readOperand(m, ops[1])
	if err != nil {
		return err
	}
	if m.PSW.CY() {
		m.PSW.SetCY(false)
		src = byteword.ByteOf(src).Add(1).Uint8()
	}
	a, err := readOperand(m, ops[0])
	if err != nil {
		return err
	}
	result, cy, ac, p, ov := subFlags(a, src)
	if err := writeOperand(m, ops[0], result); err != nil {
		return err
	}
	m.PSW.SetCY(cy)
	m.PSW.SetAC(ac)
	m.PSW.SetP(p)
	m.PSW.SetOV(ov)
	return nil
}

func binaryLogic(m *memory.Machine, ops []asm.Operand, op func(byte, byte) byte) error {
	if len(ops) < 2 {
		return &AddressingError{Operand: "missing operand"}
	}
	a, err := readOperand(m, ops[0])
	if err != nil {
		return err
	}
	b, err := readOperand(m, ops[1])
	if err != nil {
		return err
	}
	result := op(a, b)
	if err := writeOperand(m, ops[0], result); err != nil {
		return err
	}
	m.PSW.SetP(byteword.ByteOf(result).Parity())
	m.PSW.SetOV(result&0x80 != 0)
	return nil
}

func bump(m *memory.Machine, ops []asm.Operand, delta int) error {
	if len(ops) < 1 {
		return &AddressingError{Operand: "missing operand"}
	}
	v, err := readOperand(m, ops[0])
	if err != nil {
		return err
	}
	return writeOperand(m, ops[0], byteword.ByteOf(v).Add(delta).Uint8())
}

func rotate(m *memory.Machine, left bool) error {
	a := m.A.Read()
	if left {
		m.A.Write(a<<1 | a>>7)
	} else {
		m.A.Write(a>>1 | a<<7)
	}
	return nil
}

func execSETB(m *memory.Machine, ops []asm.Operand) error {
	if len(ops) < 1 {
		return &AddressingError{Operand: "missing operand"}
	}
	op := ops[0]
	if op.Mode == asm.ModeKeyword && op.Pattern == "C" {
		m.PSW.SetCY(true)
		return nil
	}
	if op.Mode == asm.ModeBit && op.HasValue && op.HasBit {
		addr := int(op.Value.Uint8())
		b, err := m.RAM.Read(addr)
		if err != nil {
			return err
		}
		nb := byteword.ByteOf(b).WithBit(uint(op.BitIndex), true)
		return m.RAM.Write(addr, nb.Uint8())
	}
	return &AddressingError{Operand: op.Raw}
}
