package asm

import (
	"strings"

	"github.com/binaryblade/mu51/byteword"
	"github.com/binaryblade/mu51/memory"
)

// AddressMode names the addressing mode an operand was classified into.
type AddressMode int

const (
	ModeDirect AddressMode = iota
	ModeImmediate
	ModeIndirect
	ModeBit
	ModeKeyword
)

func (m AddressMode) String() string {
	switch m {
	case ModeDirect:
		return "DIRECT"
	case ModeImmediate:
		return "#IMMED"
	case ModeIndirect:
		return "INDIRECT"
	case ModeBit:
		return "BIT"
	case ModeKeyword:
		return "KEYWORD"
	default:
		return "?"
	}
}

// keywords is the set of register/SFR names that resolve to direct-via-
// register addressing rather than a bare hex address.
var keywords = map[string]bool{
	"A": true, "ACC": true, "B": true, "C": true,
	"R0": true, "R1": true, "R2": true, "R3": true,
	"R4": true, "R5": true, "R6": true, "R7": true,
	"PSW": true, "SP": true, "DPTR": true, "DPL": true, "DPH": true,
}

// bitAddressableSFR maps the named bit-addressable special function
// registers to their byte address, so "PSW.3" resolves the same way
// "0xd0.3" would.
var bitAddressableSFR = map[string]byte{
	"A": memory.AddrA, "ACC": memory.AddrA,
	"B":   memory.AddrB,
	"PSW": memory.AddrPSW,
}

// Operand is one classified operand of a source line.
type Operand struct {
	Raw     string      // the original token, as written
	Mode    AddressMode // the addressing mode it was classified into
	Pattern string      // the opcode-table key token for this operand
	Value   byteword.Byte
	HasValue bool // whether Value holds a real resolved literal (not a label)
	BitIndex int  // for ModeBit, the bit number (0-7) after the dot
	HasBit   bool
}

// classifyOperand determines the addressing mode of a single operand
// token: indirect (@Rn), immediate (#nn), bit (addr.n), a known
// register/SFR keyword, or a bare direct address.
func classifyOperand(tok string) Operand {
	switch {
	case strings.HasPrefix(tok, "@"):
		reg := strings.ToUpper(tok[1:])
		return Operand{Raw: tok, Mode: ModeIndirect, Pattern: "@" + reg}
	case strings.HasPrefix(tok, "#"):
		lit := tok[1:]
		op := Operand{Raw: tok, Mode: ModeImmediate, Pattern: "#IMMED"}
		if b, err := byteword.NewByte(lit); err == nil {
			op.Value = b
			op.HasValue = true
		}
		return op
	case strings.Contains(tok, "."):
		parts := strings.SplitN(tok, ".", 2)
		op := Operand{Raw: tok, Mode: ModeBit, Pattern: "BIT"}
		if b, err := byteword.NewByte(parts[0]); err == nil {
			op.Value = b
			op.HasValue = true
		} else if addr, ok := bitAddressableSFR[strings.ToUpper(parts[0])]; ok {
			op.Value = byteword.ByteOf(addr)
			op.HasValue = true
		}
		if len(parts) == 2 {
			if n := parts[1]; len(n) == 1 && n[0] >= '0' && n[0] <= '7' {
				op.BitIndex = int(n[0] - '0')
				op.HasBit = true
			}
		}
		return op
	case keywords[strings.ToUpper(tok)]:
		up := strings.ToUpper(tok)
		if up == "B" {
			// B is a keyword but resolves to direct addressing at 0xF0.
			return Operand{Raw: tok, Mode: ModeDirect, Pattern: "DIRECT", Value: byteword.ByteOf(0xF0), HasValue: true}
		}
		if up == "ACC" {
			up = "A"
		}
		return Operand{Raw: tok, Mode: ModeKeyword, Pattern: up}
	default:
		op := Operand{Raw: tok, Mode: ModeDirect, Pattern: "DIRECT"}
		if b, err := byteword.NewByte(tok); err == nil {
			op.Value = b
			op.HasValue = true
		}
		return op
	}
}
