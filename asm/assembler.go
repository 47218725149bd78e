// Package asm implements the single-pass-with-fixup assembler: turning
// newline-separated 8051 assembly source into an ordered instruction
// list plus ROM bytes, resolving label references as they're defined and
// reserving placeholder bytes for the ones that aren't yet.
package asm

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/binaryblade/mu51/byteword"
	"github.com/binaryblade/mu51/memory"
)

var labelRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):`)

// Program is the output of Assemble: the decoded instruction list, the
// hex listing for display (one entry per instruction, in program order),
// and the label table a
// cpu.Controller uses to resolve jump bounces.
type Program struct {
	Instructions []*Instruction
	Listing      []string
	Labels       map[string]int
}

// Assembler drives the per-line pipeline against a ROM segment and PC.
type Assembler struct {
	rom *memory.Segment
	pc  *memory.ProgramCounter
	// Trace, when non-nil, receives one line for every source line that
	// carries a mnemonic (ORG included); blank and label-only lines are
	// not traced.
	Trace io.Writer
}

// NewAssembler returns an assembler that emits into rom, tracking the
// emission cursor in pc.
func NewAssembler(rom *memory.Segment, pc *memory.ProgramCounter) *Assembler {
	return &Assembler{rom: rom, pc: pc}
}

type patchSite struct {
	romAddr int
	line    int
}

func tokenize(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return fields
}

// Assemble parses source line by line, emitting instruction records and
// ROM bytes. It fails with *OpcodeNotFoundError, *SyntaxError, or, once
// every line has been processed, *UnresolvedLabelError for any jump site
// whose target label was never defined.
func (a *Assembler) Assemble(source string) (*Program, error) {
	prog := &Program{Labels: map[string]int{}}
	pending := map[string][]patchSite{}
	var pendingLabel *JumpFlag

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			line = strings.TrimSpace(line[1:])
		}

		var label *JumpFlag
		if m := labelRe.FindStringSubmatch(line); m != nil {
			label = &JumpFlag{Name: strings.ToUpper(m[1]), PC: int(a.pc.Get()), Line: lineNo}
			line = strings.TrimSpace(line[len(m[0]):])
		}
		if line == "" {
			if label != nil {
				pendingLabel = label
			}
			continue
		}

		tokens := tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		mnemonic := strings.ToUpper(tokens[0])
		operandTokens := tokens[1:]

		if a.Trace != nil {
			fmt.Fprintf(a.Trace, "asm: line %d: %s\n", lineNo, line)
		}

		if mnemonic == "ORG" {
			if len(operandTokens) != 1 {
				return nil, &SyntaxError{Detail: "ORG requires exactly one address operand", Line: lineNo}
			}
			w, err := byteword.NewWord(operandTokens[0])
			if err != nil {
				return nil, &SyntaxError{Detail: fmt.Sprintf("bad ORG address %q: %v", operandTokens[0], err), Line: lineNo}
			}
			a.pc.Set(w.Uint16())
			if label != nil {
				pendingLabel = label
			}
			continue
		}

		var targetLabel *JumpFlag
		var placeholders []Operand
		if jumpSet[mnemonic] {
			if len(operandTokens) == 0 {
				return nil, &SyntaxError{Detail: mnemonic + " requires a target label", Line: lineNo}
			}
			targetLabel = &JumpFlag{Name: strings.ToUpper(operandTokens[0]), PC: int(a.pc.Get()), Line: lineNo}
			operandTokens = operandTokens[1:]
			placeholders = []Operand{
				{Raw: "0xff", Mode: ModeDirect, Pattern: "DIRECT", Value: byteword.ByteOf(0xFF), HasValue: true},
				{Raw: "0xff", Mode: ModeDirect, Pattern: "DIRECT", Value: byteword.ByteOf(0xFF), HasValue: true},
			}
		}

		operands := make([]Operand, 0, len(operandTokens)+len(placeholders))
		for _, tok := range operandTokens {
			operands = append(operands, classifyOperand(tok))
		}
		placeholderOffset := len(operands)
		operands = append(operands, placeholders...)

		entry, key, ok := lookupOpcode(mnemonic, operands)
		if !ok {
			return nil, &OpcodeNotFoundError{Detail: key}
		}

		romAddr := a.pc.Get()
		inst := &Instruction{
			Line:        lineNo,
			Source:      line,
			Mnemonic:    mnemonic,
			Operands:    operands,
			ROMAddr:     int(romAddr),
			TargetLabel: targetLabel,
		}

		if label != nil {
			inst.Label = label
		} else if pendingLabel != nil {
			pendingLabel.PC = int(romAddr)
			inst.Label = pendingLabel
			pendingLabel = nil
		}

		romBytes := []byte{}
		if !entry.Pseudo {
			inst.Opcode = entry.Code
			inst.HasOpcode = true
			romBytes = append(romBytes, entry.Code)
		}
		for _, op := range operands {
			switch op.Mode {
			case ModeImmediate, ModeDirect, ModeBit:
				if op.HasValue {
					romBytes = append(romBytes, op.Value.Uint8())
				}
			}
		}
		for _, b := range romBytes {
			if err := a.rom.Write(int(a.pc.Get()), b); err != nil {
				return nil, err
			}
			a.pc.Advance(1)
		}

		idx := len(prog.Instructions)
		prog.Instructions = append(prog.Instructions, inst)

		if targetLabel != nil {
			placeholderROMAddr := inst.ROMAddr + placeholderByteOffset(inst, placeholderOffset, entry.Pseudo)
			if defIdx, ok := prog.Labels[targetLabel.Name]; ok {
				patchJump(a.rom, placeholderROMAddr, prog.Instructions[defIdx].ROMAddr)
			} else {
				pending[targetLabel.Name] = append(pending[targetLabel.Name], patchSite{romAddr: placeholderROMAddr, line: lineNo})
			}
		}

		if inst.Label != nil {
			prog.Labels[inst.Label.Name] = idx
			if sites, ok := pending[inst.Label.Name]; ok {
				for _, site := range sites {
					patchJump(a.rom, site.romAddr, inst.ROMAddr)
				}
				delete(pending, inst.Label.Name)
			}
		}
	}

	for name, sites := range pending {
		return nil, &UnresolvedLabelError{Name: name, Line: sites[0].line}
	}

	prog.Listing = buildListing(a.rom, prog.Instructions)
	return prog, nil
}

// placeholderByteOffset returns how many bytes into the instruction's
// emitted ROM span the placeholder pair starts: opcode byte (if any)
// plus any real operand bytes preceding the placeholders.
func placeholderByteOffset(inst *Instruction, placeholderOffset int, pseudo bool) int {
	n := 0
	if !pseudo {
		n++
	}
	for i := 0; i < placeholderOffset; i++ {
		op := inst.Operands[i]
		switch op.Mode {
		case ModeImmediate, ModeDirect, ModeBit:
			if op.HasValue {
				n++
			}
		}
	}
	return n
}

func patchJump(rom *memory.Segment, addr int, target int) {
	rom.MustWrite(addr, byte(target))
	rom.MustWrite(addr+1, byte(target>>8))
}

func buildListing(rom *memory.Segment, instructions []*Instruction) []string {
	listing := make([]string, len(instructions))
	for i, inst := range instructions {
		length := 0
		if inst.HasOpcode {
			length++
		}
		for _, op := range inst.Operands {
			switch op.Mode {
			case ModeImmediate, ModeDirect, ModeBit:
				if op.HasValue {
					length++
				}
			}
		}
		parts := make([]string, 0, length)
		for b := 0; b < length; b++ {
			parts = append(parts, fmt.Sprintf("%02x", rom.MustRead(inst.ROMAddr+b)))
		}
		listing[i] = strings.Join(parts, " ")
	}
	return listing
}
