package asm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binaryblade/mu51/asm"
	"github.com/binaryblade/mu51/memory"
)

func newAssembler() (*asm.Assembler, *memory.Segment) {
	rom := memory.NewSegment(memory.ROMBase, memory.ROMSize)
	pc := &memory.ProgramCounter{}
	return asm.NewAssembler(rom, pc), rom
}

func TestMovImmediateEncoding(t *testing.T) {
	a, rom := newAssembler()
	prog, err := a.Assemble("MOV 0x30, #0x55")
	assert.NoError(t, err)
	assert.Len(t, prog.Instructions, 1)
	assert.Equal(t, byte(0x75), rom.MustRead(0))
	assert.Equal(t, byte(0x30), rom.MustRead(1))
	assert.Equal(t, byte(0x55), rom.MustRead(2))
}

func TestAddImmediateEncoding(t *testing.T) {
	a, rom := newAssembler()
	_, err := a.Assemble("ADD A, #0x20")
	assert.NoError(t, err)
	assert.Equal(t, byte(0x24), rom.MustRead(0))
	assert.Equal(t, byte(0x20), rom.MustRead(1))
}

func TestBankSwitchRegisterEncoding(t *testing.T) {
	a, rom := newAssembler()
	_, err := a.Assemble("MOV R3, #0x42")
	assert.NoError(t, err)
	assert.Equal(t, byte(0x7B), rom.MustRead(0))
	assert.Equal(t, byte(0x42), rom.MustRead(1))
}

func TestForwardJumpResolution(t *testing.T) {
	a, rom := newAssembler()
	src := "MOV A, #0x01\nJNZ NEXT\nMOV A, #0x00\nNEXT: MOV B, #0x99"
	prog, err := a.Assemble(src)
	assert.NoError(t, err)
	assert.Len(t, prog.Instructions, 4)

	assert.Equal(t, byte(0x70), rom.MustRead(2)) // JNZ opcode
	assert.Equal(t, byte(0x07), rom.MustRead(3)) // patched low byte = NEXT's PC
	assert.Equal(t, byte(0x00), rom.MustRead(4)) // patched high byte

	idx, ok := prog.Labels["NEXT"]
	assert.True(t, ok)
	assert.Equal(t, 7, prog.Instructions[idx].ROMAddr)
}

func TestBackwardJumpResolution(t *testing.T) {
	a, rom := newAssembler()
	src := "LOOP: MOV A, #0x01\nSJMP LOOP"
	prog, err := a.Assemble(src)
	assert.NoError(t, err)
	loopIdx, ok := prog.Labels["LOOP"]
	assert.True(t, ok)
	loopAddr := prog.Instructions[loopIdx].ROMAddr
	assert.Equal(t, byte(loopAddr), rom.MustRead(2+1))
	assert.Equal(t, byte(loopAddr>>8), rom.MustRead(2+2))
}

func TestUnresolvedLabelFails(t *testing.T) {
	a, _ := newAssembler()
	_, err := a.Assemble("JNZ NOWHERE")
	assert.Error(t, err)
	var unresolved *asm.UnresolvedLabelError
	assert.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "NOWHERE", unresolved.Name)
}

func TestOpcodeNotFoundFails(t *testing.T) {
	a, _ := newAssembler()
	_, err := a.Assemble("FROB A, #0x01")
	assert.Error(t, err)
	var notFound *asm.OpcodeNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestStackPushPopSourceAssembles(t *testing.T) {
	a, rom := newAssembler()
	src := "MOV 0x30, #0xAB\nPUSH 0x30\nMOV 0x30, #0x00\nPOP 0x30"
	prog, err := a.Assemble(src)
	assert.NoError(t, err)
	assert.Len(t, prog.Instructions, 4)
	assert.Equal(t, byte(0xC0), rom.MustRead(3)) // PUSH opcode
	assert.Equal(t, byte(0x30), rom.MustRead(4))
}

func TestSetbNamedSFRBitEncoding(t *testing.T) {
	a, rom := newAssembler()
	prog, err := a.Assemble("SETB PSW.3")
	assert.NoError(t, err)
	assert.Len(t, prog.Instructions, 1)
	assert.Equal(t, byte(0xD2), rom.MustRead(0)) // SETB BIT opcode
	assert.Equal(t, byte(0xD0), rom.MustRead(1)) // PSW's own address
}

func TestDirectivePrefixIsConsumed(t *testing.T) {
	a, rom := newAssembler()
	_, err := a.Assemble("#ORG 0x0010\nMOV A, #0x01")
	assert.NoError(t, err)
	assert.Equal(t, byte(0x74), rom.MustRead(0x10))
}

func TestOrgSetsEmissionAddress(t *testing.T) {
	a, rom := newAssembler()
	prog, err := a.Assemble("ORG 0x0010\nMOV A, #0x01")
	assert.NoError(t, err)
	assert.Len(t, prog.Instructions, 1)
	assert.Equal(t, 0x10, prog.Instructions[0].ROMAddr)
	assert.Equal(t, byte(0x74), rom.MustRead(0x10))
}
