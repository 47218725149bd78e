package memory

// Sizes and base addresses for the two segments every machine carries.
const (
	RAMBase = 0x00
	RAMSize = 256
	ROMBase = 0x0000
	ROMSize = 4096
)

// Machine wires together the RAM segment, the ROM segment, and the named
// register views on top of RAM: one object a cpu.Controller drives to
// fetch, decode, and execute against.
type Machine struct {
	RAM *Segment
	ROM *Segment

	A    *LinkedRegister
	B    *LinkedRegister
	PSW  *PSW
	Bank *RegisterBank
	DPTR *DataPointer
	SP   *StackPointer
	PC   *ProgramCounter
}

// NewMachine allocates a fresh Machine with RAM/ROM segments sized per
// the 8051 memory map and all registers reset.
func NewMachine() *Machine {
	ram := NewSegment(RAMBase, RAMSize)
	rom := NewSegment(ROMBase, ROMSize)
	psw := NewPSW(ram)
	m := &Machine{
		RAM:  ram,
		ROM:  rom,
		A:    NewLinkedRegister(ram, AddrA),
		B:    NewLinkedRegister(ram, AddrB),
		PSW:  psw,
		Bank: NewRegisterBank(ram, psw),
		DPTR: NewDataPointer(ram),
		SP:   NewStackPointer(ram),
		PC:   &ProgramCounter{},
	}
	return m
}

// Reset reallocates RAM and ROM and restores every register to its
// power-on state: A=B=0x00, PSW=0x00, SP=0x07, DPTR=0x0000, PC=0x0000.
func (m *Machine) Reset() {
	m.RAM = NewSegment(RAMBase, RAMSize)
	m.ROM = NewSegment(ROMBase, ROMSize)
	m.PSW = NewPSW(m.RAM)
	m.A = NewLinkedRegister(m.RAM, AddrA)
	m.B = NewLinkedRegister(m.RAM, AddrB)
	m.Bank = NewRegisterBank(m.RAM, m.PSW)
	m.DPTR = NewDataPointer(m.RAM)
	m.SP = NewStackPointer(m.RAM)
	m.PC = &ProgramCounter{}
}
