package memory

// Fixed SFR addresses within the RAM segment. These alias single RAM
// cells: a read through the named accessor is a read of the same byte a
// direct RAM read at this address would return.
const (
	AddrA   = 0xE0
	AddrB   = 0xF0
	AddrPSW = 0xD0
	AddrDPL = 0x82
	AddrDPH = 0x83
	AddrSP  = 0x81
)

// PSW bit positions, bit 0 (LSB) through bit 7 (MSB).
const (
	BitP   = 0 // parity
	BitUD  = 1 // user-defined, unused
	BitOV  = 2 // overflow
	BitRS0 = 3 // register bank select, low bit
	BitRS1 = 4 // register bank select, high bit
	BitF0  = 5 // general-purpose flag
	BitAC  = 6 // auxiliary carry
	BitCY  = 7 // carry
)

// LinkedRegister aliases a single RAM byte: it has no storage of its own,
// every read/write passes through to the backing Segment.
type LinkedRegister struct {
	ram  *Segment
	addr int
}

// NewLinkedRegister returns a handle onto ram[addr].
func NewLinkedRegister(ram *Segment, addr int) *LinkedRegister {
	return &LinkedRegister{ram: ram, addr: addr}
}

// Addr returns the aliased RAM address.
func (r *LinkedRegister) Addr() int { return r.addr }

// Read returns the current byte.
func (r *LinkedRegister) Read() byte { return r.ram.MustRead(r.addr) }

// Write stores a new byte.
func (r *LinkedRegister) Write(v byte) { r.ram.MustWrite(r.addr, v) }

// PSW is a borrowed view over the RAM byte at AddrPSW. Flag reads/writes
// are a pure projection of that single byte; there is no separate flag
// storage.
type PSW struct {
	reg *LinkedRegister
}

// NewPSW returns a PSW view over ram.
func NewPSW(ram *Segment) *PSW {
	return &PSW{reg: NewLinkedRegister(ram, AddrPSW)}
}

// Byte returns the raw PSW byte.
func (p *PSW) Byte() byte { return p.reg.Read() }

// SetByte overwrites the raw PSW byte.
func (p *PSW) SetByte(v byte) { p.reg.Write(v) }

// Reset clears all flags.
func (p *PSW) Reset() { p.reg.Write(0x00) }

func (p *PSW) bit(pos uint) bool { return p.reg.Read()&(1<<pos) != 0 }

func (p *PSW) setBit(pos uint, v bool) {
	b := p.reg.Read()
	if v {
		b |= 1 << pos
	} else {
		b &^= 1 << pos
	}
	p.reg.Write(b)
}

// P reports the parity flag.
func (p *PSW) P() bool { return p.bit(BitP) }

// SetP sets the parity flag.
func (p *PSW) SetP(v bool) { p.setBit(BitP, v) }

// OV reports the overflow flag.
func (p *PSW) OV() bool { return p.bit(BitOV) }

// SetOV sets the overflow flag.
func (p *PSW) SetOV(v bool) { p.setBit(BitOV, v) }

// RS0 reports the low register-bank-select bit.
func (p *PSW) RS0() bool { return p.bit(BitRS0) }

// SetRS0 sets the low register-bank-select bit.
func (p *PSW) SetRS0(v bool) { p.setBit(BitRS0, v) }

// RS1 reports the high register-bank-select bit.
func (p *PSW) RS1() bool { return p.bit(BitRS1) }

// SetRS1 sets the high register-bank-select bit.
func (p *PSW) SetRS1(v bool) { p.setBit(BitRS1, v) }

// F0 reports the general-purpose flag.
func (p *PSW) F0() bool { return p.bit(BitF0) }

// SetF0 sets the general-purpose flag.
func (p *PSW) SetF0(v bool) { p.setBit(BitF0, v) }

// AC reports the auxiliary-carry flag.
func (p *PSW) AC() bool { return p.bit(BitAC) }

// SetAC sets the auxiliary-carry flag.
func (p *PSW) SetAC(v bool) { p.setBit(BitAC, v) }

// CY reports the carry flag.
func (p *PSW) CY() bool { return p.bit(BitCY) }

// SetCY sets the carry flag.
func (p *PSW) SetCY(v bool) { p.setBit(BitCY, v) }

// Bank returns the currently-selected register bank, 0-3, computed from
// RS1:RS0.
func (p *PSW) Bank() int {
	b := 0
	if p.RS0() {
		b |= 0x01
	}
	if p.RS1() {
		b |= 0x02
	}
	return b
}

// Set applies a map of named flags (as used by Controller.SetFlags); keys
// not recognised are ignored.
func (p *PSW) Set(flags map[string]bool) {
	setters := map[string]func(bool){
		"P":   p.SetP,
		"OV":  p.SetOV,
		"RS0": p.SetRS0,
		"RS1": p.SetRS1,
		"F0":  p.SetF0,
		"AC":  p.SetAC,
		"CY":  p.SetCY,
	}
	for k, v := range flags {
		if set, ok := setters[k]; ok {
			set(v)
		}
	}
}

// RegisterBank is a stateless view over R0..R7: the effective RAM address
// of register i is computed from the current PSW bank on every access, so
// the view has no storage beyond the underlying RAM.
type RegisterBank struct {
	ram *Segment
	psw *PSW
}

// NewRegisterBank returns a bank view over ram, tracking psw for bank
// selection.
func NewRegisterBank(ram *Segment, psw *PSW) *RegisterBank {
	return &RegisterBank{ram: ram, psw: psw}
}

// Addr returns the effective RAM address of Ri in the currently selected
// bank.
func (rb *RegisterBank) Addr(i int) int {
	return rb.psw.Bank()*8 + i
}

// Read returns the current value of Ri.
func (rb *RegisterBank) Read(i int) byte {
	return rb.ram.MustRead(rb.Addr(i))
}

// Write stores v into Ri.
func (rb *RegisterBank) Write(i int, v byte) {
	rb.ram.MustWrite(rb.Addr(i), v)
}

// DataPointer is a 16-bit view composed of DPH:DPL.
type DataPointer struct {
	dph, dpl *LinkedRegister
}

// NewDataPointer returns a DPTR view over ram.
func NewDataPointer(ram *Segment) *DataPointer {
	return &DataPointer{
		dph: NewLinkedRegister(ram, AddrDPH),
		dpl: NewLinkedRegister(ram, AddrDPL),
	}
}

// Read returns DPH:DPL as a 16-bit value.
func (d *DataPointer) Read() uint16 {
	return uint16(d.dph.Read())<<8 | uint16(d.dpl.Read())
}

// Write splits a 16-bit value across DPH:DPL.
func (d *DataPointer) Write(v uint16) {
	d.dph.Write(byte(v >> 8))
	d.dpl.Write(byte(v))
}

// ProgramCounter is a 16-bit word, independent of RAM, tracking the next
// ROM address the assembler emits into. Executing instructions, jumps
// included, does not move it: the controller tracks position by
// instruction index.
type ProgramCounter struct {
	v uint16
}

// Get returns the current PC value.
func (pc *ProgramCounter) Get() uint16 { return pc.v }

// Set overwrites the PC; the assembler uses it for ORG.
func (pc *ProgramCounter) Set(v uint16) { pc.v = v }

// Advance moves PC forward by n bytes (mod 65536), used by the assembler
// as it emits bytes.
func (pc *ProgramCounter) Advance(n int) { pc.v = uint16(int(pc.v) + n) }

// StackPointer aliases RAM[0x81] and starts at 0x07 on reset.
type StackPointer struct {
	reg *LinkedRegister
	ram *Segment
}

// NewStackPointer returns an SP view over ram, initialised to 0x07.
func NewStackPointer(ram *Segment) *StackPointer {
	sp := &StackPointer{reg: NewLinkedRegister(ram, AddrSP), ram: ram}
	sp.reg.Write(0x07)
	return sp
}

// Get returns the current stack pointer value.
func (s *StackPointer) Get() byte { return s.reg.Read() }

// Push increments SP then writes value at the new top of stack, wrapping
// modulo 256. No overflow is reported, mirroring hardware.
func (s *StackPointer) Push(value byte) {
	next := s.reg.Read() + 1
	s.reg.Write(next)
	s.ram.MustWrite(int(next), value)
}

// Pop reads the top of stack then decrements SP, wrapping modulo 256.
func (s *StackPointer) Pop() byte {
	top := s.reg.Read()
	v := s.ram.MustRead(int(top))
	s.reg.Write(top - 1)
	return v
}
