// Package memory implements the 8051's addressable memory and register
// file: a map-backed RAM/ROM segment, the named SFR aliases that sit on top
// of it, the bank-switched general-purpose registers, and the program
// status word as a pure projection of a single byte.
package memory

import (
	"fmt"
	"sort"
)

// InvalidMemoryAddressError describes an address that is not a
// well-formed value for the segment being addressed. Segment takes
// integer addresses and reports out-of-range ones with
// MemoryLimitExceededError; none of its methods return this error.
type InvalidMemoryAddressError struct {
	Addr int
}

func (e *InvalidMemoryAddressError) Error() string {
	return fmt.Sprintf("invalid memory address: %#x", e.Addr)
}

// MemoryLimitExceededError is returned when an address falls outside a
// segment's configured [base, base+size) range.
type MemoryLimitExceededError struct {
	Addr, Base, Size int
}

func (e *MemoryLimitExceededError) Error() string {
	return fmt.Sprintf("address %#x outside segment [%#x, %#x)", e.Addr, e.Base, e.Base+e.Size)
}

// Segment is a map-backed, lazily-materialising block of addressable
// memory. It is the storage for both RAM (256B @ 0x00) and ROM (4KB @
// 0x0000); cells are created at 0x00 the first time they are read or
// written, so a read never returns an error once the address is in range.
//
// Bounds are checked against a configurable base and size, so the same
// type serves both a 256-byte RAM and a 4KB ROM without address overlap.
type Segment struct {
	base int
	size int
	cell map[int]byte
}

// NewSegment allocates a Segment covering [base, base+size).
func NewSegment(base, size int) *Segment {
	return &Segment{base: base, size: size, cell: make(map[int]byte)}
}

// Base returns the segment's starting address.
func (s *Segment) Base() int { return s.base }

// Size returns the segment's size in bytes.
func (s *Segment) Size() int { return s.size }

func (s *Segment) verify(addr int) error {
	if addr < s.base || addr >= s.base+s.size {
		return &MemoryLimitExceededError{Addr: addr, Base: s.base, Size: s.size}
	}
	return nil
}

// Read returns the byte at addr, materialising it at 0x00 if untouched.
func (s *Segment) Read(addr int) (byte, error) {
	if err := s.verify(addr); err != nil {
		return 0, err
	}
	v, ok := s.cell[addr]
	if !ok {
		s.cell[addr] = 0
		return 0, nil
	}
	return v, nil
}

// MustRead is Read without the error return, for call sites that have
// already range-checked addr (e.g. fixed SFR aliases).
func (s *Segment) MustRead(addr int) byte {
	v, err := s.Read(addr)
	if err != nil {
		panic(err)
	}
	return v
}

// Write stores value at addr, range-checking against the segment bounds.
func (s *Segment) Write(addr int, value byte) error {
	if err := s.verify(addr); err != nil {
		return err
	}
	s.cell[addr] = value
	return nil
}

// MustWrite is Write without the error return, for fixed SFR aliases.
func (s *Segment) MustWrite(addr int, value byte) {
	if err := s.Write(addr, value); err != nil {
		panic(err)
	}
}

// Cell is one materialised memory location, used by Sorted for display.
type Cell struct {
	Addr  int
	Value byte
}

// Sorted returns every materialised cell in ascending address order, for
// rendering by a front-end.
func (s *Segment) Sorted() []Cell {
	cells := make([]Cell, 0, len(s.cell))
	for addr, v := range s.cell {
		cells = append(cells, Cell{Addr: addr, Value: v})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Addr < cells[j].Addr })
	return cells
}
