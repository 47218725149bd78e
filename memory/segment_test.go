package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binaryblade/mu51/memory"
)

func TestSegmentMaterialisesUntouchedCellsAsZero(t *testing.T) {
	s := memory.NewSegment(0x00, 256)
	v, err := s.Read(0x50)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x00), v)
}

func TestSegmentWriteRead(t *testing.T) {
	s := memory.NewSegment(0x00, 256)
	assert.NoError(t, s.Write(0x10, 0xAA))
	v, err := s.Read(0x10)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAA), v)
}

func TestSegmentRejectsOutOfRange(t *testing.T) {
	s := memory.NewSegment(0x00, 256)
	_, err := s.Read(0x100)
	assert.Error(t, err)
	var limitErr *memory.MemoryLimitExceededError
	assert.ErrorAs(t, err, &limitErr)

	err = s.Write(-1, 0x00)
	assert.Error(t, err)
	assert.ErrorAs(t, err, &limitErr)
}

func TestSegmentWithNonZeroBase(t *testing.T) {
	s := memory.NewSegment(0x8000, 16)
	assert.NoError(t, s.Write(0x8000, 0x01))
	assert.NoError(t, s.Write(0x800F, 0x02))
	_, err := s.Read(0x7FFF)
	assert.Error(t, err)
	_, err = s.Read(0x8010)
	assert.Error(t, err)
}

func TestSegmentSortedOrdersByAddress(t *testing.T) {
	s := memory.NewSegment(0x00, 16)
	s.MustWrite(0x0A, 0x01)
	s.MustWrite(0x02, 0x02)
	s.MustWrite(0x05, 0x03)
	cells := s.Sorted()
	assert.Len(t, cells, 3)
	assert.Equal(t, 0x02, cells[0].Addr)
	assert.Equal(t, 0x05, cells[1].Addr)
	assert.Equal(t, 0x0A, cells[2].Addr)
}

func TestROMSegmentBounds(t *testing.T) {
	rom := memory.NewSegment(memory.ROMBase, memory.ROMSize)
	assert.NoError(t, rom.Write(0x0FFF, 0x12))
	_, err := rom.Read(0x1000)
	assert.Error(t, err)
}
