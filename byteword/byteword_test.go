package byteword_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binaryblade/mu51/byteword"
)

func TestNewByteAcceptsAllLiteralForms(t *testing.T) {
	for _, s := range []string{"0x55", "0X55", "55h", "55H", "55"} {
		b, err := byteword.NewByte(s)
		assert.NoError(t, err, s)
		assert.Equal(t, uint8(0x55), b.Uint8(), s)
		assert.Equal(t, "0x55", b.Hex(), s)
	}
}

func TestNewByteRejectsGarbage(t *testing.T) {
	_, err := byteword.NewByte("zz")
	assert.Error(t, err)
	var invalid *byteword.InvalidHexError
	assert.ErrorAs(t, err, &invalid)
}

func TestNewByteRejectsOutOfRange(t *testing.T) {
	_, err := byteword.NewByte("0x100")
	assert.Error(t, err)
	var rangeErr *byteword.RangeExceededError
	assert.ErrorAs(t, err, &rangeErr)
}

func TestByteHexRoundTrip(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		b := byteword.ByteOf(uint8(v))
		rt, err := byteword.NewByte(b.Hex())
		assert.NoError(t, err)
		assert.Equal(t, b, rt)
	}
}

func TestByteWrap(t *testing.T) {
	b := byteword.ByteOf(0xF0)
	assert.Equal(t, uint8(0x00), b.Add(0x10).Uint8())
	assert.Equal(t, uint8(0xFF), byteword.ByteOf(0x00).Sub(1).Uint8())
}

func TestByteAddSubRoundTrip(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		for k := -300; k <= 300; k += 37 {
			b := byteword.ByteOf(uint8(v))
			assert.Equal(t, b, b.Add(k).Sub(k))
		}
	}
}

func TestByteParityLaw(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		b := byteword.ByteOf(uint8(v))
		ones := 0
		for i := uint(0); i < 8; i++ {
			if b.Bit(i) {
				ones++
			}
		}
		assert.Equal(t, ones%2 == 0, b.Parity())
	}
}

func TestTwosComplementInvolution(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		b := byteword.ByteOf(uint8(v))
		assert.Equal(t, b, b.TwosComplement().TwosComplement())
	}
}

func TestWordFromBytes(t *testing.T) {
	hi, _ := byteword.NewByte("0x12")
	lo, _ := byteword.NewByte("0x34")
	w := byteword.FromBytes(hi, lo)
	assert.Equal(t, "0x1234", w.Hex())
	assert.Equal(t, hi, w.Hi())
	assert.Equal(t, lo, w.Lo())
}

func TestWordWrap(t *testing.T) {
	w := byteword.WordOf(0xFFFF)
	assert.Equal(t, uint16(0x0000), w.Add(1).Uint16())
}

func TestWithBitPreservesOtherBits(t *testing.T) {
	b := byteword.ByteOf(0b10101010)
	set := b.WithBit(0, true)
	assert.True(t, set.Bit(0))
	for i := uint(1); i < 8; i++ {
		assert.Equal(t, b.Bit(i), set.Bit(i))
	}
}
