package cpu

import "github.com/binaryblade/mu51/byteword"

// addFlags computes the result and flag side-effects of data1+data2: raw
// sum of integer forms, CY when the sum exceeds 255, AC from the
// low-nibble carry, P from result parity, and OV from the result's sign
// bit (not a true signed-overflow check).
func addFlags(data1, data2 byte) (result byte, cy, ac, p, ov bool) {
	sum := int(data1) + int(data2)
	result = byte(sum)
	cy = sum > 255
	ac = (int(data1)&0x0F)+(int(data2)&0x0F) >= 16
	p = byteword.ByteOf(result).Parity()
	ov = result&0x80 != 0
	return
}

// subFlags computes data1-data2: two's-complement data2 and run it
// through the add path for AC/P/OV, but CY is the borrow test against
// the unmodified data2.
func subFlags(data1, data2 byte) (result byte, cy, ac, p, ov bool) {
	complement := byteword.ByteOf(data2).TwosComplement().Uint8()
	result, _, ac, p, ov = addFlags(data1, complement)
	cy = data1 < data2
	return
}
