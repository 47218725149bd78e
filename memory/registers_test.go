package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binaryblade/mu51/memory"
)

func TestSFRAliasesReadThroughRAM(t *testing.T) {
	m := memory.NewMachine()

	m.A.Write(0x42)
	v, err := m.RAM.Read(memory.AddrA)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), v)

	m.B.Write(0x11)
	v, _ = m.RAM.Read(memory.AddrB)
	assert.Equal(t, byte(0x11), v)

	m.PSW.SetByte(0x80)
	v, _ = m.RAM.Read(memory.AddrPSW)
	assert.Equal(t, byte(0x80), v)

	m.DPTR.Write(0x1234)
	hi, _ := m.RAM.Read(memory.AddrDPH)
	lo, _ := m.RAM.Read(memory.AddrDPL)
	assert.Equal(t, byte(0x12), hi)
	assert.Equal(t, byte(0x34), lo)
}

func TestPSWFlagProjection(t *testing.T) {
	m := memory.NewMachine()
	m.PSW.SetCY(true)
	m.PSW.SetAC(true)
	assert.True(t, m.PSW.CY())
	assert.True(t, m.PSW.AC())
	assert.False(t, m.PSW.OV())
	assert.Equal(t, byte(0xC0), m.PSW.Byte())

	m.PSW.SetCY(false)
	assert.False(t, m.PSW.CY())
	assert.True(t, m.PSW.AC())
}

func TestRegisterBankCoherence(t *testing.T) {
	m := memory.NewMachine()
	for bank := 0; bank < 4; bank++ {
		m.PSW.SetRS0(bank&0x01 != 0)
		m.PSW.SetRS1(bank&0x02 != 0)
		for i := 0; i < 8; i++ {
			m.Bank.Write(i, byte(bank*10+i))
		}
	}
	for bank := 0; bank < 4; bank++ {
		m.PSW.SetRS0(bank&0x01 != 0)
		m.PSW.SetRS1(bank&0x02 != 0)
		for i := 0; i < 8; i++ {
			assert.Equal(t, byte(bank*10+i), m.Bank.Read(i))
			v, err := m.RAM.Read(bank*8 + i)
			assert.NoError(t, err)
			assert.Equal(t, byte(bank*10+i), v)
		}
	}
}

func TestStackPushPopRoundTrip(t *testing.T) {
	m := memory.NewMachine()
	assert.Equal(t, byte(0x07), m.SP.Get())

	m.SP.Push(0xAB)
	assert.Equal(t, byte(0x08), m.SP.Get())

	m.SP.Push(0xCD)
	assert.Equal(t, byte(0x09), m.SP.Get())

	assert.Equal(t, byte(0xCD), m.SP.Pop())
	assert.Equal(t, byte(0x08), m.SP.Get())

	assert.Equal(t, byte(0xAB), m.SP.Pop())
	assert.Equal(t, byte(0x07), m.SP.Get())
}

func TestProgramCounterAdvanceAndSet(t *testing.T) {
	pc := &memory.ProgramCounter{}
	assert.Equal(t, uint16(0), pc.Get())
	pc.Advance(3)
	assert.Equal(t, uint16(3), pc.Get())
	pc.Set(0x1000)
	assert.Equal(t, uint16(0x1000), pc.Get())
}

func TestDataPointerRoundTrip(t *testing.T) {
	m := memory.NewMachine()
	m.DPTR.Write(0xBEEF)
	assert.Equal(t, uint16(0xBEEF), m.DPTR.Read())
}
