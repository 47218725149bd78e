package ihex_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binaryblade/mu51/ihex"
	"github.com/binaryblade/mu51/memory"
)

func TestBlankStreamFails(t *testing.T) {
	seg := memory.NewSegment(0, memory.ROMSize)
	err := ihex.Load(bytes.NewReader([]byte{}), seg)
	assert.Error(t, err)
}

func TestJustEOFLoadsNothing(t *testing.T) {
	seg := memory.NewSegment(0, memory.ROMSize)
	err := ihex.Load(bytes.NewBufferString(":00000001FF\n"), seg)
	require.NoError(t, err)
	assert.Empty(t, seg.Sorted())
}

func TestExtraBlankLineFails(t *testing.T) {
	seg := memory.NewSegment(0, memory.ROMSize)
	err := ihex.Load(bytes.NewBufferString(":00000001FF\n\n"), seg)
	assert.Error(t, err)
}

func TestLoadDataRecord(t *testing.T) {
	seg := memory.NewSegment(0, memory.ROMSize)
	err := ihex.Load(bytes.NewBufferString(":0300000011223397\n:00000001FF\n"), seg)
	require.NoError(t, err)

	for i, want := range []byte{0x11, 0x22, 0x33} {
		v, err := seg.Read(i)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	src := memory.NewSegment(0, memory.ROMSize)
	require.NoError(t, src.Write(0, 0x01))
	require.NoError(t, src.Write(1, 0x02))
	require.NoError(t, src.Write(20, 0xAB))

	var buf bytes.Buffer
	require.NoError(t, ihex.Dump(&buf, src))

	dst := memory.NewSegment(0, memory.ROMSize)
	require.NoError(t, ihex.Load(&buf, dst))

	v0, err := dst.Read(0)
	require.NoError(t, err)
	v1, err := dst.Read(1)
	require.NoError(t, err)
	v20, err := dst.Read(20)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), v0)
	assert.Equal(t, byte(0x02), v1)
	assert.Equal(t, byte(0xAB), v20)
}

func TestDumpEmptySegmentStillEmitsEOF(t *testing.T) {
	seg := memory.NewSegment(0, memory.ROMSize)
	var buf bytes.Buffer
	require.NoError(t, ihex.Dump(&buf, seg))
	assert.Equal(t, ":00000001FF\n", buf.String())
}
