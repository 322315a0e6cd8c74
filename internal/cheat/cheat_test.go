package cheat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	writes []write
}

type write struct {
	width int
	addr  uint32
	value uint32
}

func (w *recordingWriter) Write8(addr uint32, value uint8) {
	w.writes = append(w.writes, write{8, addr, uint32(value)})
}
func (w *recordingWriter) Write16(addr uint32, value uint16) {
	w.writes = append(w.writes, write{16, addr, uint32(value)})
}
func (w *recordingWriter) Write32(addr uint32, value uint32) {
	w.writes = append(w.writes, write{32, addr, value})
}

func TestApplyRawInfersWidthFromMagnitude(t *testing.T) {
	w := &recordingWriter{}
	e := New(w)
	e.Add("test", "02000000:AB\n02000010:ABCD\n02000020:ABCDEF01", KindRaw)
	e.ApplyCheats()

	want := []write{
		{8, 0x02000000, 0xAB},
		{16, 0x02000010, 0xABCD},
		{32, 0x02000020, 0xABCDEF01},
	}
	require.Equal(t, want, w.writes)
}

func TestApplyGameSharkWidthAndRelocation(t *testing.T) {
	w := &recordingWriter{}
	e := New(w)
	// width=1 (half), low 24 bits address 0x000010 below EWRAM base, relocated.
	e.Add("gs", "01000010 00001234", KindGameShark)
	e.ApplyCheats()

	require.Equal(t, []write{{16, 0x02000010, 0x1234}}, w.writes)
}

func TestApplyGameSharkByteWidthRelocation(t *testing.T) {
	w := &recordingWriter{}
	e := New(w)
	e.Add("gs", "00020000 000000EF", KindGameShark)
	e.ApplyCheats()

	require.Equal(t, []write{{8, 0x02020000, 0xEF}}, w.writes)
}

func TestApplyCodeBreakerWidthAndAddress(t *testing.T) {
	w := &recordingWriter{}
	e := New(w)
	// high nibble 2 -> byte width, low 28 bits address.
	e.Add("cb", "22000010 000000AB", KindCodeBreaker)
	e.ApplyCheats()

	require.Equal(t, []write{{8, 0x02000010, 0xAB}}, w.writes)
}

func TestDisabledCheatNotApplied(t *testing.T) {
	w := &recordingWriter{}
	e := New(w)
	e.Add("off", "02000000:01", KindRaw)
	e.Toggle(0)
	e.ApplyCheats()
	require.Empty(t, w.writes)
}

func TestRemoveCheat(t *testing.T) {
	w := &recordingWriter{}
	e := New(w)
	e.Add("a", "02000000:01", KindRaw)
	e.Add("b", "02000004:02", KindRaw)
	e.Remove(0)
	require.Len(t, e.Cheats, 1)
	require.Equal(t, "b", e.Cheats[0].Name)
}

func TestApplyRawIgnoresMalformedLines(t *testing.T) {
	w := &recordingWriter{}
	e := New(w)
	e.Add("bad", "not-a-cheat\n02000000:01", KindRaw)
	e.ApplyCheats()
	require.Len(t, w.writes, 1)
}
