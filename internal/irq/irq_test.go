package irq

import (
	"testing"

	"github.com/stretchr/testify/require"

	"GoBA/internal/io"
)

func TestNewReleasesAllKeys(t *testing.T) {
	regs := io.NewIORegs()
	c := New(regs)
	require.Equal(t, allKeysReleased, c.Keys())
	require.Equal(t, allKeysReleased, regs.Get16(io.RegKEYINPUT))
}

func TestKeyDownClearsBit(t *testing.T) {
	regs := io.NewIORegs()
	c := New(regs)
	c.KeyDown(KeyA)
	require.Zero(t, c.Keys()&KeyA, "KeyA bit still set after KeyDown")
	require.Zero(t, regs.Get16(io.RegKEYINPUT)&KeyA, "KEYINPUT KeyA bit not mirrored as pressed")
}

func TestKeyUpSetsBit(t *testing.T) {
	regs := io.NewIORegs()
	c := New(regs)
	c.KeyDown(KeyA)
	c.KeyUp(KeyA)
	require.NotZero(t, c.Keys()&KeyA, "KeyA bit not restored after KeyUp")
}

func TestPendingRequiresIMEAndMask(t *testing.T) {
	regs := io.NewIORegs()
	c := New(regs)

	require.False(t, c.Pending(), "Pending() true with IME/IE/IF all zero")

	regs.Set16(io.RegIME, 1)
	c.Request(SourceVBlank)
	require.False(t, c.Pending(), "Pending() true with IE not set, even though IME and IF are")

	regs.Set16(io.RegIE, SourceVBlank)
	require.True(t, c.Pending(), "Pending() false with IME, IE, and IF all agreeing on VBlank")
}

func TestRequestOrsIntoIF(t *testing.T) {
	regs := io.NewIORegs()
	c := New(regs)
	c.Request(SourceVBlank)
	c.Request(SourceHBlank)
	require.Equal(t, SourceVBlank|SourceHBlank, regs.Get16(io.RegIF))
}

func TestResetRestoresKeys(t *testing.T) {
	regs := io.NewIORegs()
	c := New(regs)
	c.KeyDown(KeyA | KeyB)
	c.Reset()
	require.Equal(t, allKeysReleased, c.Keys())
}
