// Package savestate implements save-state capture/restore and the
// frame-boundary rewind buffer (spec §5). A capture serializes all CPU
// registers, CPSR, every banked SPSR, the halted flag, and the full
// contents of EWRAM/IWRAM/I/O/palette/VRAM/OAM/SRAM; a restore replays
// those bytes verbatim and forces a pipeline flush. States are gob-encoded
// and zstd-compressed rather than the original's json+zlib, matching this
// stack's existing compression dependency.
package savestate

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"GoBA/internal/cartridge"
	"GoBA/internal/cpu"
	"GoBA/internal/io"
	"GoBA/internal/memory"
	"GoBA/internal/ppu"
)

// maxRewindFrames bounds the rewind ring to the last ~5 seconds at 60fps,
// matching the source's deque(maxlen=300).
const maxRewindFrames = 300

// snapshot is the gob-serializable capture of everything spec §5 names.
type snapshot struct {
	CPURegs cpu.Snapshot
	Halted  bool

	EWRAM   []byte
	IWRAM   []byte
	IORegs  []byte
	Palette []byte
	VRAM    []byte
	OAM     []byte
	SRAM    []byte
}

// Machine is the set of components a save state captures and restores.
type Machine struct {
	CPU       *cpu.CPU
	EWRAM     *memory.EWRAM
	IWRAM     *memory.IWRAM
	IORegs    *io.IORegs
	PPU       *ppu.PPU
	Cartridge *cartridge.Cartridge
}

func (m *Machine) capture() snapshot {
	return snapshot{
		CPURegs: m.CPU.Regs.Snapshot(),
		Halted:  m.CPU.IsHalted(),
		EWRAM:   append([]byte(nil), m.EWRAM.Bytes()...),
		IWRAM:   append([]byte(nil), m.IWRAM.Bytes()...),
		IORegs:  append([]byte(nil), m.IORegs.Bytes()...),
		Palette: append([]byte(nil), m.PPU.Palette[:]...),
		VRAM:    append([]byte(nil), m.PPU.VRAM[:]...),
		OAM:     append([]byte(nil), m.PPU.OAM[:]...),
		SRAM:    append([]byte(nil), m.Cartridge.SRAM[:]...),
	}
}

// restore replays a snapshot verbatim and forces a pipeline flush so the
// prefetch buffer is reconstructed from the restored memory (spec §5).
// The saved r15 already sits two instruction widths past the prefetch
// window, so the flush starts that far back and leaves r15 as saved.
func (m *Machine) restore(s snapshot) {
	m.CPU.Regs.Restore(s.CPURegs)
	m.CPU.SetHalted(s.Halted)
	m.EWRAM.LoadBytes(s.EWRAM)
	m.IWRAM.LoadBytes(s.IWRAM)
	m.IORegs.LoadBytes(s.IORegs)
	copy(m.PPU.Palette[:], s.Palette)
	copy(m.PPU.VRAM[:], s.VRAM)
	copy(m.PPU.OAM[:], s.OAM)
	copy(m.Cartridge.SRAM[:], s.SRAM)
	width := uint32(4)
	if m.CPU.Regs.IsThumb() {
		width = 2
	}
	m.CPU.Regs.R[15] -= 2 * width
	m.CPU.FlushPipeline()
}

// Manager owns named save states and the rewind ring.
type Manager struct {
	machine *Machine
	states  map[string][]byte
	rewind  [][]byte
}

func New(m *Machine) *Manager {
	return &Manager{machine: m, states: make(map[string][]byte)}
}

func encode(s snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(buf.Bytes(), nil), nil
}

func decode(blob []byte) (snapshot, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return snapshot{}, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return snapshot{}, err
	}
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&s); err != nil {
		return snapshot{}, err
	}
	return s, nil
}

// SaveState captures the current machine state under name.
func (mgr *Manager) SaveState(name string) error {
	blob, err := encode(mgr.machine.capture())
	if err != nil {
		return err
	}
	mgr.states[name] = blob
	return nil
}

// LoadState restores a previously captured named state.
func (mgr *Manager) LoadState(name string) error {
	blob, ok := mgr.states[name]
	if !ok {
		return fmt.Errorf("savestate: no state named %q", name)
	}
	s, err := decode(blob)
	if err != nil {
		return err
	}
	mgr.machine.restore(s)
	return nil
}

// SaveToFile captures (if not already captured) and writes a named state
// to disk as an opaque compressed blob (spec §6).
func (mgr *Manager) SaveToFile(name, path string) error {
	if _, ok := mgr.states[name]; !ok {
		if err := mgr.SaveState(name); err != nil {
			return err
		}
	}
	return os.WriteFile(path, mgr.states[name], 0o644)
}

// LoadFromFile reads a state blob from disk and restores it.
func (mgr *Manager) LoadFromFile(path, name string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mgr.states[name] = blob
	return mgr.LoadState(name)
}

// UpdateRewind appends a frame-boundary capture to the bounded rewind
// ring. Called by the scheduler on every frame wrap.
func (mgr *Manager) UpdateRewind() {
	blob, err := encode(mgr.machine.capture())
	if err != nil {
		return
	}
	mgr.rewind = append(mgr.rewind, blob)
	if len(mgr.rewind) > maxRewindFrames {
		mgr.rewind = mgr.rewind[len(mgr.rewind)-maxRewindFrames:]
	}
}

// Rewind pops f frames from the rewind buffer and restores the last
// remaining one, reporting whether a restore happened (spec §5).
func (mgr *Manager) Rewind(f int) bool {
	if f < 1 {
		f = 1
	}
	if len(mgr.rewind) < f {
		return false
	}
	mgr.rewind = mgr.rewind[:len(mgr.rewind)-f]
	if len(mgr.rewind) == 0 {
		return false
	}
	s, err := decode(mgr.rewind[len(mgr.rewind)-1])
	if err != nil {
		return false
	}
	mgr.machine.restore(s)
	return true
}
