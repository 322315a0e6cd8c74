// Package cheat implements the memory-poke cheat primitive (spec §6): a
// parsed list of raw/gameshark/codebreaker entries applied once per
// VBlank, plus YAML persistence for the entry list.
package cheat

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names a cheat code dialect.
type Kind string

const (
	KindRaw         Kind = "raw"
	KindGameShark   Kind = "gameshark"
	KindCodeBreaker Kind = "codebreaker"
)

// Cheat is one user-entered cheat: a name, a raw text payload (one poke
// per line), and a dialect. Parsing is best-effort; unparseable lines are
// silently ignored (spec §6).
type Cheat struct {
	Name    string `yaml:"name"`
	Code    string `yaml:"code"`
	Enabled bool   `yaml:"enabled"`
	Kind    Kind   `yaml:"kind"`
}

// Writer is the bus surface cheats poke through.
type Writer interface {
	Write8(addr uint32, value uint8)
	Write16(addr uint32, value uint16)
	Write32(addr uint32, value uint32)
}

// Engine owns the cheat list and applies it against a Writer.
type Engine struct {
	bus    Writer
	Cheats []Cheat
}

func New(bus Writer) *Engine {
	return &Engine{bus: bus}
}

// Add appends a new enabled cheat.
func (e *Engine) Add(name, code string, kind Kind) {
	e.Cheats = append(e.Cheats, Cheat{Name: name, Code: code, Enabled: true, Kind: kind})
}

// Remove deletes the cheat at index i, if valid.
func (e *Engine) Remove(i int) {
	if i < 0 || i >= len(e.Cheats) {
		return
	}
	e.Cheats = append(e.Cheats[:i], e.Cheats[i+1:]...)
}

// Toggle flips the enabled flag of the cheat at index i, if valid.
func (e *Engine) Toggle(i int) {
	if i < 0 || i >= len(e.Cheats) {
		return
	}
	e.Cheats[i].Enabled = !e.Cheats[i].Enabled
}

// ApplyCheats runs every enabled cheat's lines once. Called by the
// scheduler at VBlank entry (spec §4.5).
func (e *Engine) ApplyCheats() {
	for _, c := range e.Cheats {
		if !c.Enabled {
			continue
		}
		body := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(c.Code), "-", ""))
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			switch c.Kind {
			case KindGameShark:
				e.applyGameShark(line)
			case KindCodeBreaker:
				e.applyCodeBreaker(line)
			default:
				e.applyRaw(line)
			}
		}
	}
}

// applyRaw handles `ADDR:VAL`, width inferred from the value's magnitude.
func (e *Engine) applyRaw(line string) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return
	}
	addr, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 16, 32)
	if err != nil {
		return
	}
	val, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 16, 32)
	if err != nil {
		return
	}
	switch {
	case val <= 0xFF:
		e.bus.Write8(uint32(addr), uint8(val))
	case val <= 0xFFFF:
		e.bus.Write16(uint32(addr), uint16(val))
	default:
		e.bus.Write32(uint32(addr), uint32(val))
	}
}

// applyGameShark handles two hex tokens: high byte of the first selects
// width (0=byte,1=half,2=word), low 24 bits are the address (relocated to
// EWRAM if it falls below the EWRAM base).
func (e *Engine) applyGameShark(line string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return
	}
	c1, err1 := strconv.ParseUint(fields[0], 16, 32)
	c2, err2 := strconv.ParseUint(fields[1], 16, 32)
	if err1 != nil || err2 != nil {
		return
	}
	width := (c1 >> 24) & 0xFF
	addr := uint32(c1 & 0x00FFFFFF)
	if addr < 0x02000000 {
		addr += 0x02000000
	}
	switch width {
	case 0:
		e.bus.Write8(addr, uint8(c2))
	case 1:
		e.bus.Write16(addr, uint16(c2))
	case 2:
		e.bus.Write32(addr, uint32(c2))
	}
}

// applyCodeBreaker handles two hex tokens: high nibble of the first
// selects width (0=word,1=half,2=byte), low 28 bits are the address.
func (e *Engine) applyCodeBreaker(line string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return
	}
	c1, err1 := strconv.ParseUint(fields[0], 16, 32)
	c2, err2 := strconv.ParseUint(fields[1], 16, 32)
	if err1 != nil || err2 != nil {
		return
	}
	width := (c1 >> 28) & 0xF
	addr := uint32(c1 & 0x0FFFFFFF)
	switch width {
	case 0:
		e.bus.Write32(addr, uint32(c2))
	case 1:
		e.bus.Write16(addr, uint16(c2))
	case 2:
		e.bus.Write8(addr, uint8(c2))
	}
}

// LoadFile replaces the cheat list with one decoded from a YAML file.
func (e *Engine) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var list []Cheat
	if err := yaml.Unmarshal(data, &list); err != nil {
		return err
	}
	e.Cheats = list
	return nil
}

// SaveFile writes the current cheat list as YAML.
func (e *Engine) SaveFile(path string) error {
	data, err := yaml.Marshal(e.Cheats)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
