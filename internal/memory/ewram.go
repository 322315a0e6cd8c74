package memory

// EWRAM is the 256 KiB external work RAM, readable/writable at all widths.
type EWRAM struct {
	data [EWRAM_SIZE]byte
}

func NewEWRAM() *EWRAM {
	return &EWRAM{}
}

func (e *EWRAM) Read8(addr uint32) uint8 {
	return e.data[addr%EWRAM_SIZE]
}

func (e *EWRAM) Write8(addr uint32, value uint8) {
	e.data[addr%EWRAM_SIZE] = value
}

// Bytes exposes the raw backing array for save-state serialization.
func (e *EWRAM) Bytes() []byte { return e.data[:] }

// LoadBytes restores the raw backing array from a save-state blob.
func (e *EWRAM) LoadBytes(data []byte) { copy(e.data[:], data) }
