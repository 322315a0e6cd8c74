package memory

// IWRAM is the 32 KiB on-chip work RAM, readable/writable at all widths.
type IWRAM struct {
	data [IWRAM_SIZE]byte
}

func NewIWRAM() *IWRAM {
	return &IWRAM{}
}

func (i *IWRAM) Read8(addr uint32) uint8 {
	return i.data[addr%IWRAM_SIZE]
}

func (i *IWRAM) Write8(addr uint32, value uint8) {
	i.data[addr%IWRAM_SIZE] = value
}

// Bytes exposes the raw backing array for save-state serialization.
func (i *IWRAM) Bytes() []byte { return i.data[:] }

// LoadBytes restores the raw backing array from a save-state blob.
func (i *IWRAM) LoadBytes(data []byte) { copy(i.data[:], data) }
