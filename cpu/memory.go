package cpu

const (
	MEMORY_SIZE = 256 // Addressable bytes.
)

// Memory is the flat byte addressable store of the machine.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value uint8, err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	value = mem[addr]
	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr int, value uint8) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	mem[addr] = value
	return
}

// Load copies data into memory starting at address 0.
func (mem *Memory) Load(data []uint8) (err error) {
	if len(data) > len(mem) {
		err = ErrProgramSize
		return
	}

	clear(mem[:])
	copy(mem[:], data)

	return
}
