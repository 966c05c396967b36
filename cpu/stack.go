package cpu

const (
	REG_SP  = 7    // Register holding the stack pointer.
	SP_INIT = 0xf4 // Initial stack pointer, the stack grows down from here.
)

// Sp returns the current stack pointer.
func (cpu *Cpu) Sp() uint8 {
	return cpu.Register[REG_SP]
}

// Push decrements SP, then stores value at the new top of stack.
// Memory is unprotected, so a deep stack may overwrite the program.
func (cpu *Cpu) Push(value uint8) (err error) {
	sp := int(cpu.Register[REG_SP])
	if sp == 0 {
		err = ErrStackFull
		return
	}

	sp--
	err = cpu.Memory.Write(sp, value)
	if err != nil {
		return
	}
	cpu.Register[REG_SP] = uint8(sp)

	return
}

// Pop loads the top of stack, then increments SP.
func (cpu *Cpu) Pop() (value uint8, err error) {
	sp := int(cpu.Register[REG_SP])
	if sp+1 >= MEMORY_SIZE {
		err = ErrStackEmpty
		return
	}

	value, err = cpu.Memory.Read(sp)
	if err != nil {
		return
	}
	cpu.Register[REG_SP] = uint8(sp + 1)

	return
}

// Peek returns the top of stack without popping it.
func (cpu *Cpu) Peek() (value uint8, ok bool) {
	sp := int(cpu.Register[REG_SP])
	if sp >= SP_INIT {
		return
	}

	value, err := cpu.Memory.Read(sp)
	ok = err == nil
	return
}
