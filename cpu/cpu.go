package cpu

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"strings"
)

const (
	REGISTER_COUNT = 8 // General purpose registers, R7 is the SP.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"SP_INIT":     fmt.Sprintf("0x%02x", SP_INIT),
	"FL_E":        fmt.Sprintf("0b%03b", FL_E),
	"FL_G":        fmt.Sprintf("0b%03b", FL_G),
	"FL_L":        fmt.Sprintf("0b%03b", FL_L),
}

// Cpu is the complete state of an LS-8 machine.
type Cpu struct {
	Verbose bool      // Set to enable verbose logging.
	Output  io.Writer // PRN destination.

	Memory   Memory                // Main memory.
	Register [REGISTER_COUNT]uint8 // Register file.
	Pc       int                   // Program counter.
	Fl       uint8                 // Flags register, 00000LGE.
	Halted   bool                  // Set by HLT.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU, writing PRN output to output.
func NewCpu(output io.Writer) (cpu *Cpu) {
	cpu = &Cpu{
		Output: output,
	}

	cpu.Reset(nil)

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, then loads the program image at address 0.
// - Clears the registers and flags, and sets SP to SP_INIT.
// - Zeros the tick counter.
func (cpu *Cpu) Reset(image []uint8) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset, %d byte image", len(image))
	}

	err = cpu.Memory.Load(image)
	if err != nil {
		return
	}

	clear(cpu.Register[:])
	cpu.Register[REG_SP] = SP_INIT
	cpu.Pc = 0
	cpu.Fl = 0
	cpu.Halted = false
	cpu.Ticks = 0

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "fl",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"stack",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "fl":
			strval = fmt.Sprintf("%08b", cpu.Fl)
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7":
			strval = fmt.Sprintf("%02X", cpu.Register[reg[1]-'0'])
		case "stack":
			val, ok := cpu.Peek()
			if ok {
				strval = fmt.Sprintf("%02X", val)
			} else {
				strval = "--"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Trace returns a one line summary of the PC, the bytes at the PC, and
// the register file. It has no effect on the machine state.
func (cpu *Cpu) Trace() string {
	var text strings.Builder

	fmt.Fprintf(&text, "TRACE: %02X |", cpu.Pc)
	for n := range 3 {
		value, err := cpu.Memory.Read(cpu.Pc + n)
		if err != nil {
			text.WriteString(" --")
		} else {
			fmt.Fprintf(&text, " %02X", value)
		}
	}
	text.WriteString(" |")
	for _, value := range cpu.Register {
		fmt.Fprintf(&text, " %02X", value)
	}

	return text.String()
}

// FetchCode fetches the instruction at the PC, and exactly as many
// operand bytes as its opcode declares.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	value, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	code.Opcode = Opcode(value)
	// Unlisted ALU opcodes go to the ALU, which rejects the operation.
	if !code.Opcode.Known() {
		if !code.Opcode.IsAlu() || aluImplemented[code.Opcode.AluOp()] {
			err = ErrOpcode(code.Opcode)
			return
		}
	}

	for n := range code.Opcode.Operands() {
		value, err = cpu.Memory.Read(cpu.Pc + 1 + n)
		if err != nil {
			return
		}
		code.Operands = append(code.Operands, value)
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Verbose {
		log.Print(cpu.Trace())
	}

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)

	return
}

// register returns the register index held in an operand.
func (cpu *Cpu) register(operand uint8) (reg uint8, err error) {
	if int(operand) >= len(cpu.Register) {
		err = ErrRegister(operand)
		return
	}

	reg = operand
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, code)
	}

	op := code.Opcode
	if len(code.Operands) != op.Operands() {
		err = ErrOpcode(op)
		return
	}

	next_pc := cpu.Pc + 1 + op.Operands()

	// Every known instruction with operands takes a register first.
	var reg uint8
	if len(code.Operands) > 0 {
		reg, err = cpu.register(code.Operands[0])
		if err != nil {
			return
		}
	}

	switch {
	case op.IsAlu():
		reg_b := reg
		if len(code.Operands) > 1 {
			reg_b = code.Operands[1]
		}
		err = cpu.Alu(op.AluOp(), reg, reg_b)
	case op.SetsPc():
		next_pc, err = cpu.transfer(op, reg, next_pc)
	case op == HLT:
		cpu.Halted = true
		next_pc = 0
	case op == LDI:
		cpu.Register[reg] = code.Operands[1]
	case op == PRN:
		_, err = fmt.Fprintf(cpu.Output, "%d\n", cpu.Register[reg])
	case op == PUSH:
		err = cpu.Push(cpu.Register[reg])
	case op == POP:
		var value uint8
		value, err = cpu.Pop()
		if err == nil {
			cpu.Register[reg] = value
		}
	default:
		err = ErrOpcode(op)
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// transfer returns the PC after a control transfer instruction.
// skip_pc is the address of the following instruction.
func (cpu *Cpu) transfer(op Opcode, reg uint8, skip_pc int) (pc int, err error) {
	pc = skip_pc

	switch op {
	case CALL:
		if skip_pc >= MEMORY_SIZE {
			err = ErrAddress(skip_pc)
			return
		}
		err = cpu.Push(uint8(skip_pc))
		pc = int(cpu.Register[reg])
	case RET:
		var value uint8
		value, err = cpu.Pop()
		pc = int(value)
	case JMP:
		pc = int(cpu.Register[reg])
	case JEQ:
		if (cpu.Fl & FL_E) != 0 {
			pc = int(cpu.Register[reg])
		}
	case JNE:
		if (cpu.Fl & FL_E) == 0 {
			pc = int(cpu.Register[reg])
		}
	default:
		err = ErrOpcode(op)
	}

	return
}
