package cpu

// AluOp is an ALU operation, the low nibble of an ALU opcode.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_ADD = AluOp(0) // ADD
	ALU_OP_SUB = AluOp(1) // SUB
	ALU_OP_MUL = AluOp(2) // MUL
	ALU_OP_DIV = AluOp(3) // DIV
	ALU_OP_MOD = AluOp(4) // MOD
	ALU_OP_INC = AluOp(5) // INC
	ALU_OP_DEC = AluOp(6) // DEC
	ALU_OP_CMP = AluOp(7) // CMP
)

// Flag register bits, 00000LGE.
const (
	FL_E = uint8(0b001) // Equal
	FL_G = uint8(0b010) // Greater than
	FL_L = uint8(0b100) // Less than
)

var aluImplemented = map[AluOp]bool{
	ALU_OP_ADD: true,
	ALU_OP_SUB: true,
	ALU_OP_MUL: true,
	ALU_OP_CMP: true,
}

// Alu performs an ALU operation on two registers.
// Arithmetic results are stored in reg_a and wrap at 8 bits.
// CMP only updates the flags register.
func (cpu *Cpu) Alu(op AluOp, reg_a, reg_b uint8) (err error) {
	if int(reg_a) >= len(cpu.Register) {
		err = ErrRegister(reg_a)
		return
	}
	if int(reg_b) >= len(cpu.Register) {
		err = ErrRegister(reg_b)
		return
	}

	a := cpu.Register[reg_a]
	b := cpu.Register[reg_b]

	switch op {
	case ALU_OP_ADD:
		cpu.Register[reg_a] = a + b
	case ALU_OP_SUB:
		cpu.Register[reg_a] = a - b
	case ALU_OP_MUL:
		cpu.Register[reg_a] = a * b
	case ALU_OP_CMP:
		cpu.Fl = 0
		switch {
		case a == b:
			cpu.Fl |= FL_E
		case a > b:
			cpu.Fl |= FL_G
		case a < b:
			cpu.Fl |= FL_L
		}
	default:
		err = ErrAluOp(op)
		return
	}

	return
}
