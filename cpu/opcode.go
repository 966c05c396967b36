package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode is an instruction byte, laid out as AABCDDDD:
//
//	AA   - number of operand bytes that follow
//	B    - handled by the ALU, DDDD is the AluOp
//	C    - instruction sets the PC itself
//	DDDD - instruction identifier
type Opcode uint8

const (
	HLT  = Opcode(0b00000001)
	LDI  = Opcode(0b10000010)
	PRN  = Opcode(0b01000111)
	ADD  = Opcode(0b10100000)
	SUB  = Opcode(0b10100001)
	MUL  = Opcode(0b10100010)
	CMP  = Opcode(0b10100111)
	PUSH = Opcode(0b01000101)
	POP  = Opcode(0b01000110)
	CALL = Opcode(0b01010000)
	RET  = Opcode(0b00010001)
	JMP  = Opcode(0b01010100)
	JEQ  = Opcode(0b01010101)
	JNE  = Opcode(0b01010110)
)

const (
	OPCODE_OPERANDS_SHIFT = 6
	OPCODE_ALU            = Opcode(1 << 5)
	OPCODE_SETS_PC        = Opcode(1 << 4)
	OPCODE_ID_MASK        = Opcode(0xf)
)

// ArgKind is the kind of an operand byte.
type ArgKind int

const (
	ARG_REG = ArgKind(iota) // register index
	ARG_IMM                 // immediate value
)

type opcodeInfo struct {
	Name string
	Args []ArgKind
}

var opcodeTable = map[Opcode]opcodeInfo{
	HLT:  {"HLT", nil},
	LDI:  {"LDI", []ArgKind{ARG_REG, ARG_IMM}},
	PRN:  {"PRN", []ArgKind{ARG_REG}},
	ADD:  {"ADD", []ArgKind{ARG_REG, ARG_REG}},
	SUB:  {"SUB", []ArgKind{ARG_REG, ARG_REG}},
	MUL:  {"MUL", []ArgKind{ARG_REG, ARG_REG}},
	CMP:  {"CMP", []ArgKind{ARG_REG, ARG_REG}},
	PUSH: {"PUSH", []ArgKind{ARG_REG}},
	POP:  {"POP", []ArgKind{ARG_REG}},
	CALL: {"CALL", []ArgKind{ARG_REG}},
	RET:  {"RET", nil},
	JMP:  {"JMP", []ArgKind{ARG_REG}},
	JEQ:  {"JEQ", []ArgKind{ARG_REG}},
	JNE:  {"JNE", []ArgKind{ARG_REG}},
}

// mnemonicMap is the reverse of opcodeTable, keyed by upper case mnemonic.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := make(map[string]Opcode, len(opcodeTable))
	for op, info := range opcodeTable {
		mnemonics[info.Name] = op
	}
	return mnemonics
}()

// LookupOpcode returns the opcode for a mnemonic, in any case.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[strings.ToUpper(mnemonic)]
	return
}

// OpcodeDefines returns an OP_<MNEMONIC> define for every known opcode.
func OpcodeDefines() iter.Seq2[string, string] {
	return func(yield func(name, value string) bool) {
		for op, info := range opcodeTable {
			if !yield("OP_"+info.Name, fmt.Sprintf("0x%02x", uint8(op))) {
				return
			}
		}
	}
}

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op >> OPCODE_OPERANDS_SHIFT)
}

// IsAlu returns true if the opcode is executed by the ALU.
func (op Opcode) IsAlu() bool {
	return (op & OPCODE_ALU) != 0
}

// SetsPc returns true if the instruction writes the PC itself.
func (op Opcode) SetsPc() bool {
	return (op & OPCODE_SETS_PC) != 0
}

// AluOp returns the ALU operation encoded in an ALU opcode.
func (op Opcode) AluOp() AluOp {
	return AluOp(op & OPCODE_ID_MASK)
}

// Known returns true if the opcode is in the instruction table.
func (op Opcode) Known() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Args returns the operand kinds of a known opcode.
func (op Opcode) Args() []ArgKind {
	return opcodeTable[op].Args
}

func (op Opcode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("0b%08b", uint8(op))
	}
	return info.Name
}

// Code is a decoded instruction: the opcode and its operand bytes.
type Code struct {
	Opcode   Opcode
	Operands []uint8
}

// Bytes returns the encoded instruction.
func (code Code) Bytes() []uint8 {
	return append([]uint8{uint8(code.Opcode)}, code.Operands...)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	args := code.Opcode.Args()
	words := make([]string, len(code.Operands))
	for n, operand := range code.Operands {
		if n < len(args) && args[n] == ARG_REG {
			words[n] = fmt.Sprintf("R%d", operand)
		} else {
			words[n] = fmt.Sprintf("%d", operand)
		}
	}

	if len(words) == 0 {
		return code.Opcode.String()
	}

	return code.Opcode.String() + " " + strings.Join(words, ",")
}
