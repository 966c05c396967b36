package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted     = errors.New(f("cpu halted"))
	ErrStackFull  = errors.New(f("stack full"))
	ErrStackEmpty = errors.New(f("stack empty"))

	// Program errors
	ErrProgramSize = errors.New(f("program exceeds memory"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOperandCount       = errors.New(f("wrong number of operands"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrOpcode is an opcode that is not part of the instruction set.
type ErrOpcode Opcode

func (eo ErrOpcode) Error() string {
	return f("unknown opcode %08b", uint8(eo))
}

// ErrAluOp is an ALU operation the ALU does not implement.
type ErrAluOp AluOp

func (ea ErrAluOp) Error() string {
	return f("unsupported alu operation %v", AluOp(ea))
}

// ErrAddress is a memory access outside of the address space.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address %d out of range", int(ea))
}

// ErrRegister is a register operand outside of the register file.
type ErrRegister uint8

func (er ErrRegister) Error() string {
	return f("register %d out of range", uint8(er))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseBinary is a program line that is not a binary byte literal.
type ErrParseBinary string

func (err ErrParseBinary) Error() string {
	return f("'%v' is not a binary byte", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
