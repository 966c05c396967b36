package cpu

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, asm *Assembler, program []string) (prog *Program) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}

	return
}

func binaryEqual(t *testing.T, expected []uint8, prog *Program) {
	if diff := cmp.Diff(expected, prog.Binary()); diff != "" {
		t.Errorf("binary mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("256", asm.Equate["MEMORY_SIZE"])
	assert.Equal("0xf4", asm.Equate["SP_INIT"])
	assert.Equal("0b001", asm.Equate["FL_E"])
}

func TestAssemblerPrint8(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"; print8",
		"LDI R0,8",
		"  prn   r0 ; print it",
		"HLT",
	}

	prog := assemble(t, asm, program)
	binaryEqual(t, []uint8{0x82, 0x00, 0x08, 0x47, 0x00, 0x01}, prog)

	expected := []Line{
		{LineNo: 2, Address: 0, Words: []string{"LDI", "R0", "8"}, Bytes: []uint8{0x82, 0x00, 0x08}},
		{LineNo: 3, Address: 3, Words: []string{"prn", "r0"}, Bytes: []uint8{0x47, 0x00}},
		{LineNo: 4, Address: 5, Words: []string{"HLT"}, Bytes: []uint8{0x01}},
	}
	assert.Equal(expected, prog.Lines)
}

func TestAssemblerOperands(t *testing.T) {
	asm := &Assembler{}
	program := []string{
		"LDI R1, 0x10",
		"LDI R2 0b101",
		"LDI R3,-1",
		"ADD R1,R2",
		"SUB R1,R2",
		"MUL R1,R2",
		"CMP R1,R2",
		"PUSH R1",
		"POP R7",
		"CALL R1",
		"RET",
		"JMP R1",
		"JEQ R2",
		"JNE R3",
		"DB 1, 2 0xff",
	}

	prog := assemble(t, asm, program)
	binaryEqual(t, []uint8{
		0x82, 1, 0x10,
		0x82, 2, 5,
		0x82, 3, 0xff,
		0xa0, 1, 2,
		0xa1, 1, 2,
		0xa2, 1, 2,
		0xa7, 1, 2,
		0x45, 1,
		0x46, 7,
		0x50, 1,
		0x11,
		0x54, 1,
		0x55, 2,
		0x56, 3,
		1, 2, 0xff,
	}, prog)
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"        LDI R1,Sub",   // 0
		"        LDI R2,Data",  // 3
		"        CALL R1",      // 6
		"        HLT",          // 8
		"Sub:    PRN R0",       // 9
		"        RET",          // 11
		"Data: Also: DB 0x2a",  // 12
		"        DB End",       // 13
		"End:",                 // 14
	}

	prog := assemble(t, asm, program)
	binaryEqual(t, []uint8{
		0x82, 1, 9,
		0x82, 2, 12,
		0x50, 1,
		0x01,
		0x47, 0,
		0x11,
		0x2a,
		14,
	}, prog)

	assert.Equal(9, asm.Label["Sub"])
	assert.Equal(12, asm.Label["Data"])
	assert.Equal(12, asm.Label["Also"])
	assert.Equal(14, asm.Label["End"])
	assert.Equal("Sub", prog.Lines[0].LinkLabel)
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("OP_HLT", "0x01")
	program := []string{
		".equ CONST_10 0x10",
		".equ COUNTER R3",
		"LDI R0,CONST_10",
		"LDI R1,$(CONST_10 + CONST_10)",
		".equ CONST_30 $(2 * CONST_10 + CONST_10)",
		"LDI COUNTER,CONST_30",
		"LDI R4,$(LINENO * 8)",
		"LDI R5,$(SP_INIT - 4)",
		"DB OP_HLT",
	}

	prog := assemble(t, asm, program)
	binaryEqual(t, []uint8{
		0x82, 0, 0x10,
		0x82, 1, 0x20,
		0x82, 3, 0x30,
		0x82, 4, 56,
		0x82, 5, 0xf0,
		0x01,
	}, prog)

	assert.Equal("48", asm.Equate["CONST_30"])
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"instruction", []string{"HLT", "FOO R0"}, 2, ErrInstructionInvalid},
		{"unsupported", []string{"DIV R0,R1"}, 1, ErrInstructionInvalid},
		{"too_few", []string{"LDI R0"}, 1, ErrOperandCount},
		{"too_many", []string{"HLT R0"}, 1, ErrOperandCount},
		{"db_empty", []string{"DB"}, 1, ErrOperandCount},
		{"db_labels", []string{"X: DB X, 1"}, 1, ErrOperandCount},
		{"register", []string{"PRN R8"}, 1, ErrRegisterInvalid},
		{"register_name", []string{"PRN X0"}, 1, ErrRegisterInvalid},
		{"number", []string{"LDI R0,0x100"}, 1, ErrParseNumber("0x100")},
		{"negative", []string{"LDI R0,-129"}, 1, ErrParseNumber("-129")},
		{"label_missing", []string{"LDI R0,Nowhere", "HLT"}, 1, ErrLabelMissing("Nowhere")},
		{"label_duplicate", []string{"A: HLT", "A: HLT"}, 2, ErrLabelDuplicate},
		{"label_invalid", []string{"1A: HLT"}, 1, ErrLabelInvalid},
		{"equ_syntax", []string{".equ X"}, 1, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ X 1", ".equ X 2"}, 2, ErrEquateDuplicate},
		{"expression", []string{"LDI R0,$(1 +)"}, 1, ErrParseExpression("1 +")},
		{"expression_type", []string{"LDI R0,$(\"a\")"}, 1, ErrParseExpression("\"a\"")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerTooLarge(t *testing.T) {
	assert := assert.New(t)

	program := make([]string, MEMORY_SIZE/2)
	for n := range program {
		program[n] = "DB 0 0"
	}

	asm := &Assembler{}
	prog := assemble(t, asm, program)
	assert.Equal(MEMORY_SIZE, prog.Size())

	program = append(program, "HLT")
	_, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.ErrorIs(err, ErrProgramSize)
}

func TestAssemblerReuse(t *testing.T) {
	asm := &Assembler{}

	assemble(t, asm, []string{".equ X 1", "A: LDI R0,X"})
	prog := assemble(t, asm, []string{".equ X 2", "A: LDI R0,X"})

	binaryEqual(t, []uint8{0x82, 0, 2}, prog)
}

func TestAssemblerLineTooLong(t *testing.T) {
	assert := assert.New(t)

	text := "HLT\nHLT\n; " + strings.Repeat("x", bufio.MaxScanTokenSize) + "\n"

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(text))
	assert.ErrorIs(err, bufio.ErrTooLong)

	var syntax *ErrSyntax
	if assert.True(errors.As(err, &syntax)) {
		assert.Equal(3, syntax.LineNo)
		assert.Equal("", syntax.Line)
	}
}
