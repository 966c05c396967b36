// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = func() map[string]string {
	equ := maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return equ
}()

var (
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass assembler for LS-8 mnemonic source.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Line    []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the byte value of a number.
// Negative numbers down to -128 are stored as two's complement.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil || v64 < -0x80 || v64 > 0xff {
		err = ErrParseNumber(word)
		return
	}

	value = uint8(v64)
	return
}

// registerOf returns the register index of a register name.
func (asm *Assembler) registerOf(word string) (reg uint8, err error) {
	if len(word) != 2 || (word[0] != 'R' && word[0] != 'r') {
		err = ErrRegisterInvalid
		return
	}

	index := int(word[1] - '0')
	if index < 0 || index >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	reg = uint8(index)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 || !reLabel.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddress()
		words = words[1:]
	}

	return
}

// currentAddress gets the address of the next emitted byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Line) == 0 {
		return 0
	}

	last := asm.Line[len(asm.Line)-1]

	return last.Address + len(last.Bytes)
}

// immediate parses an immediate operand, which is either a number or
// a label to be linked once all labels are known.
func (asm *Assembler) immediate(word string) (value uint8, label string, err error) {
	value, err = asm.valueOf(word)
	if err != nil && reLabel.MatchString(word) {
		err = nil
		label = word
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []uint8
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := slices.Clone(words)

	defer func() {
		if err != nil || len(bytes) == 0 {
			return
		}
		if asm.currentAddress()+len(bytes) > MEMORY_SIZE {
			err = ErrProgramSize
			return
		}
		line := Line{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Bytes: bytes, LinkLabel: label}
		asm.Line = append(asm.Line, line)
	}()

	if strings.EqualFold(words[0], "DB") {
		args := words[1:]
		if len(args) == 0 {
			err = ErrOperandCount
			return
		}
		for _, word := range args {
			var value uint8
			var link string
			value, link, err = asm.immediate(word)
			if err != nil {
				return
			}
			if len(link) > 0 && len(args) != 1 {
				err = ErrOperandCount
				return
			}
			label = link
			bytes = append(bytes, value)
		}
		return
	}

	op, ok := LookupOpcode(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	kinds := op.Args()
	if len(args) != len(kinds) {
		err = ErrOperandCount
		return
	}

	bytes = append(bytes, uint8(op))
	for n, kind := range kinds {
		var value uint8
		switch kind {
		case ARG_REG:
			value, err = asm.registerOf(args[n])
		case ARG_IMM:
			value, label, err = asm.immediate(args[n])
		}
		if err != nil {
			return
		}
		bytes = append(bytes, value)
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Line = asm.Line[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		lineno += 1
		line = ""
		return
	}

	// Final linking of labels.
	for n := range asm.Line {
		ln := &asm.Line[n]

		if len(ln.LinkLabel) == 0 {
			continue
		}
		addr, ok := asm.Label[ln.LinkLabel]
		if !ok {
			lineno = ln.LineNo
			line = strings.Join(ln.Words, " ")
			err = ErrLabelMissing(ln.LinkLabel)
			return
		}
		ln.Bytes[len(ln.Bytes)-1] = uint8(addr)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Line),
	}

	return
}
