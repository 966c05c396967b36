package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader reads programs in the LS-8 text format: one binary byte per line,
// with '#' comments and blank lines ignored.
type Loader struct {
	Verbose bool // If set, verbosely logs each loaded byte.
}

// Parse parses an input stream into a Program with one Line per byte.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	addr := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		line = strings.TrimSpace(text)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		literal, comment, _ := strings.Cut(line, "#")
		literal = strings.TrimSpace(literal)

		var value uint64
		value, err = strconv.ParseUint(literal, 2, 8)
		if err != nil {
			err = ErrParseBinary(literal)
			return
		}

		if addr >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}

		if ld.Verbose {
			log.Printf("%v: %02x: %08b", lineno, addr, value)
		}

		// Keep the annotation, so listings survive a load.
		prog.Lines = append(prog.Lines, Line{
			LineNo:  lineno,
			Address: addr,
			Words:   strings.Fields(comment),
			Bytes:   []uint8{uint8(value)},
		})
		addr++
	}

	err = scanner.Err()
	if err != nil {
		// The line that could not be read.
		lineno += 1
		line = ""
	}

	return
}
