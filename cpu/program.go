package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Line is one source line of a program, and the bytes it produced.
type Line struct {
	LineNo    int      // Source line number.
	Address   int      // Memory address of the first byte.
	Words     []string // Source words, for listings.
	Bytes     []uint8  // Emitted bytes.
	LinkLabel string   // Label to link into the last byte.
}

// Program is an ordered list of source lines.
type Program struct {
	Lines []Line
}

// Debug locates the line holding an address.
type Debug struct {
	*Line
	Index int
}

// Debug returns the line that emitted the byte at addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Address && addr < line.Address+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: addr - line.Address,
			}
			break
		}
	}

	return
}

// Bytes returns an iterator over each address and byte of the program.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(addr int, value uint8) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Address+n, value) {
					return
				}
			}
		}
	}
}

// Size returns the number of bytes from address 0 to the end of the program.
func (prog *Program) Size() (size int) {
	for addr := range prog.Bytes() {
		size = max(size, addr+1)
	}
	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bins []uint8) {
	bins = make([]uint8, prog.Size())
	for addr, value := range prog.Bytes() {
		bins[addr] = value
	}

	return
}

// WriteTo writes the program in the loader's text format, one binary
// byte per line, with the source words as a comment on each line's first byte.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	emit := func(format string, args ...any) {
		if err != nil {
			return
		}
		var count int
		count, err = fmt.Fprintf(w, format, args...)
		n += int64(count)
	}

	addr := 0
	for _, line := range prog.Lines {
		for ; addr < line.Address; addr++ {
			emit("%08b\n", 0)
		}
		for index, value := range line.Bytes {
			if index == 0 && len(line.Words) > 0 {
				emit("%08b # %v\n", value, strings.Join(line.Words, " "))
			} else {
				emit("%08b\n", value)
			}
			addr++
		}
	}

	return
}
