// Package cpu implements the processor, loader and assembler for the LS-8.
//
// The LS-8 is an 8-bit machine with 256 bytes of memory, eight 8-bit
// registers (r0-r7, with r7 as the stack pointer), a program counter, and a
// flags register set by CMP. Opcodes encode their own operand count in their
// top two bits, which the fetch-decode-execute loop uses to advance the PC.
//
// The loader reads the text program format (one binary byte per line). The
// assembler provides a mnemonic language for the same instruction set,
// supporting labels, equates, and compile-time expression evaluation.
package cpu
