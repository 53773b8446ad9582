// Package cpu implements the processor and assembler for the decimal
// instruction set simulator.
//
// The CPU has a program counter, an instruction register, four integer
// registers (r0-r3) and 256 memory cells shared by code and data. Its
// five instructions are packed into decimal machine words:
//
//	HALT            0
//	LOAD  r, addr   1000 + r*100 + addr
//	STORE r, addr   2000 + r*100 + addr
//	ADD   dst, src  300 + dst*10 + src
//	JUMP  addr      4000 + addr
//
// Words carry no format tag; Decode recovers the layout from the
// magnitude of the word alone.
//
// The assembler translates one mnemonic per line into a word, supporting
// comments and compile-time $(...) expression evaluation.
package cpu
