package main

import (
	"io"

	"github.com/jcorbin/tinyvm/internal/fileinput"
	"github.com/jcorbin/tinyvm/internal/flushio"
)

// nativeFunc is a host-bound function reachable from the interpreted
// language via CCALL. Unlike the original's arity-switched C function
// pointer trampoline, Go slices make the 0..7 argument cap a simple length
// check rather than a calling-convention hazard (see SPEC_FULL.md §6).
type nativeFunc func(args []int32) int32

type nativeBinding struct {
	name  string
	arity byte
	fn    nativeFunc
}

// Interpreter is the single globally-mutable value that owns an arena, its
// lexer/compiler/assembler state, the VM's operand stack, and the
// latched complaint -- per the design note, multiple independent
// Interpreters are permitted but never share state.
type Interpreter struct {
	logging

	arena *Arena
	comp  complaint
	asm   *assembler
	lex   *lexer

	in  fileinput.Input
	out flushio.WriteFlusher

	natives []nativeBinding

	curTok token // one token of lookahead shared by the lexer and compiler

	pc      uint // program counter, byte offset into the arena's code region
	sp      uint // operand stack pointer, byte offset, grows downward
	bp      uint // current frame base pointer
	codeEnd uint // stack floor for the run in progress: code_idx at start

	closers []io.Closer
}

// newInterpreter wires together a fresh Arena and its lexer/assembler over
// the given capacity. Callers normally go through New (api.go), which
// additionally applies Options.
func newInterpreter(capacity int) *Interpreter {
	it := &Interpreter{arena: NewArena(capacity)}
	it.asm = newAssembler(it.arena, &it.comp)
	it.lex = newLexer(&it.in, it.arena, &it.comp)
	return it
}

// Initialize (re)establishes the interpreter's starting state: the arena
// is reset, the reserved globals are bound as lookup-able names, the
// operand stack pointer is parked at the current dictionary cursor, and the
// default native bindings (echoString) are registered. This mirrors the
// original's wren_initialize, including the default demo native.
func (it *Interpreter) Initialize() {
	it.arena.initialize()
	it.comp.Clear()
	it.asm.prevInstruc = 0
	it.natives = it.natives[:0]

	it.bindGlobal("cp", globalCP)
	it.bindGlobal("dp", globalDP)
	it.bindGlobal("c0", globalC0)
	it.bindGlobal("d0", globalD0)

	it.sp = it.arena.dictIdx()
	it.bp = it.sp

	it.BindCFunction("echo_string", it.echoString, 1)
}

func (it *Interpreter) bindGlobal(name string, offset uint16) {
	if _, ok := it.arena.bind([]byte(name), kindGlobal, offset); !ok {
		it.comp.Latch(errOutOfArena)
	}
}

// Arena exposes the interpreter's arena for diagnostics (dumper.go).
func (it *Interpreter) Arena() *Arena { return it.arena }

// Complaint returns the currently latched diagnostic message, if any.
func (it *Interpreter) Complaint() string { return it.comp.Get() }

// Close releases any resources registered by Options (output files,
// piped input writers, ...).
func (it *Interpreter) Close() error {
	if it.out != nil {
		it.out.Flush()
	}
	var first error
	for _, c := range it.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
