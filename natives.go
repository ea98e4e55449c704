package main

import "fmt"

// maxNativeArity bounds a CCALL's argument count the same way a
// procedure's or primitive's arity is bounded -- one byte, and in
// practice never more than a handful of arguments.
const maxNativeArity = 7

// BindCFunction registers fn as a new native reachable from the
// interpreted language by name, writing a binding cell (arity byte,
// handle into it.natives) into the code region the same way a procedure
// reserves its arity byte, and binding name to it as a kindCFunction
// dictionary entry.
func (it *Interpreter) BindCFunction(name string, fn nativeFunc, arity int) error {
	if arity < 0 || arity > maxNativeArity {
		return fmt.Errorf("native arity out of range: %d", arity)
	}
	handle := uint16(len(it.natives))

	off, ok := it.asm.emit(1)
	if !ok {
		it.comp.Latch(errOutOfArena)
		return fmt.Errorf(errOutOfArena)
	}
	it.arena.setByteAt(off, byte(arity))
	it.asm.genPointer(handle)
	if off > 0xffff {
		it.comp.Latch(errOutOfArena)
		return fmt.Errorf(errOutOfArena)
	}
	if _, ok := it.arena.bind([]byte(name), kindCFunction, uint16(off)); !ok {
		it.comp.Latch(errOutOfArena)
		return fmt.Errorf(errOutOfArena)
	}

	it.natives = append(it.natives, nativeBinding{name: name, arity: byte(arity), fn: fn})
	return nil
}

// echoString is the one native bound by default (Initialize), standing in
// for the original's "moo" demo: it reads a NUL-terminated byte string
// out of the arena starting at args[0] and writes it to the configured
// output. It exists to give embedders a worked example of a CCALL round
// trip, not because the language needs string output built in; like the
// original it always returns 0.
func (it *Interpreter) echoString(args []int32) int32 {
	if len(args) != 1 {
		return 0
	}
	addr := args[0]
	if addr < 0 || uint(addr) >= uint(it.arena.Len()) {
		return 0
	}
	off := uint(addr)
	n := uint(0)
	for off+n < uint(it.arena.Len()) && it.arena.byteAt(off+n) != 0 {
		n++
	}
	if it.out != nil {
		it.out.Write(it.arena.bytesAt(off, n))
	}
	return 0
}
