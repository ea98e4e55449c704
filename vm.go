package main

import (
	"fmt"

	"github.com/jcorbin/tinyvm/internal/panicrun"
)

// errStackOverflow is returned by push (which latches nothing itself) when
// the operand stack would collide with the code region; the command that
// started the run latches its text as that command's complaint.
var errStackOverflow = fmt.Errorf("Stack overflow")

// resetStack parks sp and bp at the top of the currently-free region: the
// operand stack lives between code_idx and dict_idx and is reset to empty
// at the start of every top-level run, per the frame layout design note.
func (it *Interpreter) resetStack() {
	top := (it.arena.dictIdx() / wordSize) * wordSize
	it.sp = top
	it.bp = top
}

// push writes v one word below the current stack top, returning
// errStackOverflow instead if doing so would run into the code region.
func (it *Interpreter) push(v int32) error {
	if it.sp < wordSize || it.sp-wordSize < it.codeEnd {
		return errStackOverflow
	}
	it.sp -= wordSize
	it.arena.putW(it.sp, v)
	return nil
}

func (it *Interpreter) pop() int32 {
	v := it.arena.getW(it.sp)
	it.sp += wordSize
	return v
}

func (it *Interpreter) top() int32 { return it.arena.getW(it.sp) }
func (it *Interpreter) setTop(v int32) { it.arena.putW(it.sp, v) }

// execFrom runs freshly-compiled bytecode starting at start through to a
// HALT, on an errgroup-supervised goroutine so a host-visible panic (a
// division by zero, most notably -- the language does not check for that
// case) becomes a returned
// error instead of taking the embedding process down with it.
func (it *Interpreter) execFrom(start uint) (int32, error) {
	it.resetStack()
	it.pc = start
	it.codeEnd = it.arena.codeIdx()
	return panicrun.Run(it.run)
}

// run is the opcode dispatch loop. It is only ever invoked through
// execFrom/panicrun.Run so that a recovered panic always has somewhere to
// go.
func (it *Interpreter) run() (int32, error) {
	for {
		op := opcode(it.arena.byteAt(it.pc))
		it.pc++
		it.logCode(it.pc-1, op.String())

		switch op {
		case opHALT:
			return it.top(), nil

		case opPUSHB:
			v := int32(int8(it.arena.byteAt(it.pc)))
			it.pc++
			if err := it.push(v); err != nil {
				return 0, err
			}
		case opPUSHW:
			v := int32(it.arena.getI(it.pc))
			it.pc += 2
			if err := it.push(v); err != nil {
				return 0, err
			}
		case opPUSH:
			v := it.arena.getW(it.pc)
			it.pc += wordSize
			if err := it.push(v); err != nil {
				return 0, err
			}
		case opPUSH_STRING:
			off := it.pc
			n := uint(0)
			for it.arena.byteAt(off+n) != 0 {
				n++
			}
			it.pc = off + n + 1
			if err := it.push(int32(off)); err != nil {
				return 0, err
			}

		case opPOP:
			it.pop()

		case opGLOBAL_FETCH:
			addr := uint(it.arena.getX(it.pc))
			it.pc += 2
			if err := it.push(it.arena.getW(addr)); err != nil {
				return 0, err
			}
		case opGLOBAL_STORE:
			addr := uint(it.arena.getX(it.pc))
			it.pc += 2
			it.arena.putW(addr, it.top())

		case opLOCAL_FETCH_0:
			if err := it.push(it.arena.getW(it.bp)); err != nil {
				return 0, err
			}
		case opLOCAL_FETCH_1:
			if err := it.push(it.arena.getW(it.bp - wordSize)); err != nil {
				return 0, err
			}
		case opLOCAL_FETCH:
			idx := uint(it.arena.byteAt(it.pc))
			it.pc++
			if err := it.push(it.arena.getW(it.bp - idx*wordSize)); err != nil {
				return 0, err
			}

		case opBRANCH:
			r := it.pc
			x := it.arena.getX(r)
			cond := it.pop()
			if cond == 0 {
				it.pc = r + uint(x)
			} else {
				it.pc = r + 2
			}
		case opJUMP:
			r := it.pc
			x := it.arena.getX(r)
			it.pc = r + uint(x)

		case opCALL, opTCALL:
			if err := it.execCall(op); err != nil {
				return 0, err
			}
		case opCCALL:
			if err := it.execCCall(); err != nil {
				return 0, err
			}
		case opRETURN:
			it.execReturn()

		case opADD:
			it.binop(func(a, b int32) int32 { return a + b })
		case opSUB:
			it.binop(func(a, b int32) int32 { return a - b })
		case opMUL:
			it.binop(func(a, b int32) int32 { return a * b })
		case opDIV:
			it.binop(func(a, b int32) int32 { return a / b })
		case opMOD:
			it.binop(func(a, b int32) int32 { return a % b })
		case opUMUL:
			it.binop(func(a, b int32) int32 { return int32(uint32(a) * uint32(b)) })
		case opUDIV:
			it.binop(func(a, b int32) int32 { return int32(uint32(a) / uint32(b)) })
		case opUMOD:
			it.binop(func(a, b int32) int32 { return int32(uint32(a) % uint32(b)) })
		case opAND:
			it.binop(func(a, b int32) int32 { return a & b })
		case opOR:
			it.binop(func(a, b int32) int32 { return a | b })
		case opXOR:
			it.binop(func(a, b int32) int32 { return a ^ b })
		case opSLA:
			it.binop(func(a, b int32) int32 { return a << uint32(b) })
		case opSRA:
			it.binop(func(a, b int32) int32 { return a >> uint32(b) })
		case opSRL:
			it.binop(func(a, b int32) int32 { return int32(uint32(a) >> uint32(b)) })
		case opEQ:
			it.binop(func(a, b int32) int32 { return boolW(a == b) })
		case opLT:
			it.binop(func(a, b int32) int32 { return boolW(a < b) })
		case opULT:
			it.binop(func(a, b int32) int32 { return boolW(uint32(a) < uint32(b)) })

		case opNEGATE:
			it.setTop(-it.top())

		case opGETC:
			r, _, err := it.in.ReadRune()
			if err != nil {
				if err := it.push(-1); err != nil {
					return 0, err
				}
			} else if err := it.push(int32(r)); err != nil {
				return 0, err
			}
		case opPUTC:
			it.out.Write([]byte{byte(it.top())})

		case opREFB:
			addr := it.top()
			if addr < 0 || uint(addr) >= uint(it.arena.Len()) {
				it.setTop(0)
			} else {
				it.setTop(int32(it.arena.byteAt(uint(addr))))
			}
		case opREFV:
			addr := it.top()
			if addr < 0 || uint(addr) > uint(it.arena.Len())-wordSize {
				it.setTop(0)
			} else {
				it.setTop(it.arena.getW(uint(addr)))
			}
		case opREFX:
			addr := it.top()
			if addr < 0 || uint(addr) > uint(it.arena.Len())-2 {
				it.setTop(0)
			} else {
				it.setTop(int32(it.arena.getX(uint(addr))))
			}

		case opSETB:
			v := it.pop()
			addr := it.pop()
			if addr >= 0 && uint(addr) < uint(it.arena.Len()) {
				it.arena.setByteAt(uint(addr), byte(v))
			}
			if err := it.push(v); err != nil {
				return 0, err
			}
		case opSETV:
			v := it.pop()
			addr := it.pop()
			if addr >= 0 && uint(addr) <= uint(it.arena.Len())-wordSize {
				it.arena.putW(uint(addr), v)
			}
			if err := it.push(v); err != nil {
				return 0, err
			}
		case opSETX:
			v := it.pop()
			addr := it.pop()
			if addr >= 0 && uint(addr) <= uint(it.arena.Len())-2 {
				it.arena.putX(uint(addr), uint16(v))
			}
			if err := it.push(v); err != nil {
				return 0, err
			}

		default:
			return 0, fmt.Errorf("unimplemented opcode %s", op)
		}
	}
}

func boolW(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// binop pops b (the right/most-recently-pushed operand) then a (the left
// operand), pushing f(a, b) in their place.
func (it *Interpreter) binop(f func(a, b int32) int32) {
	b := it.pop()
	a := it.pop()
	it.arena.putW(it.sp-wordSize, f(a, b))
	it.sp -= wordSize
}

// execCall implements both CALL and TCALL. CALL pushes a fresh frame: bp
// becomes the address of the leftmost argument (also where the result
// will eventually be written), and a frame-info word (old bp, return pc)
// is pushed immediately below it.
//
// A CALL additionally checks, the first time it runs, whether its own
// continuation -- the instruction pc will resume at, followed through any
// JUMP chain -- resolves straight to RETURN. If so the call is in tail
// position: nothing happens between the call returning and the caller
// itself returning, so the two frames can be collapsed into one. The
// CALL's opcode byte is rewritten in place to TCALL (so later iterations
// of the same call site, e.g. a loop body's recursive call, skip the
// check) and this first invocation is carried out as a tail call too.
func (it *Interpreter) execCall(op opcode) error {
	opAddr := it.pc - 1
	r := it.pc
	target := uint(it.arena.getX(r))
	it.pc = r + 2
	arity := int(it.arena.byteAt(target))

	if op == opCALL && it.resolveContinuation(it.pc) == opRETURN {
		it.arena.setByteAt(opAddr, byte(opTCALL))
		op = opTCALL
	}

	if op == opTCALL {
		it.execTailCall(target, arity)
		return nil
	}

	spArgs := it.sp
	bpNew := uint(int(spArgs) + (arity-1)*wordSize)
	packed := uint32(uint16(it.bp)) | uint32(uint16(it.pc))<<16
	if err := it.push(int32(packed)); err != nil {
		return err
	}
	it.bp = bpNew
	it.pc = target + 1
	return nil
}

// execTailCall shifts the just-pushed argument cells down into the
// current frame's argument slots, leaving bp untouched, moves the current
// frame-info word (which sits right above the arguments, since nothing else
// is left on the stack in tail position) to just below the callee's last
// argument slot, and jumps to the callee body.
func (it *Interpreter) execTailCall(target uint, arity int) {
	spArgs := it.sp
	frame := it.arena.getW(spArgs + uint(arity)*wordSize)
	args := make([]int32, arity)
	for p := 0; p < arity; p++ {
		args[p] = it.arena.getW(spArgs + uint(arity-1-p)*wordSize)
	}
	for p := 0; p < arity; p++ {
		it.arena.putW(it.bp-uint(p)*wordSize, args[p])
	}
	it.sp = it.bp - uint(arity)*wordSize
	it.arena.putW(it.sp, frame)
	it.pc = target + 1
}

// maxContinuationHops bounds resolveContinuation's walk through a chain of
// unconditional jumps, so a (malformed or adversarial) jump cycle can never
// hang the interpreter.
const maxContinuationHops = 256

// resolveContinuation follows pc through any chain of unconditional JUMPs
// and returns the opcode execution would actually land on next, without
// running any of it.
func (it *Interpreter) resolveContinuation(pc uint) opcode {
	for i := 0; i < maxContinuationHops; i++ {
		op := opcode(it.arena.byteAt(pc))
		if op != opJUMP {
			return op
		}
		r := pc + 1
		x := it.arena.getX(r)
		pc = r + uint(x)
	}
	return opcode(0xff)
}

// execReturn restores the caller's bp/pc from the frame word one word
// above the body's single residual result, then overwrites bp[0] (the
// original leftmost argument slot) with that result -- see vm.go's
// design note on frame layout for the arithmetic justifying this.
func (it *Interpreter) execReturn() {
	result := it.top()
	frameAddr := it.sp + wordSize
	packed := uint32(it.arena.getW(frameAddr))
	oldBP := uint(uint16(packed))
	retPC := uint(uint16(packed >> 16))

	it.sp = it.bp
	it.arena.putW(it.bp, result)
	it.bp = oldBP
	it.pc = retPC
}

// execCCall dispatches a CCALL to the native function table: the callee's
// arity byte at target tells us how many words to pop (gathered
// left-to-right into a slice, unlike the original's arity-switched C
// trampoline -- see SPEC_FULL.md §6), the next two bytes are the handle
// into it.natives.
func (it *Interpreter) execCCall() error {
	r := it.pc
	target := uint(it.arena.getX(r))
	it.pc = r + 2
	arity := int(it.arena.byteAt(target))
	handle := it.arena.getX(target + 1)
	if int(handle) >= len(it.natives) {
		return fmt.Errorf("invalid native handle %d", handle)
	}
	fn := it.natives[handle].fn

	args := make([]int32, arity)
	for i := 0; i < arity; i++ {
		args[i] = it.arena.getW(it.sp + uint(arity-1-i)*wordSize)
	}
	for i := 0; i < arity; i++ {
		it.pop()
	}
	return it.push(fn(args))
}
