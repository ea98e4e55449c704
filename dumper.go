package main

import (
	"fmt"
	"io"
)

// dumper prints a diagnostic snapshot of an Interpreter's arena: the
// reserved globals, a best-effort disassembly of the code region, the
// live dictionary, and the operand stack -- adapted from gothird's
// vmDumper, which walked its own int-addressed memory the same way this
// one walks the byte arena.
type dumper struct {
	it  *Interpreter
	out io.Writer
}

func (d dumper) dump() {
	fmt.Fprintf(d.out, "# Arena Dump\n")
	fmt.Fprintf(d.out, "  cp: %v  dp: %v  c0: %v  d0: %v\n",
		d.it.arena.getW(globalCP), d.it.arena.getW(globalDP),
		d.it.arena.getW(globalC0), d.it.arena.getW(globalD0))
	if msg := d.it.Complaint(); msg != "" {
		fmt.Fprintf(d.out, "  complaint: %q\n", msg)
	}

	d.dumpCode()
	d.dumpDict()
	d.dumpStack()
}

func (d dumper) dumpCode() {
	fmt.Fprintf(d.out, "  code: [%v, %v)\n", uint(reservedGlobals), d.it.arena.codeIdx())
	for pc := uint(reservedGlobals); pc < d.it.arena.codeIdx(); {
		op := opcode(d.it.arena.byteAt(pc))
		start := pc
		pc++
		operand := ""
		switch op {
		case opPUSHB:
			operand = fmt.Sprint(int8(d.it.arena.byteAt(pc)))
			pc++
		case opPUSHW:
			operand = fmt.Sprint(d.it.arena.getI(pc))
			pc += 2
		case opPUSH:
			operand = fmt.Sprint(d.it.arena.getW(pc))
			pc += wordSize
		case opGLOBAL_FETCH, opGLOBAL_STORE, opCALL, opTCALL, opCCALL, opBRANCH, opJUMP:
			operand = fmt.Sprint(d.it.arena.getX(pc))
			pc += 2
		case opLOCAL_FETCH:
			operand = fmt.Sprint(d.it.arena.byteAt(pc))
			pc++
		case opPUSH_STRING:
			n := uint(0)
			for d.it.arena.byteAt(pc+n) != 0 {
				n++
			}
			operand = fmt.Sprintf("%q", d.it.arena.bytesAt(pc, n))
			pc += n + 1
		}
		if operand != "" {
			fmt.Fprintf(d.out, "    @%-5d %-14s %s\n", start, op, operand)
		} else {
			fmt.Fprintf(d.out, "    @%-5d %-14s\n", start, op)
		}
	}
}

func (d dumper) dumpDict() {
	fmt.Fprintf(d.out, "  dict: [%v, %v)\n", d.it.arena.dictIdx(), uint(d.it.arena.Len()))
	for off := d.it.arena.dictIdx(); off < uint(d.it.arena.Len()); {
		h := header{d.it.arena, off}
		fmt.Fprintf(d.out, "    @%-5d %-9s %-16s binding=%v\n", off, h.kind(), h.name(), h.binding())
		off += h.size()
	}
}

func (d dumper) dumpStack() {
	fmt.Fprintf(d.out, "  stack: sp=%v bp=%v\n", d.it.sp, d.it.bp)
	top := (d.it.arena.dictIdx() / wordSize) * wordSize
	for off := d.it.sp; off < top; off += wordSize {
		mark := "  "
		if off == d.it.bp {
			mark = "bp"
		}
		fmt.Fprintf(d.out, "    %s @%-5d %v\n", mark, off, d.it.arena.getW(off))
	}
}
