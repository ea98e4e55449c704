package main

import (
	"fmt"
	"strings"
)

// logging is a mixin providing leveled, column-aligned trace logging, the
// same shape gothird's VM used for its opcode-by-opcode trace output. It is
// nil-safe: an Interpreter with no logfn configured pays only a nil check
// per call.
type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
	codeWidth int
}

// logf writes one trace line tagged with mark, left-padding mark to the
// widest mark seen so far so that trace output lines up in columns.
func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := len(mark); n > log.markWidth {
		log.markWidth = n
	}
	log.logfn("%-*s "+mess, append([]interface{}{log.markWidth, mark}, args...)...)
}

// logCode writes one disassembly-flavored trace line, padding the code
// mnemonic column the same way.
func (log *logging) logCode(pc uint, code string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := len(code); n > log.codeWidth {
		log.codeWidth = n
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	log.logfn("@%-5d %-*s %s", pc, log.codeWidth, code, strings.Join(parts, " "))
}
