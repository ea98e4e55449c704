package main

import (
	"context"
	"fmt"
)

// primeLexer resets lookahead state the way the original's wren_load_file
// and wren_read_eval_print_loop both do before reading their first token:
// input_char goes back to "unread", any stale complaint is cleared, and
// one token of lookahead is filled in.
func (it *Interpreter) primeLexer() {
	it.lex.ch = chUnread
	it.comp.Clear()
	it.advanceTok()
}

// LoadFile reads and executes commands from the interpreter's configured
// input queue until EOF, printing nothing but a command's side effects
// (PUTC, echo_string, ...).
func (it *Interpreter) LoadFile(ctx context.Context) error {
	it.primeLexer()
	for it.curTok.kind != tokEOF {
		if err := ctx.Err(); err != nil {
			return err
		}
		it.runCommand(false)
		for it.curTok.kind == tokNewline {
			it.advanceTok()
		}
		it.comp.Clear()
	}
	return nil
}

// REPL runs an interactive session: a "> " prompt precedes every command,
// including the one that discovers EOF (which gets a trailing newline
// instead), and a bare expression's result is printed.
func (it *Interpreter) REPL(ctx context.Context) error {
	it.primeLexer()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(it.out, "> ")
		if it.curTok.kind == tokEOF {
			fmt.Fprint(it.out, "\n")
			return nil
		}
		it.runCommand(true)
		for it.curTok.kind == tokNewline {
			it.advanceTok()
		}
		it.comp.Clear()
	}
}

// runCommand compiles and executes exactly one command -- a let/fun/forget
// definition or a bare expression -- dispatching on the current token's
// kind. A blank line is its own no-op command. On any complaint (from
// compiling, running an initializer/scratch expression, or a stray
// trailing token) the message is printed and the rest of the current
// input line is discarded without being parsed, matching §7's "flush the
// rest of the current input line" policy; the caller is left responsible
// for consuming the line's single trailing newline and clearing the
// complaint before the next command.
func (it *Interpreter) runCommand(printResult bool) {
	switch it.curTok.kind {
	case tokNewline:
		it.advanceTok()
		return
	case tokLet:
		it.advanceTok()
		it.compileLetDef()
	case tokFun:
		it.advanceTok()
		it.compileFunDef()
	case tokForget:
		it.advanceTok()
		it.compileForget()
	default:
		result, ok := it.compileScratchExpr()
		if ok && printResult {
			fmt.Fprintf(it.out, "%d\n", result)
		}
	}

	if !it.comp.Any() && it.curTok.kind != tokNewline && it.curTok.kind != tokEOF {
		it.comp.Latch("unexpected trailing token")
	}

	if msg := it.comp.Get(); msg != "" {
		fmt.Fprintf(it.out, "%s\n", msg)
		// A lexical error also yields tokEOF, but leaves the lexer short of
		// the real end of input; only the latter stops the flush.
		for it.curTok.kind != tokNewline && !(it.curTok.kind == tokEOF && it.lex.ch == chEOF) {
			it.advanceTok()
		}
	}
}
