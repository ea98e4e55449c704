/* Package main: tinyvm -- a tiny byte-code VM and the expression compiler
that feeds it.

tinyvm is a from-scratch language built on a single flat byte arena: two
bump allocators grow toward each other from opposite ends, one holding
compiled code, the other holding a packed dictionary of names. The
compiler is written in Go; the language has no standard library of its
own -- control flow, procedures, a few named primitives, and a small
native-call escape hatch are what it provides; see SPEC_FULL.md for the
full design.
*/
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/xyproto/env/v2"

	"github.com/jcorbin/tinyvm/internal/logio"
)

func main() {
	var (
		capacity int
		timeout  time.Duration
		trace    bool
		dump     bool
	)
	flag.IntVar(&capacity, "cap", env.Int("TINYVM_MEM_LIMIT", defaultCapacity), "arena capacity in bytes")
	flag.DurationVar(&timeout, "timeout", env.Duration("TINYVM_TIMEOUT", 0), "specify a time limit")
	flag.BoolVar(&trace, "trace", env.Bool("TINYVM_TRACE"), "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "print an arena dump after execution")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	var readers []io.Reader
	if flag.NArg() > 0 {
		for _, name := range flag.Args() {
			f, err := os.Open(name)
			if err != nil {
				log.ErrorIf(err)
				return
			}
			defer f.Close()
			readers = append(readers, f)
		}
	} else {
		readers = append(readers, os.Stdin)
	}

	opts := []Option{
		WithCapacity(capacity),
		WithOutput(os.Stdout),
	}
	if trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	for _, r := range readers {
		opts = append(opts, WithInput(r))
	}
	it := New(opts...)
	defer it.Close()

	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer lw.Close()
		defer dumper{it: it, out: lw}.dump()
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	repl := flag.NArg() == 0 && isTerminal(os.Stdin.Fd())
	log.ErrorIf(it.Run(ctx, repl))
}
