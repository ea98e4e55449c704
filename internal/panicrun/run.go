// Package panicrun runs a computation on an errgroup-supervised goroutine,
// turning any panic (including a division-by-zero trap) into a returned
// error instead of crashing the embedding process.
package panicrun

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// PanicError wraps a recovered panic value along with the stack at the
// point it was recovered.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (p *PanicError) Error() string { return fmt.Sprintf("runtime fault: %v", p.Value) }

// Run executes f on a supervised goroutine and returns its result, or a
// *PanicError if f panicked.
func Run(f func() (int32, error)) (int32, error) {
	var result int32
	var g errgroup.Group
	g.Go(func() (ferr error) {
		defer func() {
			if r := recover(); r != nil {
				ferr = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		var err error
		result, err = f()
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return result, nil
}
