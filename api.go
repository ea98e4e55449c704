package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/ioutil"

	"github.com/jcorbin/tinyvm/internal/flushio"
	"github.com/jcorbin/tinyvm/internal/panicrun"
)

// defaultCapacity is used when New is given no WithCapacity option; it
// must leave enough headroom past reservedGlobals for a useful session.
const defaultCapacity = 4096

// New builds an Interpreter over a fresh Arena, applying opts, and calls
// Initialize.
func New(opts ...Option) *Interpreter {
	var cfg options
	cfg.capacity = defaultCapacity
	defaultOptions.apply(&cfg)
	Options(opts...).apply(&cfg)

	it := newInterpreter(cfg.capacity)
	it.in.Queue = cfg.queue
	it.out = cfg.out
	it.closers = cfg.closers
	it.logfn = cfg.logfn
	it.Initialize()
	return it
}

var defaultOptions = Options(
	withInput(bytes.NewReader(nil)),
	withOutput(ioutil.Discard),
)

// haltError marks a runtime fault (a panic recovered by panicrun; ctx
// errors are not wrapped) distinctly from a normal compile-time complaint,
// mirroring gothird's haltError/Unwrap pattern so embedders can
// errors.As past it to the underlying cause.
type haltError struct{ error }

func (err haltError) Unwrap() error { return err.error }

// Run drives either LoadFile or REPL to completion, isolating the whole
// run behind panicrun so a wayward native function or an unrecovered VM
// fault cannot bring down the embedding process.
func (it *Interpreter) Run(ctx context.Context, repl bool) error {
	_, err := panicrun.Run(func() (int32, error) {
		if repl {
			return 0, it.REPL(ctx)
		}
		return 0, it.LoadFile(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	var pe *panicrun.PanicError
	if errors.As(err, &pe) {
		return haltError{err}
	}
	return err
}

// Option configures an Interpreter at construction time, in the shape of
// gothird's VMOption/options/noption trio.
type Option interface{ apply(cfg *options) }

type options struct {
	capacity int
	queue    []io.Reader
	out      flushio.WriteFlusher
	closers  []io.Closer
	logfn    func(mess string, args ...interface{})
}

type noption struct{}

func (noption) apply(*options) {}

type optionList []Option

func (opts optionList) apply(cfg *options) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(cfg)
		}
	}
}

// Options flattens a list of options into a single one, dropping nils,
// the same normalization gothird's VMOptions did.
func Options(opts ...Option) Option {
	var res optionList
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case optionList:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

func WithInput(r io.Reader) Option  { return withInput(r) }
func WithOutput(w io.Writer) Option { return withOutput(w) }
func WithTee(w io.Writer) Option    { return withTee(w) }
func WithCapacity(n int) Option     { return withCapacity(n) }

func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type capacityOption int
type withLogfn func(mess string, args ...interface{})

func withInput(r io.Reader) inputOption   { return inputOption{r} }
func withOutput(w io.Writer) outputOption { return outputOption{w} }
func withTee(w io.Writer) teeOption       { return teeOption{w} }
func withCapacity(n int) capacityOption   { return capacityOption(n) }

func (i inputOption) apply(cfg *options) { cfg.queue = append(cfg.queue, i.Reader) }

func (o outputOption) apply(cfg *options) {
	if cfg.out != nil {
		cfg.out.Flush()
	}
	cfg.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		cfg.closers = append(cfg.closers, cl)
	}
}

func (o teeOption) apply(cfg *options) {
	cfg.out = flushio.WriteFlushers(cfg.out, flushio.NewWriteFlusher(o.Writer))
	if cl, ok := o.Writer.(io.Closer); ok {
		cfg.closers = append(cfg.closers, cl)
	}
}

func (n capacityOption) apply(cfg *options) { cfg.capacity = int(n) }

func (logfn withLogfn) apply(cfg *options) { cfg.logfn = logfn }
