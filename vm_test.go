package main

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTailCallDoesNotOverflow is S5 taken to an extreme: a recursion depth
// many times the operand stack's own cell capacity, verifying the
// CALL->TCALL runtime self-rewrite actually reuses frames instead of
// growing the return stack, per spec.md §4.5 / §8 property 7.
func TestTailCallDoesNotOverflow(t *testing.T) {
	var out bytes.Buffer
	it := New(WithInput(strings.NewReader(
		"fun loop n a = if n then loop (n - 1) (a + 1) else a\n"+
			"loop 200000 0\n")), WithOutput(&out), WithCapacity(512))
	defer it.Close()
	require.NoError(t, it.REPL(context.Background()))
	assert.Contains(t, out.String(), "200000\n", "a non-tail-call implementation would overflow the 512-byte stack long before this")
}

func TestDivisionByZeroDoesNotPanicCaller(t *testing.T) {
	var out bytes.Buffer
	it := New(WithInput(strings.NewReader("1 / 0\n")), WithOutput(&out))
	defer it.Close()
	err := it.Run(context.Background(), true)
	require.NoError(t, err, "a halted run still reports success at the embedder boundary")
}

func TestStackOverflowIsReported(t *testing.T) {
	// A deeply non-tail-recursive call chain (the recursive call is not in
	// tail position, since its result feeds "+") must eventually run out of
	// operand stack, and must do so as an error, not a Go-level panic.
	var out bytes.Buffer
	it := New(WithInput(strings.NewReader(
		"fun deep n = if n then 1 + deep (n - 1) else 0\n"+
			"deep 100000\n")), WithOutput(&out), WithCapacity(512))
	defer it.Close()
	require.NoError(t, it.REPL(context.Background()))
	assert.Contains(t, out.String(), "Stack overflow")
}

func TestPeepholeLiteralNarrowingBoundaries(t *testing.T) {
	for _, v := range []int32{-128, -129, 127, 128, 32767, 32768, -32768, -32769} {
		v := v
		t.Run(strconv.Itoa(int(v)), func(t *testing.T) {
			var out bytes.Buffer
			it := New(WithInput(strings.NewReader(strconv.Itoa(int(v))+"\n")), WithOutput(&out))
			defer it.Close()
			require.NoError(t, it.REPL(context.Background()))
			assert.Contains(t, out.String(), strconv.Itoa(int(v))+"\n")
		})
	}
}

func TestRefBOutOfBoundsReadsZero(t *testing.T) {
	// REFB/SETB use "< S"; REFV/SETV use "<= S - wordSize"; REFX/SETX use
	// "<= S - 2". An out-of-bounds fetch reads as 0; an out-of-bounds store
	// is a silent no-op. This test checks the REFB case at S. REFB itself
	// has no named primitive (matching the original, which only reaches it
	// through the "*" operator), so it is exercised through "*" here rather
	// than a primitive call.
	var out bytes.Buffer
	arenaSize := 64
	it := New(WithInput(strings.NewReader("*"+strconv.Itoa(arenaSize)+"\n")), WithOutput(&out), WithCapacity(arenaSize))
	defer it.Close()
	require.NoError(t, it.REPL(context.Background()))
	assert.Contains(t, out.String(), "0\n", "*S is out of bounds and reads as 0")
}

func TestScratchCodeIsReclaimed(t *testing.T) {
	// cp (the live code cursor) read before and after a bare scratch
	// expression must match: spec.md §8 invariant 2.
	var out bytes.Buffer
	it := New(WithInput(strings.NewReader("cp\n1 + 2 * 3\ncp\n")), WithOutput(&out))
	defer it.Close()
	require.NoError(t, it.REPL(context.Background()))

	lines := strings.Fields(out.String())
	var nums []string
	for _, f := range lines {
		if _, err := strconv.Atoi(f); err == nil {
			nums = append(nums, f)
		}
	}
	require.Len(t, nums, 3, "cp, 7, cp")
	assert.Equal(t, nums[0], nums[2], "code_idx is unchanged once the scratch expression between the two cp reads is reclaimed")
}
