package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindCFunctionRegistersNativeAndDictEntry(t *testing.T) {
	it := New()
	defer it.Close()

	called := false
	err := it.BindCFunction("double_it", func(args []int32) int32 {
		called = true
		return args[0] * 2
	}, 1)
	require.NoError(t, err)

	h, ok := it.arena.lookupUser([]byte("double_it"))
	require.True(t, ok)
	assert.Equal(t, kindCFunction, h.kind())

	target := uint(h.binding())
	assert.EqualValues(t, 1, it.arena.byteAt(target), "arity byte stored right at the binding")

	handle := it.arena.getX(target + 1)
	require.Less(t, int(handle), len(it.natives))
	assert.Equal(t, "double_it", it.natives[handle].name)

	result := it.natives[handle].fn([]int32{21})
	assert.True(t, called)
	assert.EqualValues(t, 42, result)
}

func TestBindCFunctionRejectsArityOutOfRange(t *testing.T) {
	it := New()
	defer it.Close()
	err := it.BindCFunction("bad", func(args []int32) int32 { return 0 }, maxNativeArity+1)
	assert.Error(t, err)
}

func TestEchoStringOutOfBoundsAddressIsNoop(t *testing.T) {
	it := New()
	defer it.Close()
	assert.EqualValues(t, 0, it.echoString([]int32{-1}))
	assert.EqualValues(t, 0, it.echoString([]int32{int32(it.arena.Len()) + 100}))
}
