package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderBindAndLookup(t *testing.T) {
	a := NewArena(256)

	h, ok := a.bind([]byte("foo"), kindGlobal, 0x1234)
	require.True(t, ok)
	assert.Equal(t, kindGlobal, h.kind())
	assert.EqualValues(t, 0x1234, h.binding())
	assert.Equal(t, "foo", string(h.name()))
	assert.Equal(t, uint(headerFixedSize+3), h.size())

	found, ok := a.lookupUser([]byte("foo"))
	require.True(t, ok)
	assert.Equal(t, h.off, found.off)

	_, ok = a.lookupUser([]byte("bar"))
	assert.False(t, ok)
}

func TestHeaderShadowing(t *testing.T) {
	a := NewArena(256)
	_, ok := a.bind([]byte("x"), kindGlobal, 1)
	require.True(t, ok)
	_, ok = a.bind([]byte("x"), kindGlobal, 2)
	require.True(t, ok)

	h, ok := a.lookupUser([]byte("x"))
	require.True(t, ok)
	assert.EqualValues(t, 2, h.binding(), "the most recently bound definition of a shadowed name wins")
}

func TestHeaderLongestNameFits(t *testing.T) {
	a := NewArena(256)
	name := make([]byte, maxIdentLen)
	for i := range name {
		name[i] = byte('a' + i%26)
	}
	h, ok := a.bind(name, kindLocal, 0)
	require.True(t, ok)
	assert.Equal(t, maxIdentLen, h.nameLen())
	assert.Equal(t, string(name), string(h.name()))
}

func TestHeaderPrimBinding(t *testing.T) {
	packed := packPrimBinding(2, byte(opADD))
	assert.EqualValues(t, 2, byte(packed>>8))
	assert.EqualValues(t, byte(opADD), byte(packed))
}
