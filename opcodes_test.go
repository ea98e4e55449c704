package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "ADD", opADD.String())
	assert.Equal(t, "<invalid opcode>", opcode(0xff).String())
}

func TestLookupPrimitiveFoundAndNotFound(t *testing.T) {
	p, ok := lookupPrimitive([]byte("setv"))
	assert.True(t, ok)
	assert.EqualValues(t, 2, p.arity)
	assert.Equal(t, opSETV, p.opcode)

	_, ok = lookupPrimitive([]byte("nope"))
	assert.False(t, ok)
}

func TestBinaryOpcodesExcludedFromPrimitives(t *testing.T) {
	// Binary arithmetic/bitwise/comparison operators are reached through
	// the compiler's precedence table, never through the primitive
	// dictionary fallback.
	for _, name := range []string{"add", "sub", "mul", "div", "mod", "and", "or", "xor"} {
		_, ok := lookupPrimitive([]byte(name))
		assert.False(t, ok, "%s should not be a named primitive", name)
	}
}
