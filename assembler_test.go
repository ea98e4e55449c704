package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblerForwardRefResolve(t *testing.T) {
	a := NewArena(256)
	var comp complaint
	as := newAssembler(a, &comp)

	as.gen(opBRANCH)
	r := as.forwardRef()
	as.gen(opPOP)
	as.gen(opPOP)
	as.resolve(r)

	assert.EqualValues(t, a.codeIdx()-r, a.getX(r))
	assert.False(t, comp.Any())
}

func TestAssemblerPrevInstrucTracking(t *testing.T) {
	a := NewArena(256)
	var comp complaint
	as := newAssembler(a, &comp)

	off := as.gen(opADD)
	assert.Equal(t, off, as.prevInstruc)

	as.genUByte(5) // immediate emitters do not move prevInstruc
	assert.Equal(t, off, as.prevInstruc)

	as.blockPrev()
	assert.Zero(t, as.prevInstruc)
}

func TestAssemblerEmitFailsSoftOnExhaustion(t *testing.T) {
	a := NewArena(reservedGlobals + 1)
	var comp complaint
	as := newAssembler(a, &comp)

	as.gen(opHALT)
	require.False(t, comp.Any())

	as.gen(opHALT) // no room left
	assert.True(t, comp.Any())
	assert.Equal(t, errOutOfArena, comp.Get())
}
