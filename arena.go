package main

import "encoding/binary"

// wordSize is the size in bytes of a W value (int32) as stored in the
// arena. All multi-byte fields are encoded little-endian; Go has no
// unaligned-pointer-cast escape hatch the way the original C did under its
// alignment-policy flag, so there is only one code path here instead of
// two: encoding/binary is the idiomatic stand-in regardless of host
// alignment (see DESIGN.md).
const wordSize = 4

// Reserved introspection globals, byte-offsets from the base of the arena.
// cp and dp are not copies of the cursors -- they ARE the cursors: code_idx
// and dict_idx live in the arena's own first two words so that ordinary
// GLOBAL_FETCH/GLOBAL_STORE of "cp"/"dp" observes and can even perturb
// them. c0 and d0 are plain globals seeded once at initialize time to the
// cursors' starting values, for programs that want to know where they
// began.
const (
	globalCP = 0 * wordSize
	globalDP = 1 * wordSize
	globalC0 = 2 * wordSize
	globalD0 = 3 * wordSize

	reservedGlobals = 4 * wordSize
)

// errOutOfArena is the latched-complaint text used when a bump allocation
// would make codeIdx run into dictIdx.
const errOutOfArena = "Store exhausted"

// Arena is the dual-ended bump allocator backing an Interpreter: bytecode
// grows up from the bottom (codeIdx), a dictionary of bindings grows down
// from the top (dictIdx). The two cursors must never cross, and live
// inside the arena itself as its first two words.
type Arena struct {
	store []byte
}

// NewArena allocates a fresh arena of the given capacity (capped at 65535
// bytes, matching the 16-bit binding/offset fields the dictionary header
// and branch instructions use to address it) and initializes it.
func NewArena(size int) *Arena {
	if size <= 0 {
		size = 4096
	}
	if size > 65535 {
		size = 65535
	}
	a := &Arena{store: make([]byte, size)}
	a.initialize()
	return a
}

// initialize resets the arena to its starting layout: the four
// introspection globals at the bottom, code starting right after them,
// and an empty dictionary occupying no space at the very top.
func (a *Arena) initialize() {
	for i := range a.store {
		a.store[i] = 0
	}
	a.setCodeIdx(reservedGlobals)
	a.setDictIdx(uint(len(a.store)))
	a.putW(globalC0, int32(reservedGlobals))
	a.putW(globalD0, int32(len(a.store)))
}

// Len returns the arena's fixed capacity.
func (a *Arena) Len() int { return len(a.store) }

// codeIdx/dictIdx read the live cursors out of the reserved globals.
func (a *Arena) codeIdx() uint    { return uint(uint32(a.getW(globalCP))) }
func (a *Arena) setCodeIdx(v uint) { a.putW(globalCP, int32(v)) }
func (a *Arena) dictIdx() uint    { return uint(uint32(a.getW(globalDP))) }
func (a *Arena) setDictIdx(v uint) { a.putW(globalDP, int32(v)) }

// CodeIdx and DictIdx expose the two cursors for diagnostics and tests.
func (a *Arena) CodeIdx() uint { return a.codeIdx() }
func (a *Arena) DictIdx() uint { return a.dictIdx() }

// available reports whether n more bytes can be bumped onto codeIdx
// without running into dictIdx.
func (a *Arena) available(n uint) bool {
	return a.codeIdx()+n <= a.dictIdx()
}

// allocCode bumps codeIdx by n bytes, returning the offset the caller
// should write at, or false if the arena is exhausted.
func (a *Arena) allocCode(n uint) (uint, bool) {
	if !a.available(n) {
		return 0, false
	}
	off := a.codeIdx()
	a.setCodeIdx(off + n)
	return off, true
}

// allocDict bumps dictIdx down by n bytes, returning the (new, lower)
// offset the caller should write its header at, or false if exhausted.
func (a *Arena) allocDict(n uint) (uint, bool) {
	if !a.available(n) {
		return 0, false
	}
	off := a.dictIdx() - n
	a.setDictIdx(off)
	return off, true
}

func (a *Arena) byteAt(off uint) byte        { return a.store[off] }
func (a *Arena) setByteAt(off uint, b byte)  { a.store[off] = b }
func (a *Arena) bytesAt(off, n uint) []byte  { return a.store[off : off+n] }

// getW/putW fetch and store a full W (int32) value, unchecked. REFV/SETV
// bounds are checked by the caller (see vm.go); this is the "word"
// accessor from the design notes' fetch/store helper family.
func (a *Arena) getW(off uint) int32 {
	return int32(binary.LittleEndian.Uint32(a.store[off : off+wordSize]))
}

func (a *Arena) putW(off uint, v int32) {
	binary.LittleEndian.PutUint32(a.store[off:off+wordSize], uint32(v))
}

// getX/putX fetch and store an X (uint16) value, used for branch offsets
// and dictionary bindings.
func (a *Arena) getX(off uint) uint16 {
	return binary.LittleEndian.Uint16(a.store[off : off+2])
}

func (a *Arena) putX(off uint, v uint16) {
	binary.LittleEndian.PutUint16(a.store[off:off+2], v)
}

// getI/putI fetch and store a signed I (int16) value, used by the PUSHW
// opcode.
func (a *Arena) getI(off uint) int16    { return int16(a.getX(off)) }
func (a *Arena) putI(off uint, v int16) { a.putX(off, uint16(v)) }
