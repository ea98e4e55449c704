package main

// opcode is a single VM instruction byte. The numeric ordering follows the
// original embedded interpreter's enum, not grouped by spec table order,
// so that anyone cross-referencing a trace or a core dump against the
// original source sees matching byte values.
type opcode byte

const (
	opHALT opcode = iota
	opPUSH
	opPOP
	opPUSH_STRING
	opGLOBAL_FETCH
	opGLOBAL_STORE
	opLOCAL_FETCH
	opTCALL
	opCALL
	opRETURN
	opBRANCH
	opJUMP
	opADD
	opSUB
	opMUL
	opDIV
	opMOD
	opUMUL
	opUDIV
	opUMOD
	opNEGATE
	opEQ
	opLT
	opULT
	opAND
	opOR
	opXOR
	opSLA
	opSRA
	opSRL
	opGETC
	opPUTC
	opREFB
	opREFV
	opSETV
	opLOCAL_FETCH_0
	opLOCAL_FETCH_1
	opPUSHW
	opPUSHB
	opCCALL
	opREFX
	opSETX
	opSETB

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	opHALT:          "HALT",
	opPUSH:          "PUSH",
	opPOP:           "POP",
	opPUSH_STRING:   "PUSH_STRING",
	opGLOBAL_FETCH:  "GLOBAL_FETCH",
	opGLOBAL_STORE:  "GLOBAL_STORE",
	opLOCAL_FETCH:   "LOCAL_FETCH",
	opTCALL:         "TCALL",
	opCALL:          "CALL",
	opRETURN:        "RETURN",
	opBRANCH:        "BRANCH",
	opJUMP:          "JUMP",
	opADD:           "ADD",
	opSUB:           "SUB",
	opMUL:           "MUL",
	opDIV:           "DIV",
	opMOD:           "MOD",
	opUMUL:          "UMUL",
	opUDIV:          "UDIV",
	opUMOD:          "UMOD",
	opNEGATE:        "NEGATE",
	opEQ:            "EQ",
	opLT:            "LT",
	opULT:           "ULT",
	opAND:           "AND",
	opOR:            "OR",
	opXOR:           "XOR",
	opSLA:           "SLA",
	opSRA:           "SRA",
	opSRL:           "SRL",
	opGETC:          "GETC",
	opPUTC:          "PUTC",
	opREFB:          "REFB",
	opREFV:          "REFV",
	opSETV:          "SETV",
	opLOCAL_FETCH_0: "LOCAL_FETCH_0",
	opLOCAL_FETCH_1: "LOCAL_FETCH_1",
	opPUSHW:         "PUSHW",
	opPUSHB:         "PUSHB",
	opCCALL:         "CCALL",
	opREFX:          "REFX",
	opSETX:          "SETX",
	opSETB:          "SETB",
}

func (op opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "<invalid opcode>"
}

// primitiveDef describes one entry of the read-only, compiled-in primitive
// dictionary: operations with no dedicated infix operator syntax, reached
// by name the same way a procedure is. Binary arithmetic/comparison/
// bitwise operators (ADD, SUB, ..., AND, OR, XOR) are instead reached
// through the compiler's operator precedence table and never appear here.
type primitiveDef struct {
	name   string
	arity  byte
	opcode opcode
}

// primitiveDictionary is searched as a fallback whenever an identifier
// factor is not found in the live user dictionary.
var primitiveDictionary = [...]primitiveDef{
	{"umul", 2, opUMUL},
	{"udiv", 2, opUDIV},
	{"umod", 2, opUMOD},
	{"ult", 2, opULT},
	{"sla", 2, opSLA},
	{"sra", 2, opSRA},
	{"srl", 2, opSRL},
	{"getc", 0, opGETC},
	{"putc", 1, opPUTC},
	{"refv", 1, opREFV},
	{"refx", 1, opREFX},
	{"setv", 2, opSETV},
	{"setx", 2, opSETX},
	{"setb", 2, opSETB},
}

func lookupPrimitive(name []byte) (primitiveDef, bool) {
	for _, p := range primitiveDictionary {
		if p.name == string(name) {
			return p, true
		}
	}
	return primitiveDef{}, false
}
