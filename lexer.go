package main

import "github.com/jcorbin/tinyvm/internal/fileinput"

// tokenKind classifies one lexical token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokNumber
	tokIdent
	tokString
	tokThen
	tokForget
	tokLet
	tokIf
	tokFun
	tokElse
	tokOp // single-char operator/punctuation; see token.ch
)

var keywords = map[string]tokenKind{
	"then":   tokThen,
	"forget": tokForget,
	"let":    tokLet,
	"if":     tokIf,
	"fun":    tokFun,
	"else":   tokElse,
}

// token is the value produced by one call to (*lexer).next.
type token struct {
	kind  tokenKind
	value int32  // tokNumber
	name  []byte // tokIdent
	ch    byte   // tokOp
	strOff uint  // tokString: arena offset of the (already-written) bytes
	strLen uint  // tokString: length not including the NUL terminator
}

// maxIdentLen is the longest name a dictionary header can hold (4-bit
// length field, 1..16).
const maxIdentLen = 16

// sentinel values for lexer.ch: chUnread means "read a fresh rune on next
// peek", chEOF means "input is exhausted, latched".
const (
	chUnread rune = -1
	chEOF    rune = -2
)

// lexer tokenizes an input stream with exactly one character of lookahead,
// following the original's input_char/unread/EOF-latch design. It also
// owns writing string literal bytes directly into the arena's code region
// ahead of the opcode that will reference them (see scanString).
type lexer struct {
	in    *fileinput.Input
	arena *Arena
	comp  *complaint
	ch    rune
}

func newLexer(in *fileinput.Input, arena *Arena, comp *complaint) *lexer {
	return &lexer{in: in, arena: arena, comp: comp, ch: chUnread}
}

func (lx *lexer) latch(msg string) { lx.comp.Latch(msg) }

// peek returns the current lookahead character, reading one if needed.
func (lx *lexer) peek() rune {
	if lx.ch == chUnread {
		r, _, err := lx.in.ReadRune()
		if err != nil {
			lx.ch = chEOF
		} else {
			lx.ch = r
		}
	}
	return lx.ch
}

// advance consumes the current lookahead character so the next peek
// refills it.
func (lx *lexer) advance() { lx.ch = chUnread }

func isDigit(r rune) bool   { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isIdentStart(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isIdentCont(r rune) bool  { return isIdentStart(r) || isDigit(r) }

func hexDigitValue(r rune) int32 {
	switch {
	case r >= '0' && r <= '9':
		return int32(r - '0')
	case r >= 'a' && r <= 'f':
		return int32(r-'a') + 10
	default:
		return int32(r-'A') + 10
	}
}

// next scans and returns the next token, skipping whitespace and comments.
func (lx *lexer) next() token {
	for {
		r := lx.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r':
			lx.advance()
			continue
		case r == '#':
			lx.skipLineComment()
			continue
		}
		break
	}

	r := lx.peek()
	switch {
	case r == chEOF:
		return token{kind: tokEOF}
	case r == '\n':
		lx.advance()
		return token{kind: tokNewline}
	case isDigit(r):
		return lx.scanNumber()
	case isIdentStart(r):
		return lx.scanIdent()
	case r == '\'':
		return lx.scanString()
	case isOperatorRune(r):
		lx.advance()
		return token{kind: tokOp, ch: byte(r)}
	default:
		lx.advance()
		lx.latch("Lexical error")
		return token{kind: tokEOF}
	}
}

func isOperatorRune(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '<', '&', '|', '^', '(', ')', '=', ':', ';':
		return true
	}
	return false
}

func (lx *lexer) skipLineComment() {
	for {
		r := lx.peek()
		if r == chEOF || r == '\n' {
			return
		}
		lx.advance()
	}
}

// scanNumber scans a decimal or (with a "0x"/"0X" prefix) hexadecimal
// integer literal.
func (lx *lexer) scanNumber() token {
	if lx.peek() == '0' {
		lx.advance()
		if r := lx.peek(); r == 'x' || r == 'X' {
			lx.advance()
			return lx.scanHex()
		}
		return lx.scanDecimal(0)
	}
	return lx.scanDecimal(0)
}

func (lx *lexer) scanDecimal(seed int32) token {
	value := seed
	for isDigit(lx.peek()) {
		d := int32(lx.peek() - '0')
		if value > (0x7fffffff-d)/10 {
			lx.latch("Numeric overflow")
		} else {
			value = value*10 + d
		}
		lx.advance()
	}
	return token{kind: tokNumber, value: value}
}

// scanHex faithfully reproduces the original's signed-comparison overflow
// guard (spec design note 9(a)): once the accumulated value has wrapped
// negative, a later digit's shift can still compare as "not smaller" and
// slip past undetected. This is a known, intentionally preserved quirk,
// not a bug we introduced.
func (lx *lexer) scanHex() token {
	var value int32
	any := false
	for isHexDigit(lx.peek()) {
		d := hexDigitValue(lx.peek())
		shifted := value<<4 | d
		if value > shifted {
			lx.latch("Numeric overflow")
		}
		value = shifted
		any = true
		lx.advance()
	}
	_ = any
	return token{kind: tokNumber, value: value}
}

func (lx *lexer) scanIdent() token {
	var buf [maxIdentLen]byte
	n := 0
	overlong := false
	for isIdentCont(lx.peek()) {
		r := lx.peek()
		if n < len(buf) {
			buf[n] = byte(r)
			n++
		} else {
			overlong = true
		}
		lx.advance()
	}
	if overlong {
		lx.latch("Identifier too long")
	}
	name := append([]byte(nil), buf[:n]...)
	if kind, isKeyword := keywords[string(name)]; isKeyword {
		return token{kind: kind, name: name}
	}
	return token{kind: tokIdent, name: name}
}

// scanString scans a '...' string literal, writing its raw bytes directly
// into the arena one byte past the current code cursor (leaving room for
// the PUSH_STRING opcode the compiler will emit right before them) and
// NUL-terminating them. codeIdx itself is left untouched: the compiler
// commits the reservation by emitting the opcode and then bumping codeIdx
// past the string once it decides to keep it.
func (lx *lexer) scanString() token {
	lx.advance() // opening quote
	base := lx.arena.codeIdx() + 1
	limit := lx.arena.dictIdx()
	var n uint
	for {
		r := lx.peek()
		if r == chEOF {
			lx.latch("Unterminated string")
			return token{kind: tokString, strOff: base, strLen: n}
		}
		if r == '\'' {
			lx.advance()
			break
		}
		if base+n+1 >= limit {
			lx.latch(errOutOfArena)
			return token{kind: tokString, strOff: base, strLen: n}
		}
		lx.arena.setByteAt(base+n, byte(r))
		n++
		lx.advance()
	}
	lx.arena.setByteAt(base+n, 0)
	return token{kind: tokString, strOff: base, strLen: n}
}
