package lang

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	KindEOF        Kind = iota // EOF
	KindNumber                 // Number
	KindString                 // String
	KindIdentifier             // Identifier
	KindOperator               // Operator
	KindMod                    // Mod
	KindPunct                  // Punct
	KindAssign                 // Assign
	KindSemicolon              // Semicolon
	KindExprOpen               // ExprOpen
	KindExprClose              // ExprClose
)

// String returns the name of the token kind.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindIdentifier:
		return "Identifier"
	case KindOperator:
		return "Operator"
	case KindMod:
		return "Mod"
	case KindPunct:
		return "Punct"
	case KindAssign:
		return "Assign"
	case KindSemicolon:
		return "Semicolon"
	case KindExprOpen:
		return "ExprOpen"
	case KindExprClose:
		return "ExprClose"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Position is a location in normalized source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether p refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// Token is a single lexical unit.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// Is reports whether t has the given kind and, if text is non-empty, the
// given literal text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && (text == "" || t.Text == text)
}

// String describes the token for diagnostics.
func (t Token) String() string {
	if t.Kind == KindEOF {
		return "end of input"
	}

	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}
