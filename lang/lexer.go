package lang

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Characters removed or replaced before scanning.
const (
	byteOrderMark  = '\uFEFF'
	noBreakSpace   = '\u00A0'
	zeroWidthSpace = '\u200B'
)

// Normalize prepares raw source text for scanning. It strips a leading
// byte-order mark, replaces non-breaking spaces with ordinary spaces, and
// removes zero-width spaces.
func Normalize(source string) string {
	source = strings.TrimPrefix(source, string(byteOrderMark))

	return strings.Map(func(r rune) rune {
		switch r {
		case noBreakSpace:
			return ' '
		case zeroWidthSpace:
			return -1
		default:
			return r
		}
	}, source)
}

// Tokenize normalizes source and splits it into tokens. The returned slice
// always ends with a single [KindEOF] token.
//
// Tokenize fails with an error matching [ErrLex] on the first character that
// starts no token, or on an unterminated comment or string.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{
		input: Normalize(source),
		line:  1,
		col:   1,
	}

	return lx.run()
}

// bracket records what opened a pending '[' so that the matching ']' can be
// classified.
type bracket int

const (
	bracketPlain bracket = iota
	bracketExpr
)

// lexer holds the scanner state.
type lexer struct {
	input    string
	pos      int
	line     int
	col      int
	brackets []bracket
	tokens   []Token
}

func (lx *lexer) run() ([]Token, error) {
	for !lx.eof() {
		start := lx.position()
		ch := lx.peek()

		switch {
		case ch == '#' && lx.peekAt(1) == '=':
			if err := lx.skipComment(); err != nil {
				return nil, err
			}

		case isDigit(ch) || (ch == '.' && isDigit(lx.peekAt(1))):
			lx.emit(KindNumber, lx.scanNumber(), start)

		case ch == '"':
			text, err := lx.scanString()
			if err != nil {
				return nil, err
			}

			lx.emit(KindString, text, start)

		case isIdentifierStart(ch):
			text := lx.scanIdentifier()
			if text == "mod" {
				lx.emit(KindMod, text, start)
			} else {
				lx.emit(KindIdentifier, text, start)
			}

		case ch == '@' && lx.peekAt(1) == '[':
			lx.advance()
			lx.advance()
			lx.brackets = append(lx.brackets, bracketExpr)
			lx.emit(KindExprOpen, "@[", start)

		case ch == '+' || ch == '-' || ch == '*' || ch == '/':
			lx.advance()
			lx.emit(KindOperator, string(ch), start)

		case ch == '[':
			lx.advance()
			lx.brackets = append(lx.brackets, bracketPlain)
			lx.emit(KindPunct, "[", start)

		case ch == ']':
			lx.advance()
			lx.emit(lx.closeBracket(), "]", start)

		case ch == '{' || ch == '}' || ch == ':' || ch == ',':
			lx.advance()
			lx.emit(KindPunct, string(ch), start)

		case ch == '=':
			lx.advance()
			lx.emit(KindAssign, "=", start)

		case ch == ';':
			lx.advance()
			lx.emit(KindSemicolon, ";", start)

		case isSpace(ch):
			lx.advance()

		default:
			return nil, ErrLex.WithPosition(start).With(
				slog.String("character", string(ch)),
			)
		}
	}

	lx.emit(KindEOF, "", lx.position())

	return lx.tokens, nil
}

func (lx *lexer) emit(kind Kind, text string, pos Position) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Pos: pos})
}

// closeBracket pops the innermost pending bracket and reports whether the
// ']' closes an inline expression.
func (lx *lexer) closeBracket() Kind {
	n := len(lx.brackets)
	if n == 0 {
		return KindPunct
	}

	top := lx.brackets[n-1]
	lx.brackets = lx.brackets[:n-1]

	if top == bracketExpr {
		return KindExprClose
	}

	return KindPunct
}

// skipComment discards a "#= ... =#" span, which may cross lines.
func (lx *lexer) skipComment() error {
	start := lx.position()

	lx.advance() // '#'
	lx.advance() // '='

	for !lx.eof() {
		if lx.peek() == '=' && lx.peekAt(1) == '#' {
			lx.advance()
			lx.advance()

			return nil
		}

		lx.advance()
	}

	return ErrLex.WithPosition(start).With(
		slog.String("reason", "unterminated comment"),
	)
}

// scanNumber consumes digits with at most one decimal point.
func (lx *lexer) scanNumber() string {
	start := lx.pos
	dot := false

	for !lx.eof() {
		ch := lx.peek()

		if ch == '.' && !dot {
			dot = true

			lx.advance()

			continue
		}

		if !isDigit(ch) {
			break
		}

		lx.advance()
	}

	return lx.input[start:lx.pos]
}

// scanString consumes a double-quoted string and returns its contents
// without the quotes. No escape sequences are recognized.
func (lx *lexer) scanString() (string, error) {
	start := lx.position()

	lx.advance() // opening quote

	from := lx.pos

	for !lx.eof() {
		if lx.peek() == '"' {
			text := lx.input[from:lx.pos]

			lx.advance() // closing quote

			return text, nil
		}

		lx.advance()
	}

	return "", ErrLex.WithPosition(start).With(
		slog.String("reason", "unterminated string"),
	)
}

func (lx *lexer) scanIdentifier() string {
	start := lx.pos

	lx.advance()

	for !lx.eof() && isIdentifierContinue(lx.peek()) {
		lx.advance()
	}

	return lx.input[start:lx.pos]
}

// Helper methods

func (lx *lexer) peek() rune {
	if lx.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(lx.input[lx.pos:])

	return r
}

// peekAt returns the rune n runes past the current position, or 0.
func (lx *lexer) peekAt(n int) rune {
	pos := lx.pos

	for range n {
		if pos >= len(lx.input) {
			return 0
		}

		_, size := utf8.DecodeRuneInString(lx.input[pos:])
		pos += size
	}

	if pos >= len(lx.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(lx.input[pos:])

	return r
}

func (lx *lexer) advance() {
	if lx.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(lx.input[lx.pos:])

	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
}

func (lx *lexer) eof() bool {
	return lx.pos >= len(lx.input)
}

func (lx *lexer) position() Position {
	return Position{
		Offset: lx.pos,
		Line:   lx.line,
		Column: lx.col,
	}
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(unicode.Is(unicode.Cyrillic, r) && unicode.IsLetter(r))
}

func isIdentifierStart(r rune) bool {
	return isLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_'
}
