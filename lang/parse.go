package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/cfgx/log"
)

// keywordVar introduces a variable declaration.
const keywordVar = "var"

// ParseReader parses a model from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString tokenizes and parses source text into a model.
func ParseString(ctx context.Context, s string, opts ...Option) (*Model, error) {
	cfg := makeConfig(opts...)

	tokens, err := Tokenize(s)
	if err != nil {
		cfg.logger.TraceContext(ctx, "tokenize failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "tokenize complete",
		slog.Int("token_count", len(tokens)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parse(ctx, tokens, cfg.logger)
}

// Parse builds a model from a token stream produced by [Tokenize].
//
// Statements are evaluated strictly in order: an identifier may only refer
// to a variable bound by an earlier statement. Rebinding a name replaces
// its earlier value.
func Parse(tokens []Token) (*Model, error) {
	return parse(context.Background(), tokens, log.Logger{})
}

func parse(ctx context.Context, tokens []Token, logger log.Logger) (*Model, error) {
	p := &parser{
		cursor: &cursor{tokens: tokens},
		vars:   NewDictionary(),
		logger: logger,
	}

	m, err := p.parseProgram(ctx)
	if err != nil {
		return nil, err
	}

	logger.TraceContext(ctx, "parse complete",
		slog.Int("binding_count", m.Len()))

	return m, nil
}

// cursor is a read-once position in a token stream. Reading past the end
// yields the final token, which is always EOF for streams built by
// [Tokenize].
type cursor struct {
	tokens []Token
	pos    int
}

func (c *cursor) peek() Token {
	if c.pos < len(c.tokens) {
		return c.tokens[c.pos]
	}

	if n := len(c.tokens); n > 0 && c.tokens[n-1].Kind == KindEOF {
		return c.tokens[n-1]
	}

	return Token{Kind: KindEOF}
}

func (c *cursor) next() Token {
	tok := c.peek()
	if c.pos < len(c.tokens) {
		c.pos++
	}

	return tok
}

// parser holds the parser state. The symbol table vars grows by one binding
// per statement and is shared with the postfix evaluator.
type parser struct {
	*cursor

	vars   *Dictionary
	logger log.Logger
}

// parseProgram parses: Statement* | Dictionary.
func (p *parser) parseProgram(ctx context.Context) (*Model, error) {
	if p.peek().Is(KindPunct, "{") {
		d, err := p.parseDictionary()
		if err != nil {
			return nil, err
		}

		if tok := p.peek(); tok.Kind != KindEOF {
			return nil, p.unexpected("end of input")
		}

		return NewModel(d), nil
	}

	for p.peek().Kind != KindEOF {
		err := p.parseStatement(ctx)
		if err != nil {
			return nil, err
		}
	}

	return NewModel(p.vars), nil
}

// parseStatement parses: 'var' Identifier '=' Value ';'?.
func (p *parser) parseStatement(ctx context.Context) error {
	if !p.peek().Is(KindIdentifier, keywordVar) {
		return p.unexpected(strconv.Quote(keywordVar))
	}

	p.next()

	name := p.peek()
	if name.Kind != KindIdentifier {
		return p.unexpected("identifier")
	}

	p.next()

	if p.peek().Kind != KindAssign {
		return p.unexpected(strconv.Quote("="))
	}

	p.next()

	value, err := p.parseValue()
	if err != nil {
		return err
	}

	if p.peek().Kind == KindSemicolon {
		p.next()
	}

	p.vars.Set(name.Text, value)

	p.logger.TraceContext(ctx, "bind variable",
		slog.String("name", name.Text),
		slog.String("type", value.Type().String()),
		slog.String("pos", name.Pos.String()))

	return nil
}

// parseValue parses: Number | String | Identifier | Dictionary | PostfixExpr.
func (p *parser) parseValue() (Value, error) {
	tok := p.peek()

	switch tok.Kind {
	case KindNumber:
		p.next()

		return parseNumber(tok)

	case KindString:
		p.next()

		return Text(tok.Text), nil

	case KindIdentifier:
		p.next()

		return resolve(p.vars, tok)

	case KindPunct:
		if tok.Text == "{" {
			return p.parseDictionary()
		}

	case KindExprOpen:
		p.next()

		return evaluate(p.cursor, p.vars)

	case KindEOF, KindOperator, KindMod, KindAssign, KindSemicolon,
		KindExprClose:
	}

	return nil, p.unexpected("value")
}

// parseDictionary parses: '{' (Identifier ':' Value (',' Identifier ':' Value)*)? '}'.
func (p *parser) parseDictionary() (*Dictionary, error) {
	if !p.peek().Is(KindPunct, "{") {
		return nil, p.unexpected(strconv.Quote("{"))
	}

	p.next()

	d := NewDictionary()

	if p.peek().Is(KindPunct, "}") {
		p.next()

		return d, nil
	}

	for {
		key := p.peek()
		if key.Kind != KindIdentifier {
			return nil, p.unexpected("identifier")
		}

		p.next()

		if !p.peek().Is(KindPunct, ":") {
			return nil, p.unexpected(strconv.Quote(":"))
		}

		p.next()

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		d.Set(key.Text, value)

		switch tok := p.peek(); {
		case tok.Is(KindPunct, ","):
			p.next()

		case tok.Is(KindPunct, "}"):
			p.next()

			return d, nil

		default:
			return nil, p.unexpected(`"," or "}"`)
		}
	}
}

// unexpected reports a syntax error at the current token.
func (p *parser) unexpected(expected string) error {
	tok := p.peek()

	return ErrSyntax.WithPosition(tok.Pos).With(
		slog.String("expected", expected),
		slog.String("found", tok.String()),
	)
}

// parseNumber converts a Number token to an Integer, or to a Float when the
// literal contains a decimal point or is too large for an int64.
func parseNumber(tok Token) (Value, error) {
	if strings.Contains(tok.Text, ".") {
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, ErrSyntax.WithPosition(tok.Pos).
				With(slog.String("number", tok.Text)).
				Wrap(err)
		}

		return Float(f), nil
	}

	i, err := strconv.ParseInt(tok.Text, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		f, ferr := strconv.ParseFloat(tok.Text, 64)
		if ferr == nil {
			return Float(f), nil
		}
	}

	if err != nil {
		return nil, ErrSyntax.WithPosition(tok.Pos).
			With(slog.String("number", tok.Text)).
			Wrap(err)
	}

	return Integer(i), nil
}

// resolve returns a copy of the value bound to the identifier tok.
func resolve(vars *Dictionary, tok Token) (Value, error) {
	v, ok := vars.Get(tok.Text)
	if !ok {
		return nil, ErrUndefinedVariable.WithPosition(tok.Pos).
			With(slog.String("name", tok.Text))
	}

	return v.Clone(), nil
}
