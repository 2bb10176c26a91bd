package lang

import (
	"log/slog"
	"math"
)

// Evaluate computes a standalone postfix expression such as "@[3 4 +]".
// Identifiers in the expression are resolved against vars, which may be nil.
func Evaluate(source string, vars *Dictionary) (Value, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	c := &cursor{tokens: tokens}

	if tok := c.peek(); tok.Kind != KindExprOpen {
		return nil, ErrSyntax.WithPosition(tok.Pos).With(
			slog.String("expected", `"@["`),
			slog.String("found", tok.String()),
		)
	}

	c.next()

	v, err := evaluate(c, vars)
	if err != nil {
		return nil, err
	}

	if tok := c.peek(); tok.Kind != KindEOF {
		return nil, ErrSyntax.WithPosition(tok.Pos).With(
			slog.String("expected", "end of input"),
			slog.String("found", tok.String()),
		)
	}

	return v, nil
}

// evaluate runs the stack machine over the tokens following "@[" up to and
// including the matching "]". Each operator is applied immediately to the
// two most recently pushed operands.
func evaluate(c *cursor, vars *Dictionary) (Value, error) {
	var stack []Value

	for {
		tok := c.next()

		switch tok.Kind {
		case KindExprClose:
			if len(stack) != 1 {
				return nil, ErrMalformedExpression.WithPosition(tok.Pos).
					With(slog.Int("depth", len(stack)))
			}

			return stack[0], nil

		case KindNumber:
			v, err := parseNumber(tok)
			if err != nil {
				return nil, err
			}

			stack = append(stack, v)

		case KindIdentifier:
			v, err := resolve(vars, tok)
			if err != nil {
				return nil, err
			}

			if v.Type() != TypeInteger && v.Type() != TypeFloat {
				return nil, ErrType.WithPosition(tok.Pos).With(
					slog.String("name", tok.Text),
					slog.String("type", v.Type().String()),
					slog.String("expected", "number"),
				)
			}

			stack = append(stack, v)

		case KindOperator, KindMod:
			n := len(stack)
			if n < 2 {
				return nil, ErrStackUnderflow.WithPosition(tok.Pos).With(
					slog.String("operator", tok.Text),
					slog.Int("depth", n),
				)
			}

			a, b := stack[n-2], stack[n-1]

			v, err := apply(tok, a, b)
			if err != nil {
				return nil, err
			}

			stack = append(stack[:n-2], v)

		case KindEOF:
			return nil, ErrSyntax.WithPosition(tok.Pos).With(
				slog.String("expected", `"]"`),
				slog.String("found", tok.String()),
			)

		case KindString, KindPunct, KindAssign, KindSemicolon, KindExprOpen:
			return nil, ErrSyntax.WithPosition(tok.Pos).With(
				slog.String("expected", "operand or operator"),
				slog.String("found", tok.String()),
			)
		}
	}
}

// apply computes a op b. Both operands are Integer or Float.
func apply(op Token, a, b Value) (Value, error) {
	x, xok := a.(Integer)
	y, yok := b.(Integer)

	if xok && yok {
		return applyInt(op, x, y)
	}

	return applyFloat(op, toFloat(a), toFloat(b))
}

// applyInt computes a op b in integer arithmetic. A sum, difference or
// product outside the int64 range is computed as a Float instead.
func applyInt(op Token, a, b Integer) (Value, error) {
	switch op.Text {
	case "+":
		if s := a + b; (s > a) == (b > 0) {
			return s, nil
		}

		return Float(float64(a) + float64(b)), nil
	case "-":
		if d := a - b; (d < a) == (b > 0) {
			return d, nil
		}

		return Float(float64(a) - float64(b)), nil
	case "*":
		if p, ok := mulInt(a, b); ok {
			return p, nil
		}

		return Float(float64(a) * float64(b)), nil
	case "/":
		if b == 0 {
			return nil, divisionByZero(op)
		}

		return Float(float64(a) / float64(b)), nil
	case "mod":
		if b == 0 {
			return nil, divisionByZero(op)
		}

		r := a % b
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}

		return r, nil
	}

	return nil, unknownOperator(op)
}

// mulInt returns a*b and whether the product fits in an int64.
func mulInt(a, b Integer) (Integer, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}

	return p, true
}

func applyFloat(op Token, a, b float64) (Value, error) {
	switch op.Text {
	case "+":
		return Float(a + b), nil
	case "-":
		return Float(a - b), nil
	case "*":
		return Float(a * b), nil
	case "/":
		if b == 0 {
			return nil, divisionByZero(op)
		}

		return Float(a / b), nil
	case "mod":
		if b == 0 {
			return nil, divisionByZero(op)
		}

		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}

		return Float(r), nil
	}

	return nil, unknownOperator(op)
}

func toFloat(v Value) float64 {
	switch v := v.(type) {
	case Integer:
		return float64(v)
	case Float:
		return float64(v)
	default:
		return math.NaN()
	}
}

func divisionByZero(op Token) error {
	return ErrDivisionByZero.WithPosition(op.Pos).
		With(slog.String("operator", op.Text))
}

func unknownOperator(op Token) error {
	return ErrSyntax.WithPosition(op.Pos).With(
		slog.String("expected", "operator"),
		slog.String("found", op.String()),
	)
}
