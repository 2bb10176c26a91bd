package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/cfgx/lang"
	"github.com/ardnew/cfgx/log"
)

// action tells the UI what to do after a response is shown.
type action int

const (
	actionNone action = iota
	actionQuit
	actionClear
	actionEdit
)

// response is the outcome of one line of input.
type response struct {
	text   string
	err    error
	action action
}

// Session holds the accumulated source of a REPL and the model it
// translates to. Statements that fail to parse are rejected without
// changing the session.
type Session struct {
	initial string
	source  string
	model   *lang.Model
	logger  log.Logger
}

// NewSession parses source as the starting state of a session.
func NewSession(
	ctx context.Context,
	source string,
	logger log.Logger,
) (*Session, error) {
	model, err := lang.ParseString(ctx, source, lang.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &Session{
		initial: source,
		source:  source,
		model:   model,
		logger:  logger,
	}, nil
}

// Source returns the session's accumulated source text.
func (s *Session) Source() string { return s.source }

// Model returns the model of the accumulated source.
func (s *Session) Model() *lang.Model { return s.model }

// Replace parses source and, if it is valid, makes it the session's source.
func (s *Session) Replace(ctx context.Context, source string) error {
	model, err := lang.ParseString(ctx, source, lang.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.source, s.model = source, model

	return nil
}

// Names returns the bound variable names in binding order.
func (s *Session) Names() []string { return s.model.Keys() }

// Handle interprets one line of input:
//
//   - ":cmd args" runs a session command (see [helpMessage]).
//   - "var ..." and comments extend the session source.
//   - "@[...]" evaluates a postfix expression over the current bindings.
//   - Anything else is a query over the current bindings.
func (s *Session) Handle(ctx context.Context, input string) response {
	input = strings.TrimSpace(input)

	switch {
	case input == "":
		return response{}

	case strings.HasPrefix(input, ":"):
		return s.command(ctx, input[1:])

	case isStatement(input):
		return s.extend(ctx, input)

	case strings.HasPrefix(input, "@["):
		v, err := lang.Evaluate(input, s.model.Bindings())
		if err != nil {
			return response{err: err}
		}

		return response{text: v.String()}

	default:
		return s.query(ctx, input)
	}
}

func isStatement(input string) bool {
	if strings.HasPrefix(input, "#=") {
		return true
	}

	rest, ok := strings.CutPrefix(input, "var")

	return ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t')
}

func (s *Session) extend(ctx context.Context, input string) response {
	err := s.Replace(ctx, s.source+"\n"+input)
	if err != nil {
		return response{err: err}
	}

	s.logger.TraceContext(ctx, "repl statement accepted",
		slog.Int("bindings", s.model.Len()))

	return response{}
}

func (s *Session) query(ctx context.Context, expression string) response {
	result, err := s.model.Query(ctx, expression, lang.WithLogger(s.logger))
	if err != nil {
		return response{err: err}
	}

	return response{text: lang.FormatResult(result)}
}

func (s *Session) command(ctx context.Context, line string) response {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	args = strings.TrimSpace(args)

	s.logger.TraceContext(ctx, "repl command",
		slog.String("command", name),
		slog.String("args", args))

	switch name {
	case "q", "quit", "exit":
		return response{action: actionQuit}

	case "h", "help":
		return response{text: helpMessage()}

	case "c", "clear":
		return response{action: actionClear}

	case "e", "edit":
		return response{action: actionEdit}

	case "x", "xml":
		indent := 0
		if args != "" {
			n, err := strconv.Atoi(args)
			if err != nil {
				return response{err: fmt.Errorf("%w: indent %q", ErrUsage, args)}
			}

			indent = n
		}

		var sb strings.Builder

		err := s.model.WriteXML(ctx, &sb, lang.WithIndent(indent))
		if err != nil {
			return response{err: err}
		}

		return response{text: strings.TrimSuffix(sb.String(), "\n")}

	case "v", "vars":
		return response{text: s.listVars()}

	case "s", "source":
		var sb strings.Builder

		if err := s.model.Format(ctx, &sb); err != nil {
			return response{err: err}
		}

		return response{text: strings.TrimSuffix(sb.String(), "\n")}

	case "query":
		if args == "" {
			return response{err: fmt.Errorf("%w: :query EXPRESSION", ErrUsage)}
		}

		return s.query(ctx, args)

	case "r", "reset":
		if err := s.Replace(ctx, s.initial); err != nil {
			return response{err: err}
		}

		return response{text: "session reset"}

	default:
		return response{
			err: fmt.Errorf("%w: %s (try :help)", ErrUnknownCommand, name),
		}
	}
}

func (s *Session) listVars() string {
	var b strings.Builder

	for name, v := range s.model.Bindings().All() {
		preview := v.String()
		if r := []rune(preview); len(r) > previewWidth {
			preview = string(r[:previewWidth-1]) + "…"
		}

		fmt.Fprintf(&b, "%s %s %s\n", name, hintStyle.Render(v.Type().String()), preview)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

const previewWidth = 60

func helpMessage() string {
	return `Input:
  var name = value;   bind a variable (extends the session)
  @[a b op ...]       evaluate a postfix expression
  expression          query the bindings (e.g. server.port + 1)

Commands:
  :xml [indent]       print the XML translation
  :vars               list bound variables
  :source             print the session in canonical form
  :query EXPRESSION   query the bindings
  :edit               edit the session source in $EDITOR
  :reset              discard statements entered in this session
  :clear              clear the screen
  :help               print this message
  :quit               exit (also Ctrl+D, or Ctrl+C on an empty line)

Keys:
  Tab / Shift+Tab     cycle completions
  Up / Down           navigate history`
}
