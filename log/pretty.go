package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handler. Styles are bound to a
// renderer for the handler's writer, so color is dropped automatically when
// the output is not a terminal.
type palette struct {
	key, str, num, punct lipgloss.Style
	trace, debug, info   lipgloss.Style
	warn, err            lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		punct: fg("8"),
		trace: fg("5"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// field is one rendered key/value pair. Groups become nested fields.
type field struct {
	key    string
	value  slog.Value
	nested []field
}

// prettyHandler writes records either as colored key=value lines or as
// indented JSON objects with colored keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	json   bool
	style  palette
	attrs  []field
	groups []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	format Format,
) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		json:  format == FormatJSON,
		style: newPalette(w),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []field

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if !a.Equal(slog.Attr{}) {
			fields = append(fields, field{key: a.Key, value: a.Value.Resolve()})
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	var local []field

	r.Attrs(func(a slog.Attr) bool {
		local = appendField(local, a)

		return true
	})

	fields = append(fields, h.attrs...)
	fields = append(fields, wrapGroups(h.groups, local)...)

	var buf bytes.Buffer

	if h.json {
		h.writeObject(&buf, fields, r.Level, 0)
	} else {
		h.writeText(&buf, "", fields, r.Level)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var local []field
	for _, a := range attrs {
		local = appendField(local, a)
	}

	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)],
		wrapGroups(h.groups, local)...)
	c.groups = nil

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// appendField resolves a and appends it to fields, inlining empty-keyed
// groups and dropping empty attributes.
func appendField(fields []field, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() != slog.KindGroup {
		return append(fields, field{key: a.Key, value: a.Value})
	}

	var nested []field
	for _, g := range a.Value.Group() {
		nested = appendField(nested, g)
	}

	if len(nested) == 0 {
		return fields
	}

	if a.Key == "" {
		return append(fields, nested...)
	}

	return append(fields, field{key: a.Key, nested: nested})
}

// wrapGroups nests fields inside the open groups, innermost last.
func wrapGroups(groups []string, fields []field) []field {
	if len(fields) == 0 {
		return nil
	}

	for i := len(groups) - 1; i >= 0; i-- {
		fields = []field{{key: groups[i], nested: fields}}
	}

	return fields
}

func (h *prettyHandler) writeText(
	buf *bytes.Buffer,
	prefix string,
	fields []field,
	level slog.Level,
) {
	for _, f := range fields {
		if f.nested != nil {
			h.writeText(buf, prefix+f.key+".", f.nested, level)

			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(prefix + f.key))
		buf.WriteString(h.style.punct.Render("="))

		if prefix == "" && f.key == slog.LevelKey {
			buf.WriteString(h.style.level(level).Render(f.value.String()))

			continue
		}

		buf.WriteString(h.textValue(f.value))
	}
}

func (h *prettyHandler) textValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}

		return h.style.str.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64,
		slog.KindDuration, slog.KindBool:
		return h.style.num.Render(v.String())

	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return h.style.err.Render(strconv.Quote(err.Error()))
		}

		return h.style.str.Render(v.String())

	default:
		return h.style.str.Render(v.String())
	}
}

func (h *prettyHandler) writeObject(
	buf *bytes.Buffer,
	fields []field,
	level slog.Level,
	depth int,
) {
	indent := strings.Repeat("  ", depth+1)

	buf.WriteString(h.style.punct.Render("{"))

	for i, f := range fields {
		if i > 0 {
			buf.WriteString(h.style.punct.Render(","))
		}

		buf.WriteByte('\n')
		buf.WriteString(indent)
		buf.WriteString(h.style.key.Render(strconv.Quote(f.key)))
		buf.WriteString(h.style.punct.Render(":"))
		buf.WriteByte(' ')

		switch {
		case f.nested != nil:
			h.writeObject(buf, f.nested, level, depth+1)

		case depth == 0 && f.key == slog.LevelKey:
			buf.WriteString(
				h.style.level(level).Render(strconv.Quote(f.value.String())))

		default:
			buf.WriteString(h.jsonValue(f.value))
		}
	}

	if len(fields) > 0 {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
	}

	buf.WriteString(h.style.punct.Render("}"))
}

func (h *prettyHandler) jsonValue(v slog.Value) string {
	var a any

	switch v.Kind() {
	case slog.KindString:
		return h.style.str.Render(strconv.Quote(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
		return h.style.num.Render(v.String())

	case slog.KindDuration:
		a = v.Duration().String()

	case slog.KindTime:
		a = v.Time()

	default:
		a = v.Any()
		if err, ok := a.(error); ok {
			return h.style.err.Render(strconv.Quote(err.Error()))
		}
	}

	data, err := json.Marshal(a)
	if err != nil {
		return h.style.str.Render(strconv.Quote(v.String()))
	}

	return h.style.str.Render(string(data))
}
