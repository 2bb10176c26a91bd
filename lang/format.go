package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the model in canonical cfgx syntax, one "var" statement per
// binding. Parsing the output yields a model equal to m.
func (m *Model) Format(_ context.Context, w io.Writer) error {
	var sb strings.Builder

	for name, v := range m.Bindings().All() {
		sb.WriteString(keywordVar)
		sb.WriteString(" ")
		sb.WriteString(name)
		sb.WriteString(" = ")
		writeValue(&sb, v)
		sb.WriteString(";\n")
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// writeValue writes v in source syntax. Negative numbers have no literal
// form and are written as the postfix expression "@[0 n -]".
func writeValue(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case Integer:
		if v == math.MinInt64 {
			// Its magnitude has no int64 literal.
			sb.WriteString("@[0 9223372036854775807 - 1 -]")

			return
		}

		if v < 0 {
			sb.WriteString("@[0 ")
			sb.WriteString(strings.TrimPrefix(v.String(), "-"))
			sb.WriteString(" -]")

			return
		}

		sb.WriteString(v.String())

	case Float:
		if math.Signbit(float64(v)) {
			sb.WriteString("@[0 ")
			sb.WriteString(floatLiteral(math.Abs(float64(v))))
			sb.WriteString(" -]")

			return
		}

		sb.WriteString(floatLiteral(float64(v)))

	case Text:
		sb.WriteString(`"`)
		sb.WriteString(string(v))
		sb.WriteString(`"`)

	case *Dictionary:
		sb.WriteString("{")

		i := 0
		for key, val := range v.All() {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(key)
			sb.WriteString(": ")
			writeValue(sb, val)

			i++
		}

		sb.WriteString("}")
	}
}

// FormatJSON writes the model as a JSON object with keys in binding order.
func (m *Model) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	data, err := json.Marshal(m.Bindings())
	if err != nil {
		return err
	}

	if indent > 0 {
		var buf bytes.Buffer

		err = json.Indent(&buf, data, "", strings.Repeat(" ", indent))
		if err != nil {
			return err
		}

		data = buf.Bytes()
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the model as YAML with keys in binding order.
func (m *Model) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(
		ctx,
		toMapSlice(m.Bindings()),
		opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	i := 0
	for key, v := range d.All() {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)

		i++
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// toMapSlice converts a dictionary to an ordered YAML mapping.
func toMapSlice(d *Dictionary) yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, d.Len())

	for key, v := range d.All() {
		var item any
		if nested, ok := v.(*Dictionary); ok {
			item = toMapSlice(nested)
		} else {
			item = ToNative(v)
		}

		ms = append(ms, yaml.MapItem{Key: key, Value: item})
	}

	return ms
}
