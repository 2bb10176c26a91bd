package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/beevik/etree"
)

// XML element and attribute names.
const (
	xmlRoot       = "config"
	xmlDictionary = "dictionary"
	xmlEntry      = "entry"
	xmlName       = "name"
	xmlValue      = "value"
)

// Generate renders m as an XML document with a single "config" root.
//
// Top-level scalars become attributes of the root. Each dictionary becomes a
// "dictionary" element named by its binding, holding one "entry" element per
// scalar and one nested "dictionary" element per nested dictionary.
func Generate(m *Model) (string, error) {
	doc := Document(m)

	s, err := doc.WriteToString()
	if err != nil {
		return "", ErrGenerate.Wrap(err)
	}

	return s, nil
}

// Document builds the XML tree for m.
//
// Attribute values are written in canonical form: '&', '<' and '"' become
// entity references, and tab, newline and carriage return become character
// references so that parsers do not normalize them to spaces.
func Document(m *Model) *etree.Document {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalAttrVal = true

	root := doc.CreateElement(xmlRoot)

	for name, v := range m.Bindings().All() {
		if d, ok := v.(*Dictionary); ok {
			addDictionary(root, name, d)

			continue
		}

		root.CreateAttr(name, v.String())
	}

	return doc
}

func addDictionary(parent *etree.Element, name string, d *Dictionary) {
	el := parent.CreateElement(xmlDictionary)
	el.CreateAttr(xmlName, name)

	for key, v := range d.All() {
		if nested, ok := v.(*Dictionary); ok {
			addDictionary(el, key, nested)

			continue
		}

		entry := el.CreateElement(xmlEntry)
		entry.CreateAttr(xmlName, key)
		entry.CreateAttr(xmlValue, v.String())
	}
}

// WriteXML writes the XML rendering of m to w. With [WithIndent] the tree
// is indented; otherwise the document is written on a single line.
func (m *Model) WriteXML(ctx context.Context, w io.Writer, opts ...Option) error {
	cfg := makeConfig(opts...)
	doc := Document(m)

	if cfg.indent > 0 {
		doc.Indent(cfg.indent)
	}

	n, err := doc.WriteTo(w)
	if err != nil {
		return ErrGenerate.Wrap(err)
	}

	cfg.logger.TraceContext(ctx, "xml written",
		slog.Int64("bytes", n),
		slog.Int("indent", cfg.indent))

	if cfg.indent == 0 {
		_, err = io.WriteString(w, "\n")
		if err != nil {
			return ErrGenerate.Wrap(err)
		}
	}

	return nil
}
