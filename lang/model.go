package lang

// Model is the fully resolved mapping of top-level names to values produced
// by parsing one source document.
//
// The embedded [Dictionary] exposes lookup and ordered iteration over the
// bindings. A Model is not modified after [Parse] returns.
type Model struct {
	*Dictionary
}

// NewModel returns a model whose bindings are d. A nil d yields an empty
// model.
func NewModel(d *Dictionary) *Model {
	if d == nil {
		d = NewDictionary()
	}

	return &Model{Dictionary: d}
}

// Bindings returns the top-level dictionary of the model.
func (m *Model) Bindings() *Dictionary {
	if m == nil {
		return nil
	}

	return m.Dictionary
}

// Equal reports whether m and other bind the same names, in the same order,
// to equal values.
func (m *Model) Equal(other *Model) bool {
	return Equal(m.Bindings(), other.Bindings())
}
