package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/cfgx/lang"
)

// commands are the session command names completed after a leading ':'.
var commands = []string{
	"clear", "edit", "help", "query", "quit", "reset", "source", "vars", "xml",
}

// builtinNames are the expr-lang builtin functions available to queries.
var builtinNames = slices.Sorted(maps.Keys(builtin.Index))

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the member-access dot, and punctuation shared by
// cfgx and expr-lang.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!', '@',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dot-separated member-access chain leading up to the
// current word. For input "x + server.tls.ce" with the word "ce", the parent
// path is "server.tls". Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// completion is the result of completing the word at the cursor.
type completion struct {
	matches    fuzzy.Matches
	start, end int
}

// complete computes the ranked completions for the word at cursor.
//
// After a leading ':' the word completes to command names. After a dot it
// completes to the entries of the dictionary named by the member chain, and
// all entries are offered before anything is typed. Elsewhere it completes
// to bound variable names and, outside postfix expressions, expr-lang
// builtins.
func complete(bindings *lang.Dictionary, input string, cursor int) completion {
	word, start, end := wordBounds(input, cursor)

	var candidates []string

	switch parent := parentPath(input, start); {
	case start == 1 && strings.HasPrefix(input, ":"):
		candidates = commands

	case parent != "":
		candidates = childNames(bindings, parent)
		if word == "" {
			return completion{matches: allMatches(candidates), start: start, end: end}
		}

	case word == "":
		return completion{start: start, end: end}

	default:
		candidates = bindings.Keys()
		if !inPostfix(input[:start]) {
			candidates = append(candidates, builtinNames...)
		}
	}

	return completion{
		matches: fuzzy.Find(word, candidates),
		start:   start,
		end:     end,
	}
}

// inPostfix reports whether prefix ends inside an unclosed "@[".
func inPostfix(prefix string) bool {
	open := strings.LastIndex(prefix, "@[")

	return open >= 0 && !strings.Contains(prefix[open:], "]")
}

// childNames resolves a dot-separated path through nested dictionaries and
// returns the keys of the dictionary it names.
func childNames(bindings *lang.Dictionary, path string) []string {
	d := bindings

	for seg := range strings.SplitSeq(path, ".") {
		v, ok := d.Get(seg)
		if !ok {
			return nil
		}

		if d, ok = v.(*lang.Dictionary); !ok {
			return nil
		}
	}

	return d.Keys()
}

func allMatches(candidates []string) fuzzy.Matches {
	if len(candidates) == 0 {
		return nil
	}

	matches := make(fuzzy.Matches, len(candidates))
	for i, c := range candidates {
		matches[i] = fuzzy.Match{Str: c, Index: i}
	}

	return matches
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)
		w := lipgloss.Width(rendered)

		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && used+w+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Builtin functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	matched := 0

	for i, r := range match.Str {
		style := base
		if matched < len(match.MatchedIndexes) && match.MatchedIndexes[matched] == i {
			style = highlight
			matched++
		}

		b.WriteString(style.Render(string(r)))
	}

	if _, ok := builtin.Index[match.Str]; ok {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
