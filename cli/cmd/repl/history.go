package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	baseHistory = "history.utf8"

	// maxHistory bounds the number of entries kept on disk.
	maxHistory = 1000
)

// History manages input history with file persistence.
//
// Entries are stored one per line, oldest first. Re-entering a line moves it
// to the end instead of recording it twice.
type History struct {
	path    string
	entries []string
	mu      sync.RWMutex
}

// NewHistory creates a new History backed by the file at path. An empty
// path keeps history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file. A missing file is not an
// error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, line)
		}
	}

	h.trim()

	return scanner.Err()
}

// Add appends entry to the history, removing an earlier identical entry.
func (h *History) Add(entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" || strings.ContainsAny(entry, "\r\n") {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.entries)
	if n > 0 && h.entries[n-1] == entry {
		return nil
	}

	idx := slices.Index(h.entries, entry)
	if idx >= 0 {
		h.entries = slices.Delete(h.entries, idx, idx+1)
	}

	h.entries = append(h.entries, entry)

	if idx >= 0 || h.trim() {
		return h.rewriteFile()
	}

	return h.appendFile(entry)
}

// Entry retrieves a historic entry by index. Index 0 is the oldest entry.
func (h *History) Entry(i int) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all history entries.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// trim drops the oldest entries beyond maxHistory and reports whether any
// were dropped. Must be called with h.mu held.
func (h *History) trim() bool {
	if excess := len(h.entries) - maxHistory; excess > 0 {
		h.entries = slices.Delete(h.entries, 0, excess)

		return true
	}

	return false
}

// appendFile appends a single entry. Must be called with h.mu held.
func (h *History) appendFile(entry string) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry + "\n")

	return err
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder

	for _, entry := range h.entries {
		sb.WriteString(entry)
		sb.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(sb.String()), 0o600)
}
