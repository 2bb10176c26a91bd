package repl

import "testing"

func TestProgramOptions(t *testing.T) {
	t.Parallel()

	// Reading the initial source from stdin leaves it at EOF, so input must
	// come from the terminal.
	if got := len(programOptions(t.Context(), true)); got != 2 {
		t.Errorf("programOptions(stdinRead) has %d options, want 2", got)
	}

	if got := len(programOptions(t.Context(), false)); got != 1 {
		t.Errorf("programOptions() has %d options, want 1", got)
	}
}
