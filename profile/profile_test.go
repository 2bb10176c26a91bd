package profile

import "testing"

func TestProfiler_Start_EmptyModeIsNoop(t *testing.T) {
	stop := Profiler{}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("Start() = %T, want ignore", stop)
	}

	stop.Stop()
}

func TestProfiler_Start_UnknownModeIsNoop(t *testing.T) {
	stop := Profiler{Mode: "not-a-mode", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("Start() = %T, want ignore", stop)
	}

	stop.Stop()
}

func TestEnabled(t *testing.T) {
	for _, m := range Modes() {
		if !Enabled(m) {
			t.Errorf("Enabled(%q) = false for listed mode", m)
		}
	}

	if Enabled("") {
		t.Error(`Enabled("") = true`)
	}
}
