package profile

// Profiler holds the parameters of a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the directory profile data is written to. Empty means the
	// working directory.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Stopper ends a profiling session and flushes its data.
type Stopper interface{ Stop() }

// Start begins profiling according to p. Both Start and the returned
// Stopper are always safe to call, even when profiling is compiled out.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether mode names a profiling mode supported by this
// build.
func Enabled(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}

	return false
}

type ignore struct{}

func (ignore) Stop() {}
