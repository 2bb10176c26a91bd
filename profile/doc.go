// Package profile provides optional runtime profiling for cfgx.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag. Without the tag, [Modes] is empty and
// [Profiler.Start] returns a no-op stopper.
//
//	go build -tags pprof .
//	./cfgx --pprof-mode cpu xml large.cfgx
//	go tool pprof -http=: ~/.cache/cfgx/pprof/cpu.pprof
//
// Builds with the tag also import [net/http/pprof], registering the
// /debug/pprof/ handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
