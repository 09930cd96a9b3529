// Package profile runs optional [github.com/pkg/profile] profiling.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	symscope --pprof-mode cpu --pprof-dir ./profiles eval '2 ^ 64'
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Without the tag [Modes] is empty and a [Profiler] never starts, so
// callers need no build constraints of their own. Builds with the tag also
// register the [net/http/pprof] handlers.
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
