package profile

import "slices"

// Stopper stops a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Dir is the output directory, or the working directory if empty.
	Dir string
	// Quiet suppresses the messages of the profiler.
	Quiet bool
}

// Enabled reports whether Start would begin profiling.
func (p Profiler) Enabled() bool { return slices.Contains(Modes(), p.Mode) }

// Start begins profiling. The returned Stopper is always safe to call.
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
