// Package profiling starts a pprof profile selected at build time with the
// profiling_cpu or profiling_mem tag. Without a tag Start does nothing.
package profiling

// Stopper provides a Stop() method
type Stopper interface {
	Stop()
}

// NopStopper does nothing
type NopStopper struct{}

// Stop implements Stopper
func (NopStopper) Stop() {}
