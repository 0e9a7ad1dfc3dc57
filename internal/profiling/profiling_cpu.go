//go:build profiling_cpu

package profiling

import (
	"log"

	"github.com/pkg/profile"
)

// Start writes a CPU profile into dir until Stop is called.
func Start(dir string) Stopper {
	log.Printf("CPU profiling build, writing profile to %s", dir)
	return profile.Start(
		profile.CPUProfile,
		profile.ProfilePath(dir),
	)
}
