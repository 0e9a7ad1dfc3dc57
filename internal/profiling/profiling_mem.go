//go:build profiling_mem

package profiling

import (
	"log"

	"github.com/pkg/profile"
)

// Start writes a heap profile into dir when Stop is called.
func Start(dir string) Stopper {
	log.Printf("Memory profiling build, writing profile to %s", dir)
	return profile.Start(
		profile.MemProfile,
		profile.ProfilePath(dir),
	)
}
