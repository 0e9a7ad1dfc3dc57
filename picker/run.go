package picker

import (
	"context"
	"log"
	"time"

	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

// tickInterval is the fixed sleep between loop iterations.
var tickInterval = 10 * time.Millisecond

// Run opens the picker and drives it until it terminates: each tick polls
// the platform, advances the picker, draws it and presents the frame.
//
// On ResultLoaded the chosen slot is already the live state and the caller
// should resume emulation directly. Any other result leaves the state the
// emulator had before Run was called. Cancelling ctx backs out between
// ticks as if the user had cancelled.
func Run(ctx context.Context, sess *Session, mode Mode, platform types.Platform) (Result, error) {
	p, err := New(sess, mode)
	if err != nil {
		return ResultNone, err
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for !p.Done() {
		select {
		case <-ctx.Done():
			p.Cancel()
			return p.Result(), ctx.Err()
		case <-ticker.C:
		}

		p.Update(platform.PollInput())
		p.Draw(platform.Display())
		if err := platform.Present(); err != nil {
			log.Printf("Warning: present failed: %v", err)
		}
	}

	return p.Result(), nil
}
