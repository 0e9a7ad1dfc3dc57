package frontend

import (
	"time"

	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

const directions = types.ButtonUp | types.ButtonDown | types.ButtonLeft | types.ButtonRight

// InputPoller turns held menu buttons into per-tick presses. Action buttons
// fire once per press; a held direction fires immediately, then again after
// the repeat delay and every repeat interval after that.
type InputPoller struct {
	delay    time.Duration
	interval time.Duration

	prev      types.Buttons
	direction types.Buttons
	nextMove  time.Time
	ignoring  bool
}

// NewInputPoller creates a poller with the given repeat timing.
func NewInputPoller(delay, interval time.Duration) *InputPoller {
	return &InputPoller{delay: delay, interval: interval}
}

// Ignore drops all input until every button has been released, so a button
// still held from the previous screen does not act on the next one.
func (ip *InputPoller) Ignore() {
	ip.ignoring = true
	ip.direction = 0
}

// Poll returns the buttons pressed or repeating at now given the buttons
// currently held.
func (ip *InputPoller) Poll(held types.Buttons, now time.Time) types.Buttons {
	defer func() { ip.prev = held }()

	if ip.ignoring {
		if held != 0 {
			return 0
		}
		ip.ignoring = false
	}

	result := held &^ ip.prev &^ directions

	dir := firstDirection(held)
	switch {
	case dir == 0:
		ip.direction = 0
	case dir != ip.direction:
		ip.direction = dir
		ip.nextMove = now.Add(ip.delay)
		result |= dir
	case !now.Before(ip.nextMove):
		ip.nextMove = now.Add(ip.interval)
		result |= dir
	}

	return result
}

// firstDirection keeps one direction, vertical first.
func firstDirection(held types.Buttons) types.Buttons {
	for _, d := range []types.Buttons{types.ButtonUp, types.ButtonDown, types.ButtonLeft, types.ButtonRight} {
		if held.Has(d) {
			return d
		}
	}
	return 0
}
