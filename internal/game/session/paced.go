package session

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Paced is a Notifier that pauses after every turn so a human can follow the battle.
type Paced struct {
	delay time.Duration
	sleep func(time.Duration)
}

// NewPaced creates a Paced notifier. A non-positive delay never pauses.
func NewPaced(delay time.Duration) *Paced {
	return &Paced{delay: delay, sleep: time.Sleep}
}

// Notify sleeps for the configured delay when e ends a turn.
func (p *Paced) Notify(e combat.Event) {
	if e.Kind == combat.EventTurnEnded && p.delay > 0 {
		p.sleep(p.delay)
	}
}
