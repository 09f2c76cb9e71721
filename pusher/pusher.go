// Package pusher defines the seam between the field solver and a particle
// pusher. No concrete particle species or deposition scheme lives here: the
// field core only needs to know that something can deposit current into a
// tile after PushE and before the current halo exchange.
package pusher

import "github.com/camiliad/runko/tile"

// CurrentProducer deposits current into t's live J buffers for the step
// about to run. Implementations own their own particle state; the field
// core only calls Deposit and then reads t.Lattice().Jx/Jy/Jz.
type CurrentProducer interface {
	Deposit(t *tile.Tile) error
}

// NullProducer is a CurrentProducer that deposits nothing, useful for
// running the field core in isolation (vacuum propagation, the S1/S2
// scenarios) without wiring a real particle pusher.
type NullProducer struct{}

// Deposit satisfies CurrentProducer by doing nothing.
func (NullProducer) Deposit(t *tile.Tile) error { return nil }
