// Package topology defines how tiles discover their neighbours. The halo
// exchanger is written entirely against the Topology/Handle interfaces so
// it never depends on a concrete mesh layout; GridTopology is the one
// reference implementation the core ships.
package topology

import "github.com/camiliad/runko/yee"

// Delta names an offset into one of the 3^D - 1 neighbour directions. Axes
// beyond a tile's own dimensionality are always 0.
type Delta [3]int

// Handle is the read side of a tile a Topology hands back: enough to copy
// or fold its field/current buffers without the halo package depending on
// package tile.
type Handle interface {
	ID() int
	Extents() (nx, ny, nz, h int)
	Precision() string
	Lattice() *yee.YeeLattice
}

// Topology resolves a tile id plus a neighbour direction to that
// neighbour's handle. ok is false at an open (non-periodic) boundary; the
// halo exchanger skips the direction entirely in that case.
type Topology interface {
	Neighbour(id int, delta Delta) (h Handle, ok bool)
}

// Directions enumerates every one of the 3^dim - 1 neighbour directions for
// a tile of the given active dimensionality, leaving axes beyond dim fixed
// at 0.
func Directions(dim int) []Delta {
	var out []Delta
	var rec func(axis int, cur Delta)
	rec = func(axis int, cur Delta) {
		if axis == dim {
			if cur != (Delta{}) {
				out = append(out, cur)
			}
			return
		}
		for _, v := range [3]int{-1, 0, 1} {
			next := cur
			next[axis] = v
			rec(axis+1, next)
		}
	}
	rec(0, Delta{})
	return out
}
