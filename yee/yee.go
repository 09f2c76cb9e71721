// Package yee holds the staggered-grid electromagnetic field buffers
// (YeeLattice) and the fixed-depth history ring (SnapshotRing) a tile
// cycles through one step at a time.
package yee

import "github.com/camiliad/runko/ndarray"

// YeeLattice bundles the twelve component buffers living on one tile at one
// instant: the three E components, the three B components, the current
// deposit pair (J, J') used for the two-phase deposit/cycle scheme.
type YeeLattice struct {
	Ex, Ey, Ez *ndarray.NDArray3
	Bx, By, Bz *ndarray.NDArray3
	Jx, Jy, Jz *ndarray.NDArray3

	// Jx1/Jy1/Jz1 are the secondary current buffers CycleCurrent swaps
	// with Jx/Jy/Jz; a current producer may use them as scratch between
	// cycles.
	Jx1, Jy1, Jz1 *ndarray.NDArray3
}

// New allocates a zeroed lattice over a logical extent of nx x ny x nz with
// ghost band h.
func New(nx, ny, nz, h int) *YeeLattice {
	mk := func() *ndarray.NDArray3 { return ndarray.New(nx, ny, nz, h) }
	return &YeeLattice{
		Ex: mk(), Ey: mk(), Ez: mk(),
		Bx: mk(), By: mk(), Bz: mk(),
		Jx: mk(), Jy: mk(), Jz: mk(),
		Jx1: mk(), Jy1: mk(), Jz1: mk(),
	}
}

// Zero clears every component buffer.
func (y *YeeLattice) Zero() {
	for _, c := range y.components() {
		c.Zero()
	}
}

func (y *YeeLattice) components() []*ndarray.NDArray3 {
	return []*ndarray.NDArray3{
		y.Ex, y.Ey, y.Ez,
		y.Bx, y.By, y.Bz,
		y.Jx, y.Jy, y.Jz,
		y.Jx1, y.Jy1, y.Jz1,
	}
}

// FieldComponents returns the six E/B buffers, the set exchanged by the
// field copy-halo.
func (y *YeeLattice) FieldComponents() []*ndarray.NDArray3 {
	return []*ndarray.NDArray3{y.Ex, y.Ey, y.Ez, y.Bx, y.By, y.Bz}
}

// CurrentComponents returns the three live current buffers, the set
// exchanged by the current add-halo. Jx1/Jy1/Jz1 never participate in halo
// exchange; they are private scratch for the current producer.
func (y *YeeLattice) CurrentComponents() []*ndarray.NDArray3 {
	return []*ndarray.NDArray3{y.Jx, y.Jy, y.Jz}
}

// CycleCurrent swaps the live current buffers with their scratch pair,
// exactly once per step per the ordering guarantee in the orchestrator.
func (y *YeeLattice) CycleCurrent() {
	y.Jx, y.Jx1 = y.Jx1, y.Jx
	y.Jy, y.Jy1 = y.Jy1, y.Jy
	y.Jz, y.Jz1 = y.Jz1, y.Jz
}

// SnapshotRing is a fixed-depth cyclic history of lattices. Get(0) is
// always the current (writable) snapshot; Get(i) for i>0 looks progressively
// further into the past. Cycle() advances time by one step, recycling the
// oldest slot to become the new current one (its contents are undefined
// until the next step's kernels overwrite them).
type SnapshotRing struct {
	slots []*YeeLattice
	head  int
}

// NewSnapshotRing builds a ring of the given depth (minimum 1) over the
// given extent, growing it slot by slot the way a push-back container
// would; depth is fixed once construction finishes.
func NewSnapshotRing(depth, nx, ny, nz, h int) *SnapshotRing {
	if depth < 1 {
		depth = 1
	}
	r := &SnapshotRing{slots: make([]*YeeLattice, 0, depth)}
	for len(r.slots) < depth {
		r.slots = append(r.slots, New(nx, ny, nz, h))
	}
	return r
}

// Depth reports the ring's fixed size.
func (r *SnapshotRing) Depth() int { return len(r.slots) }

// Get returns the snapshot i steps into the past (0 is current).
func (r *SnapshotRing) Get(i int) *YeeLattice {
	d := len(r.slots)
	return r.slots[(r.head+i)%d]
}

// Current is shorthand for Get(0).
func (r *SnapshotRing) Current() *YeeLattice { return r.Get(0) }

// Cycle advances the ring by one step: the slot that falls off the back
// becomes the new current slot, and every other slot ages by one position.
func (r *SnapshotRing) Cycle() {
	d := len(r.slots)
	r.head = (r.head - 1 + d) % d
}
