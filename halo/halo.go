// Package halo implements ghost-cell synchronisation between neighbouring
// tiles: a read-only copy exchange for the E/B field buffers and an
// add-then-drain exchange for the deposited currents, across the full
// 3^dim - 1 set of face/edge/corner directions.
package halo

import (
	"fmt"
	"log/slog"

	"github.com/camiliad/runko/ndarray"
	"github.com/camiliad/runko/tile"
	"github.com/camiliad/runko/topology"
)

// Exchanger drives one tile's field and current halo exchanges against a
// topology. FieldsWidth/CurrentsWidth are the configured halo widths; they
// must not exceed the tile's ghost band H: an exchange against a live
// neighbour returns tile.ErrConfiguration when either one does.
type Exchanger struct {
	FieldsWidth   int
	CurrentsWidth int
	Logger        *slog.Logger
}

// New builds an Exchanger; a nil logger falls back to slog.Default().
func New(fieldsWidth, currentsWidth int, logger *slog.Logger) *Exchanger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exchanger{FieldsWidth: fieldsWidth, CurrentsWidth: currentsWidth, Logger: logger}
}

func (e *Exchanger) validateNeighbour(self *tile.Tile, n topology.Handle, delta topology.Delta) error {
	nx, ny, nz, h := self.Extents()
	mnx, mny, mnz, mh := n.Extents()
	if e.FieldsWidth > h || e.CurrentsWidth > h {
		return fmt.Errorf("halo: tile %d exchange widths (%d,%d) exceed ghost band H=%d: %w",
			self.ID(), e.FieldsWidth, e.CurrentsWidth, h, tile.ErrConfiguration)
	}
	if nx != mnx || ny != mny || nz != mnz || h != mh {
		return fmt.Errorf("halo: tile %d neighbour %d extent mismatch in direction %v: %w",
			self.ID(), n.ID(), delta, tile.ErrTopology)
	}
	if self.Precision() != n.Precision() {
		return fmt.Errorf("halo: tile %d neighbour %d precision mismatch (%s vs %s): %w",
			self.ID(), n.ID(), self.Precision(), n.Precision(), tile.ErrPrecision)
	}
	return nil
}

// ExchangeFields copies ghost cells from every live neighbour of self into
// self's own ghost band for all six E/B components. Neighbours are only
// ever read, never mutated.
func (e *Exchanger) ExchangeFields(topo topology.Topology, self *tile.Tile) error {
	selfExt := extentsOf(self)
	lat := self.Lattice()
	selfComponents := lat.FieldComponents()

	for _, delta := range topology.Directions(int(self.Dim())) {
		n, ok := topo.Neighbour(self.ID(), delta)
		if !ok {
			continue
		}
		if err := e.validateNeighbour(self, n, delta); err != nil {
			return err
		}
		nnx, nny, nnz, _ := n.Extents()
		neighExt := [3]int{nnx, nny, nnz}
		neighComponents := n.Lattice().FieldComponents()

		axes := nonzeroAxes(delta)
		switch len(axes) {
		case 1:
			copyFace(selfComponents, neighComponents, axes[0], int(delta[axes[0]]), selfExt, neighExt, e.FieldsWidth)
		case 2:
			copyEdge(selfComponents, neighComponents, axes, delta, selfExt, neighExt, e.FieldsWidth)
		case 3:
			copyCorner(selfComponents, neighComponents, delta, selfExt, neighExt, e.FieldsWidth)
		}
	}
	e.Logger.Debug("halo: field exchange complete", "tile", self.ID())
	return nil
}

// ExchangeCurrents folds each live neighbour's overflow current ghost cells
// into self's matching interior cells, then zeroes the consumed neighbour
// ghost range. Calling it exactly once per tile per step (never per pair)
// is what keeps the reduction conservative: see DESIGN.md for the worked
// derivation that pins this convention down against the spec's asymmetric
// left/right index description.
func (e *Exchanger) ExchangeCurrents(topo topology.Topology, self *tile.Tile) error {
	selfExt := extentsOf(self)
	lat := self.Lattice()
	selfComponents := lat.CurrentComponents()

	for _, delta := range topology.Directions(int(self.Dim())) {
		n, ok := topo.Neighbour(self.ID(), delta)
		if !ok {
			continue
		}
		if err := e.validateNeighbour(self, n, delta); err != nil {
			return err
		}
		nnx, nny, nnz, _ := n.Extents()
		neighExt := [3]int{nnx, nny, nnz}
		neighComponents := n.Lattice().CurrentComponents()

		axes := nonzeroAxes(delta)
		switch len(axes) {
		case 1:
			drainFace(selfComponents, neighComponents, axes[0], int(delta[axes[0]]), selfExt, neighExt, e.CurrentsWidth)
		case 2:
			drainEdge(selfComponents, neighComponents, axes, delta, selfExt, neighExt, e.CurrentsWidth)
		case 3:
			drainCorner(selfComponents, neighComponents, delta, selfExt, neighExt, e.CurrentsWidth)
		}
	}
	e.Logger.Debug("halo: current exchange complete", "tile", self.ID())
	return nil
}

func extentsOf(self *tile.Tile) [3]int {
	nx, ny, nz, _ := self.Extents()
	return [3]int{nx, ny, nz}
}

func nonzeroAxes(delta topology.Delta) []int {
	var axes []int
	for a := 0; a < 3; a++ {
		if delta[a] != 0 {
			axes = append(axes, a)
		}
	}
	return axes
}

// fieldIndex computes the (dst, src) logical index pair for a field copy
// along one axis, per spec's "copy of fields from left/right neighbour"
// index convention: for h in [1,width], self's ghost cell dstIdx is
// overwritten with the neighbour's interior cell srcIdx.
func fieldIndex(sign, h, selfExtent, neighExtent int) (dst, src int) {
	if sign < 0 {
		return -h, neighExtent - h
	}
	return selfExtent + h - 1, h - 1
}

// currentIndex computes the (selfIdx, neighGhostIdx) pair for a current
// drain along one axis, for h in [0,width): self's interior cell selfIdx
// absorbs the neighbour's mirrored ghost cell neighGhostIdx.
func currentIndex(sign, h, selfExtent, neighExtent int) (selfIdx, neighGhostIdx int) {
	if sign < 0 {
		return h, neighExtent + h
	}
	return selfExtent - h - 1, -h - 1
}

// --- face (k=1) ------------------------------------------------------------

func copyFace(self, neigh []*ndarray.NDArray3, axis, sign int, selfExt, neighExt [3]int, width int) {
	for h := 1; h <= width; h++ {
		dst, src := fieldIndex(sign, h, selfExt[axis], neighExt[axis])
		for c := range self {
			copyPlane(self[c], neigh[c], axis, dst, src)
		}
	}
}

func drainFace(self, neigh []*ndarray.NDArray3, axis, sign int, selfExt, neighExt [3]int, width int) {
	for h := 0; h < width; h++ {
		dst, src := currentIndex(sign, h, selfExt[axis], neighExt[axis])
		for c := range self {
			addPlane(self[c], neigh[c], axis, dst, src)
			zeroPlane(neigh[c], axis, src)
		}
	}
}

func copyPlane(dst, src *ndarray.NDArray3, axis, dstI, srcI int) {
	switch axis {
	case 0:
		dst.CopyPlaneX(src, dstI, srcI)
	case 1:
		dst.CopyPlaneY(src, dstI, srcI)
	case 2:
		dst.CopyPlaneZ(src, dstI, srcI)
	}
}

func addPlane(dst, src *ndarray.NDArray3, axis, dstI, srcI int) {
	switch axis {
	case 0:
		dst.AddPlaneX(src, dstI, srcI)
	case 1:
		dst.AddPlaneY(src, dstI, srcI)
	case 2:
		dst.AddPlaneZ(src, dstI, srcI)
	}
}

func zeroPlane(a *ndarray.NDArray3, axis, i int) {
	switch axis {
	case 0:
		a.ZeroPlaneX(i)
	case 1:
		a.ZeroPlaneY(i)
	case 2:
		a.ZeroPlaneZ(i)
	}
}

// --- edge (k=2) --------------------------------------------------------------

func freeAxis(axes []int) int {
	sum := axes[0] + axes[1]
	return 3 - sum // {0,1}->2, {0,2}->1, {1,2}->0
}

func copyEdge(self, neigh []*ndarray.NDArray3, axes []int, delta topology.Delta, selfExt, neighExt [3]int, width int) {
	a, b := axes[0], axes[1]
	c := freeAxis(axes)
	for ha := 1; ha <= width; ha++ {
		for hb := 1; hb <= width; hb++ {
			dstA, srcA := fieldIndex(int(delta[a]), ha, selfExt[a], neighExt[a])
			dstB, srcB := fieldIndex(int(delta[b]), hb, selfExt[b], neighExt[b])
			for ci := range self {
				copyPencil(self[ci], neigh[ci], c, a, b, dstA, dstB, srcA, srcB)
			}
		}
	}
}

func drainEdge(self, neigh []*ndarray.NDArray3, axes []int, delta topology.Delta, selfExt, neighExt [3]int, width int) {
	a, b := axes[0], axes[1]
	c := freeAxis(axes)
	for ha := 0; ha < width; ha++ {
		for hb := 0; hb < width; hb++ {
			dstA, srcA := currentIndex(int(delta[a]), ha, selfExt[a], neighExt[a])
			dstB, srcB := currentIndex(int(delta[b]), hb, selfExt[b], neighExt[b])
			for ci := range self {
				addPencil(self[ci], neigh[ci], c, a, b, dstA, dstB, srcA, srcB)
				zeroPencil(neigh[ci], c, srcA, srcB)
			}
		}
	}
}

// copyPencil dispatches to the pencil primitive whose free axis is c, given
// fixed-axis labels (a,b) and their index values.
func copyPencil(dst, src *ndarray.NDArray3, c, a, b, dstA, dstB, srcA, srcB int) {
	switch c {
	case 0: // free X, fixed (Y,Z)
		dst.CopyPencilX(src, orderedFor(0, a, b, dstA, dstB, 1), orderedFor(0, a, b, dstA, dstB, 2),
			orderedFor(0, a, b, srcA, srcB, 1), orderedFor(0, a, b, srcA, srcB, 2))
	case 1: // free Y, fixed (X,Z)
		dst.CopyPencilY(src, orderedFor(1, a, b, dstA, dstB, 0), orderedFor(1, a, b, dstA, dstB, 2),
			orderedFor(1, a, b, srcA, srcB, 0), orderedFor(1, a, b, srcA, srcB, 2))
	case 2: // free Z, fixed (X,Y)
		dst.CopyPencilZ(src, orderedFor(2, a, b, dstA, dstB, 0), orderedFor(2, a, b, dstA, dstB, 1),
			orderedFor(2, a, b, srcA, srcB, 0), orderedFor(2, a, b, srcA, srcB, 1))
	}
}

func addPencil(dst, src *ndarray.NDArray3, c, a, b, dstA, dstB, srcA, srcB int) {
	switch c {
	case 0:
		dst.AddPencilX(src, orderedFor(0, a, b, dstA, dstB, 1), orderedFor(0, a, b, dstA, dstB, 2),
			orderedFor(0, a, b, srcA, srcB, 1), orderedFor(0, a, b, srcA, srcB, 2))
	case 1:
		dst.AddPencilY(src, orderedFor(1, a, b, dstA, dstB, 0), orderedFor(1, a, b, dstA, dstB, 2),
			orderedFor(1, a, b, srcA, srcB, 0), orderedFor(1, a, b, srcA, srcB, 2))
	case 2:
		dst.AddPencilZ(src, orderedFor(2, a, b, dstA, dstB, 0), orderedFor(2, a, b, dstA, dstB, 1),
			orderedFor(2, a, b, srcA, srcB, 0), orderedFor(2, a, b, srcA, srcB, 1))
	}
}

func zeroPencil(a *ndarray.NDArray3, c, srcA, srcB int) {
	switch c {
	case 0:
		a.ZeroPencilX(srcA, srcB)
	case 1:
		a.ZeroPencilY(srcA, srcB)
	case 2:
		a.ZeroPencilZ(srcA, srcB)
	}
}

// orderedFor maps the (a,b)-indexed pair (va,vb) onto "which value belongs
// to wanted axis" for a pencil primitive whose free axis is c and whose two
// remaining axis slots are filled in ascending axis order.
func orderedFor(c, a, b, va, vb, wanted int) int {
	_ = c
	if a == wanted {
		return va
	}
	if b == wanted {
		return vb
	}
	panic("halo: axis bookkeeping error")
}

// --- corner (k=3, 3D only) --------------------------------------------------

func copyCorner(self, neigh []*ndarray.NDArray3, delta topology.Delta, selfExt, neighExt [3]int, width int) {
	for h0 := 1; h0 <= width; h0++ {
		for h1 := 1; h1 <= width; h1++ {
			for h2 := 1; h2 <= width; h2++ {
				d0, s0 := fieldIndex(int(delta[0]), h0, selfExt[0], neighExt[0])
				d1, s1 := fieldIndex(int(delta[1]), h1, selfExt[1], neighExt[1])
				d2, s2 := fieldIndex(int(delta[2]), h2, selfExt[2], neighExt[2])
				for c := range self {
					self[c].Set(d0, d1, d2, neigh[c].At(s0, s1, s2))
				}
			}
		}
	}
}

func drainCorner(self, neigh []*ndarray.NDArray3, delta topology.Delta, selfExt, neighExt [3]int, width int) {
	for h0 := 0; h0 < width; h0++ {
		for h1 := 0; h1 < width; h1++ {
			for h2 := 0; h2 < width; h2++ {
				d0, g0 := currentIndex(int(delta[0]), h0, selfExt[0], neighExt[0])
				d1, g1 := currentIndex(int(delta[1]), h1, selfExt[1], neighExt[1])
				d2, g2 := currentIndex(int(delta[2]), h2, selfExt[2], neighExt[2])
				for c := range self {
					self[c].Set(d0, d1, d2, self[c].At(d0, d1, d2)+neigh[c].At(g0, g1, g2))
					neigh[c].Set(g0, g1, g2, 0)
				}
			}
		}
	}
}
