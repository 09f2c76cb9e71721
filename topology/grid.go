package topology

// GridTopology is a toroidal grid-of-tiles: tiles are addressed by a flat
// id and wrap around at every edge, the same modulo-wrap indexing the
// teacher's spatial hash grid uses for its cell lookups.
type GridTopology struct {
	dimsX, dimsY, dimsZ int
	handles             []Handle
}

// NewGridTopology builds a periodic dimsX x dimsY x dimsZ grid of tiles.
// handles must be supplied in row-major (x slowest... z fastest) order and
// its length must equal dimsX*dimsY*dimsZ.
func NewGridTopology(dimsX, dimsY, dimsZ int, handles []Handle) *GridTopology {
	if dimsX < 1 || dimsY < 1 || dimsZ < 1 {
		panic("topology: grid dimensions must be positive")
	}
	if len(handles) != dimsX*dimsY*dimsZ {
		panic("topology: handle count does not match grid dimensions")
	}
	return &GridTopology{dimsX: dimsX, dimsY: dimsY, dimsZ: dimsZ, handles: handles}
}

func (g *GridTopology) coords(id int) (x, y, z int) {
	z = id % g.dimsZ
	rest := id / g.dimsZ
	y = rest % g.dimsY
	x = rest / g.dimsY
	return
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func (g *GridTopology) flat(x, y, z int) int {
	return (x*g.dimsY+y)*g.dimsZ + z
}

// Neighbour implements Topology with periodic wraparound: every direction
// has a neighbour (there are no open boundaries in this reference
// topology), so ok is always true for an in-range id.
func (g *GridTopology) Neighbour(id int, delta Delta) (Handle, bool) {
	if id < 0 || id >= len(g.handles) {
		return nil, false
	}
	x, y, z := g.coords(id)
	nx := wrap(x+delta[0], g.dimsX)
	ny := wrap(y+delta[1], g.dimsY)
	nz := wrap(z+delta[2], g.dimsZ)
	return g.handles[g.flat(nx, ny, nz)], true
}
