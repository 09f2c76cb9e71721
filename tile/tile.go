// Package tile implements the per-tile FDTD kernels: the staggered-grid
// E/B push, current deposition bookkeeping, and the snapshot/current cycle
// that advances a tile by one step. Halo exchange and topology live in
// sibling packages; a Tile only knows how to advance its own interior.
package tile

import (
	"errors"
	"fmt"

	"github.com/camiliad/runko/config"
	"github.com/camiliad/runko/moment"
	"github.com/camiliad/runko/ndarray"
	"github.com/camiliad/runko/yee"
)

// Sentinel errors shared across the tile/halo boundary. The teacher never
// defines custom error types; everything here is an errors.New sentinel
// wrapped with fmt.Errorf("...: %w", err).
var (
	ErrConfiguration = errors.New("runko: configuration error")
	ErrTopology       = errors.New("runko: topology error")
	ErrPrecision      = errors.New("runko: precision error")
)

// Dim is the tile's active dimensionality. A small fixed enum, per the
// design note that a Dim enum reads more plainly than a generic Tile[D] for
// a set this small and this fixed.
type Dim int

const (
	D1 Dim = 1
	D2 Dim = 2
	D3 Dim = 3
)

func (d Dim) String() string {
	switch d {
	case D1:
		return "1D"
	case D2:
		return "2D"
	case D3:
		return "3D"
	default:
		return fmt.Sprintf("Dim(%d)", int(d))
	}
}

// Config is the plain parameter set a Tile is built from, independent of
// the YAML config tree so tile has no import-time dependency on how those
// parameters were sourced.
type Config struct {
	ID            int
	Dim           Dim
	Nx, Ny, Nz    int
	H             int
	CFL           float64
	Precision     string
	HaloFields    int
	HaloCurrents  int
	SnapshotDepth int
}

// FromGlobal builds a tile.Config for tile id from the package-wide
// configuration, filling in the degenerate extents (Ny=Nz=1 in 1D, Nz=1 in
// 2D) the mesh config leaves at their configured values for.
func FromGlobal(c *config.Config, id int) Config {
	dim := Dim(c.Mesh.Dim)
	ny, nz := c.Mesh.Ny, c.Mesh.Nz
	if dim < D2 {
		ny = 1
	}
	if dim < D3 {
		nz = 1
	}
	return Config{
		ID:            id,
		Dim:           dim,
		Nx:            c.Mesh.Nx,
		Ny:            ny,
		Nz:            nz,
		H:             c.Mesh.Ghost,
		CFL:           c.FDTD.CFL,
		Precision:     c.Mesh.Precision,
		HaloFields:    c.Halo.Fields,
		HaloCurrents:  c.Halo.Currents,
		SnapshotDepth: 1,
	}
}

// Tile is one tile of the distributed mesh: a snapshot ring of Yee lattices,
// zero or more per-species moment lattices, and the scratch buffers the
// push kernels reuse across steps.
type Tile struct {
	cfg Config

	ring *yee.SnapshotRing

	moments []*moment.PlasmaMomentLattice

	// scratch buffers for the curl term materialized by PushE/PushHalfB
	// before the single full-buffer AxpyFull accumulation step.
	scratchEx, scratchEy, scratchEz *ndarray.NDArray3
	scratchBx, scratchBy, scratchBz *ndarray.NDArray3
}

func (t *Tile) allocScratch() {
	mk := func() *ndarray.NDArray3 { return ndarray.New(t.cfg.Nx, t.cfg.Ny, t.cfg.Nz, t.cfg.H) }
	t.scratchEx, t.scratchEy, t.scratchEz = mk(), mk(), mk()
	t.scratchBx, t.scratchBy, t.scratchBz = mk(), mk(), mk()
}

// New validates cfg and allocates a tile. Extent, ghost-width, and
// dimensionality mismatches are configuration errors, not panics, since
// they can arrive from an external config file.
func New(cfg Config) (*Tile, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	t := &Tile{
		cfg:  cfg,
		ring: yee.NewSnapshotRing(cfg.SnapshotDepth, cfg.Nx, cfg.Ny, cfg.Nz, cfg.H),
	}
	t.allocScratch()
	return t, nil
}

func validate(cfg Config) error {
	if cfg.Dim < D1 || cfg.Dim > D3 {
		return fmt.Errorf("tile: dim %d out of range: %w", cfg.Dim, ErrConfiguration)
	}
	if cfg.Nx < 1 || cfg.Ny < 1 || cfg.Nz < 1 {
		return fmt.Errorf("tile: degenerate extent (%d,%d,%d): %w", cfg.Nx, cfg.Ny, cfg.Nz, ErrConfiguration)
	}
	if cfg.Dim < D2 && cfg.Ny != 1 {
		return fmt.Errorf("tile: Ny must be 1 below 2D, got %d: %w", cfg.Ny, ErrConfiguration)
	}
	if cfg.Dim < D3 && cfg.Nz != 1 {
		return fmt.Errorf("tile: Nz must be 1 below 3D, got %d: %w", cfg.Nz, ErrConfiguration)
	}
	if cfg.H < 1 {
		return fmt.Errorf("tile: ghost width must be >=1, got %d: %w", cfg.H, ErrConfiguration)
	}
	if cfg.HaloFields > cfg.H || cfg.HaloCurrents > cfg.H {
		return fmt.Errorf("tile: halo width exceeds ghost band H=%d: %w", cfg.H, ErrConfiguration)
	}
	if cfg.CFL <= 0 {
		return fmt.Errorf("tile: CFL must be positive, got %f: %w", cfg.CFL, ErrConfiguration)
	}
	if cfg.Precision != "" && cfg.Precision != "f32" && cfg.Precision != "f64" {
		return fmt.Errorf("tile: unknown precision %q: %w", cfg.Precision, ErrPrecision)
	}
	return nil
}

// ID is the tile's topological index.
func (t *Tile) ID() int { return t.cfg.ID }

// Dim reports the tile's active dimensionality.
func (t *Tile) Dim() Dim { return t.cfg.Dim }

// Precision reports the configured scalar precision tag, used by the halo
// exchanger to reject exchanges between mismatched tiles.
func (t *Tile) Precision() string { return t.cfg.Precision }

// Extents returns the logical extent and ghost width, satisfying the
// topology.Handle interface.
func (t *Tile) Extents() (nx, ny, nz, h int) {
	return t.cfg.Nx, t.cfg.Ny, t.cfg.Nz, t.cfg.H
}

// Lattice returns the tile's current (writable) Yee lattice.
func (t *Tile) Lattice() *yee.YeeLattice { return t.ring.Current() }

// Ring exposes the snapshot ring directly for packages that need to look
// further into history than Lattice().
func (t *Tile) Ring() *yee.SnapshotRing { return t.ring }

// HaloWidths returns the configured field and current exchange widths.
func (t *Tile) HaloWidths() (fields, currents int) {
	return t.cfg.HaloFields, t.cfg.HaloCurrents
}

// Moments returns the per-species moment lattices currently attached to the
// tile.
func (t *Tile) Moments() []*moment.PlasmaMomentLattice { return t.moments }

// AddSpecies grows the tile's moment-lattice set by one species, co-sized
// with the tile's own extent.
func (t *Tile) AddSpecies(name string) *moment.PlasmaMomentLattice {
	m := moment.New(name, t.cfg.Nx, t.cfg.Ny, t.cfg.Nz, t.cfg.H)
	t.moments = append(t.moments, m)
	return m
}

// CycleYee advances the tile's snapshot ring by one step.
func (t *Tile) CycleYee() { t.ring.Cycle() }

// CycleCurrent swaps the current tile's live/scratch current buffers.
func (t *Tile) CycleCurrent() { t.ring.Current().CycleCurrent() }
