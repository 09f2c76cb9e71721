// Package moment holds the plasma-moment analysis buffers a tile exposes
// per species: density, bulk velocity, and the pressure tensor. Nothing in
// this module writes them; they exist so an external analysis pass has
// somewhere to put its output, co-sized with the Yee lattice it describes.
package moment

import "github.com/camiliad/runko/ndarray"

// PlasmaMomentLattice is the ten-scalar-field moment set for one species on
// one tile: number density, the three bulk-velocity components, and the six
// independent pressure-tensor components.
type PlasmaMomentLattice struct {
	Species string

	Density *ndarray.NDArray3

	VelX, VelY, VelZ *ndarray.NDArray3

	PressXX, PressYY, PressZZ *ndarray.NDArray3
	PressXY, PressXZ, PressYZ *ndarray.NDArray3
}

// New allocates a zeroed moment lattice for species, co-sized with the Yee
// extent it will be analysed against.
func New(species string, nx, ny, nz, h int) *PlasmaMomentLattice {
	mk := func() *ndarray.NDArray3 { return ndarray.New(nx, ny, nz, h) }
	return &PlasmaMomentLattice{
		Species: species,
		Density: mk(),
		VelX:    mk(), VelY: mk(), VelZ: mk(),
		PressXX: mk(), PressYY: mk(), PressZZ: mk(),
		PressXY: mk(), PressXZ: mk(), PressYZ: mk(),
	}
}

// Zero clears every field of the moment lattice.
func (m *PlasmaMomentLattice) Zero() {
	for _, c := range m.components() {
		c.Zero()
	}
}

func (m *PlasmaMomentLattice) components() []*ndarray.NDArray3 {
	return []*ndarray.NDArray3{
		m.Density,
		m.VelX, m.VelY, m.VelZ,
		m.PressXX, m.PressYY, m.PressZZ,
		m.PressXY, m.PressXZ, m.PressYZ,
	}
}

// AnalysisConsumer is implemented by whatever external pass populates a
// tile's moment lattices from particle or fluid data. The core ships no
// implementation; it only defines the seam.
type AnalysisConsumer interface {
	Analyse(dst *PlasmaMomentLattice) error
}
