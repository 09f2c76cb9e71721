package tile

import "github.com/camiliad/runko/yee"

// DivergenceB computes the standard Yee divergence stencil of B over every
// logical cell, dimension-masked the same way the curl terms are: axes at or
// beyond the tile's dimensionality contribute nothing; unit grid spacing is
// assumed throughout the core. The result is flattened in the same
// row-major (i,j,k) order PlasmaMomentLattice fields use, so callers can
// feed it straight into a gonum/floats norm.
func (t *Tile) DivergenceB() []float64 {
	y := t.ring.Current()
	d := t.cfg.Dim
	out := make([]float64, 0, t.cfg.Nx*t.cfg.Ny*t.cfg.Nz)
	for i := 0; i < t.cfg.Nx; i++ {
		for j := 0; j < t.cfg.Ny; j++ {
			for k := 0; k < t.cfg.Nz; k++ {
				out = append(out, divAt(y, d, i, j, k))
			}
		}
	}
	return out
}

func divAt(y *yee.YeeLattice, d Dim, i, j, k int) float64 {
	var div float64
	if d >= D1 {
		div += y.Bx.At(i+1, j, k) - y.Bx.At(i, j, k)
	}
	if d >= D2 {
		div += y.By.At(i, j+1, k) - y.By.At(i, j, k)
	}
	if d >= D3 {
		div += y.Bz.At(i, j, k+1) - y.Bz.At(i, j, k)
	}
	return div
}
