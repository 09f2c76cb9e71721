package tile

import "github.com/camiliad/runko/yee"

// PushE advances the electric field by one full step using the magnetic
// field of the current snapshot. Terms referencing an axis beyond the
// tile's dimensionality are masked out so degenerate axes never read
// garbage from a single-cell-wide ghost band.
func (t *Tile) PushE() {
	y := t.ring.Current()
	t.curlE(y)
	c := t.cfg.CFL
	y.Ex.AxpyFull(c, t.scratchEx)
	y.Ey.AxpyFull(c, t.scratchEy)
	y.Ez.AxpyFull(c, t.scratchEz)
}

// PushHalfB advances the magnetic field by a half step (C' = 0.5*cfl) using
// the electric field of the current snapshot.
func (t *Tile) PushHalfB() {
	y := t.ring.Current()
	t.curlB(y)
	c := 0.5 * t.cfg.CFL
	y.Bx.AxpyFull(c, t.scratchBx)
	y.By.AxpyFull(c, t.scratchBy)
	y.Bz.AxpyFull(c, t.scratchBz)
}

func (t *Tile) curlE(y *yee.YeeLattice) {
	d := t.cfg.Dim
	t.scratchEx.Zero()
	t.scratchEy.Zero()
	t.scratchEz.Zero()
	for i := 0; i < t.cfg.Nx; i++ {
		for j := 0; j < t.cfg.Ny; j++ {
			for k := 0; k < t.cfg.Nz; k++ {
				var dex, dey, dez float64
				if d >= D3 {
					dex += y.By.At(i, j, k-1) - y.By.At(i, j, k)
				}
				if d >= D2 {
					dex += -y.Bz.At(i, j-1, k) + y.Bz.At(i, j, k)
				}
				if d >= D1 {
					dey += y.Bz.At(i-1, j, k) - y.Bz.At(i, j, k)
				}
				if d >= D3 {
					dey += -y.Bx.At(i, j, k-1) + y.Bx.At(i, j, k)
				}
				if d >= D2 {
					dez += y.Bx.At(i, j-1, k) - y.Bx.At(i, j, k)
				}
				if d >= D1 {
					dez += -y.By.At(i-1, j, k) + y.By.At(i, j, k)
				}
				t.scratchEx.Set(i, j, k, dex)
				t.scratchEy.Set(i, j, k, dey)
				t.scratchEz.Set(i, j, k, dez)
			}
		}
	}
}

func (t *Tile) curlB(y *yee.YeeLattice) {
	d := t.cfg.Dim
	t.scratchBx.Zero()
	t.scratchBy.Zero()
	t.scratchBz.Zero()
	for i := 0; i < t.cfg.Nx; i++ {
		for j := 0; j < t.cfg.Ny; j++ {
			for k := 0; k < t.cfg.Nz; k++ {
				var dbx, dby, dbz float64
				if d >= D3 {
					dbx += y.Ey.At(i, j, k+1) - y.Ey.At(i, j, k)
				}
				if d >= D2 {
					dbx += -y.Ez.At(i, j+1, k) + y.Ez.At(i, j, k)
				}
				if d >= D1 {
					dby += y.Ez.At(i+1, j, k) - y.Ez.At(i, j, k)
				}
				if d >= D3 {
					dby += -y.Ex.At(i, j, k+1) + y.Ex.At(i, j, k)
				}
				if d >= D2 {
					dbz += y.Ex.At(i, j+1, k) - y.Ex.At(i, j, k)
				}
				if d >= D1 {
					dbz += -y.Ey.At(i+1, j, k) + y.Ey.At(i, j, k)
				}
				t.scratchBx.Set(i, j, k, dbx)
				t.scratchBy.Set(i, j, k, dby)
				t.scratchBz.Set(i, j, k, dbz)
			}
		}
	}
}

// DepositCurrent subtracts the tile's live current buffers from E, over
// logical cells only: ex -= jx, ey -= jy, ez -= jz.
func (t *Tile) DepositCurrent() {
	y := t.ring.Current()
	y.Ex.AxpyLogical(-1, y.Jx)
	y.Ey.AxpyLogical(-1, y.Jy)
	y.Ez.AxpyLogical(-1, y.Jz)
}
