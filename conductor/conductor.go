// Package conductor implements the rotating magnetised-conductor boundary
// injector example: a dipole field rotating about a fixed centre, blended
// into a tile's E/B buffers near the conductor's surface each step.
package conductor

import (
	"math"

	"github.com/camiliad/runko/config"
	"github.com/camiliad/runko/tile"
	"github.com/camiliad/runko/yee"
)

// Injector rotates a magnetic dipole of surface field B0 and obliquity Chi
// about Centre at angular velocity AngularVelocity, blending its analytic
// field into a tile's E/B buffers inside radius Radius.
type Injector struct {
	Radius          float64
	B0              float64
	Chi             float64
	Phase           float64
	AngularVelocity float64
	Centre          [3]float64
	Delta           float64
}

// FromConfig builds an Injector from the package-wide configuration.
func FromConfig(c *config.Config) *Injector {
	return &Injector{
		Radius:          c.Conductor.Radius,
		B0:              c.Conductor.B0,
		Chi:             c.Conductor.Chi,
		Phase:           c.Conductor.Phase,
		AngularVelocity: c.Derived.AngularVelocity,
		Centre:          [3]float64{c.Conductor.Centre.X, c.Conductor.Centre.Y, c.Conductor.Centre.Z},
		Delta:           c.Conductor.Delta,
	}
}

func (inj *Injector) angle(t float64) float64 {
	return inj.Phase + inj.AngularVelocity*t
}

// momentUnit returns the dipole moment's unit direction at phase angle theta,
// obliquity Chi away from the rotation axis (z).
func (inj *Injector) momentUnit(theta float64) (mx, my, mz float64) {
	sc := math.Sin(inj.Chi)
	return sc * math.Cos(theta), sc * math.Sin(theta), math.Cos(inj.Chi)
}

// dipoleB evaluates the analytic dipole field at time t for a position
// offset r=(dx,dy,dz) from Centre. Inside r<Delta it returns B0 along the
// moment's unit direction rather than evaluating the singular 1/r^3 term.
func (inj *Injector) dipoleB(t, dx, dy, dz float64) (bx, by, bz float64) {
	theta := inj.angle(t)
	mx, my, mz := inj.momentUnit(theta)
	r2 := dx*dx + dy*dy + dz*dz
	r := math.Sqrt(r2)
	if r < inj.Delta {
		return inj.B0 * mx, inj.B0 * my, inj.B0 * mz
	}

	r3 := r2 * r
	moment := inj.B0 * inj.Radius * inj.Radius * inj.Radius
	rhx, rhy, rhz := dx/r, dy/r, dz/r
	mdotrh := mx*rhx + my*rhy + mz*rhz
	scale := moment / r3
	bx = scale * (3*mdotrh*rhx - mx)
	by = scale * (3*mdotrh*rhy - my)
	bz = scale * (3*mdotrh*rhz - mz)
	return
}

// rotationE returns the rotation-induced E = -(Omega x r) x B field at
// offset (dx,dy,dz), given the analytic B already evaluated there.
func (inj *Injector) rotationE(dx, dy, dz, bx, by, bz float64) (ex, ey, ez float64) {
	omega := inj.AngularVelocity
	vx, vy, vz := -omega*dy, omega*dx, 0.0
	ex = -(vy*bz - vz*by)
	ey = -(vz*bx - vx*bz)
	ez = -(vx*by - vy*bx)
	return
}

// smoothstep clamps x to [0,1] and applies the classic 3x^2-2x^3 ease.
func smoothstep(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x * x * (3 - 2*x)
}

// weight returns the blend weight at radius r: 1 deep inside the sphere,
// easing to 0 over a transition band of thickness Delta at r=Radius.
func (inj *Injector) weight(r float64) float64 {
	return smoothstep((inj.Radius - r) / inj.Delta)
}

// InsertEM initialises E and B inside the sphere (r<=Radius) to the full
// analytic solution, with no blending — used once at setup.
func (inj *Injector) InsertEM(t *tile.Tile, tSeconds float64) {
	inj.forEachInside(t, func(lat *yee.YeeLattice, i, j, k int, dx, dy, dz, r float64) {
		bx, by, bz := inj.dipoleB(tSeconds, dx, dy, dz)
		ex, ey, ez := inj.rotationE(dx, dy, dz, bx, by, bz)
		lat.Bx.Set(i, j, k, bx)
		lat.By.Set(i, j, k, by)
		lat.Bz.Set(i, j, k, bz)
		lat.Ex.Set(i, j, k, ex)
		lat.Ey.Set(i, j, k, ey)
		lat.Ez.Set(i, j, k, ez)
	})
}

// UpdateB blends the live B field toward the analytic dipole solution over
// the sphere's transition band, leaving cells outside Radius untouched.
func (inj *Injector) UpdateB(t *tile.Tile, tSeconds float64) {
	inj.forEachInside(t, func(lat *yee.YeeLattice, i, j, k int, dx, dy, dz, r float64) {
		w := inj.weight(r)
		bx, by, bz := inj.dipoleB(tSeconds, dx, dy, dz)
		lat.Bx.Set(i, j, k, (1-w)*lat.Bx.At(i, j, k)+w*bx)
		lat.By.Set(i, j, k, (1-w)*lat.By.At(i, j, k)+w*by)
		lat.Bz.Set(i, j, k, (1-w)*lat.Bz.At(i, j, k)+w*bz)
	})
}

// UpdateE blends the live E field toward the rotation-induced solution over
// the sphere's transition band, using the analytic B at the same point.
func (inj *Injector) UpdateE(t *tile.Tile, tSeconds float64) {
	inj.forEachInside(t, func(lat *yee.YeeLattice, i, j, k int, dx, dy, dz, r float64) {
		w := inj.weight(r)
		bx, by, bz := inj.dipoleB(tSeconds, dx, dy, dz)
		ex, ey, ez := inj.rotationE(dx, dy, dz, bx, by, bz)
		lat.Ex.Set(i, j, k, (1-w)*lat.Ex.At(i, j, k)+w*ex)
		lat.Ey.Set(i, j, k, (1-w)*lat.Ey.At(i, j, k)+w*ey)
		lat.Ez.Set(i, j, k, (1-w)*lat.Ez.At(i, j, k)+w*ez)
	})
}

func (inj *Injector) forEachInside(t *tile.Tile, fn func(lat *yee.YeeLattice, i, j, k int, dx, dy, dz, r float64)) {
	lat := t.Lattice()
	nx, ny, nz, _ := t.Extents()
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				dx := float64(i) - inj.Centre[0]
				dy := float64(j) - inj.Centre[1]
				dz := float64(k) - inj.Centre[2]
				r := math.Sqrt(dx*dx + dy*dy + dz*dz)
				if r > inj.Radius {
					continue
				}
				fn(lat, i, j, k, dx, dy, dz, r)
			}
		}
	}
}
