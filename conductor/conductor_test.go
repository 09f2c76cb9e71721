package conductor

import (
	"math"
	"testing"

	"github.com/camiliad/runko/tile"
)

func cubeTile(t *testing.T, n, h int) *tile.Tile {
	t.Helper()
	cfg := tile.Config{ID: 0, Dim: tile.D3, Nx: n, Ny: n, Nz: n, H: h, CFL: 0.3, Precision: "f64", HaloFields: 1, HaloCurrents: 1, SnapshotDepth: 1}
	tl, err := tile.New(cfg)
	if err != nil {
		t.Fatalf("unexpected error building tile: %v", err)
	}
	return tl
}

func TestDipoleBReturnsB0AlongMomentInsideDelta(t *testing.T) {
	inj := &Injector{B0: 2, Chi: 0, Delta: 0.5, Radius: 3}
	bx, by, bz := inj.dipoleB(0, 0.1, 0.1, 0.1)
	// Chi=0 => moment points along +z.
	if math.Abs(bx) > 1e-12 || math.Abs(by) > 1e-12 {
		t.Errorf("expected zero x/y component with chi=0, got (%f,%f)", bx, by)
	}
	if math.Abs(bz-2) > 1e-12 {
		t.Errorf("expected bz=B0=2 inside the singular radius, got %f", bz)
	}
}

func TestDipoleBNonzeroOutsideDelta(t *testing.T) {
	inj := &Injector{B0: 1, Chi: 0.3, Delta: 0.5, Radius: 3}
	bx, by, bz := inj.dipoleB(0, 3, 0, 0)
	if bx == 0 && by == 0 && bz == 0 {
		t.Error("expected nonzero field outside the singular radius")
	}
}

func TestWeightIsOneDeepInsideAndZeroAtSurface(t *testing.T) {
	inj := &Injector{Radius: 10, Delta: 2}
	if w := inj.weight(0); w != 1 {
		t.Errorf("expected weight=1 at the centre, got %f", w)
	}
	if w := inj.weight(10); w != 0 {
		t.Errorf("expected weight=0 exactly at the surface, got %f", w)
	}
}

func TestAngleAdvancesWithAngularVelocity(t *testing.T) {
	inj := &Injector{Phase: 0, AngularVelocity: math.Pi}
	if got := inj.angle(1); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("expected angle(1)=pi, got %f", got)
	}
}

func TestInsertEMOnlyTouchesCellsInsideRadius(t *testing.T) {
	tl := cubeTile(t, 16, 1)
	inj := &Injector{B0: 1, Chi: 0.4, Delta: 0.5, Radius: 3, AngularVelocity: 1, Centre: [3]float64{8, 8, 8}}
	inj.InsertEM(tl, 0)

	lat := tl.Lattice()
	if v := lat.Bz.At(0, 0, 0); v != 0 {
		t.Errorf("expected untouched cell far outside the sphere, got bz=%f", v)
	}
	var total float64
	for i := 6; i <= 10; i++ {
		for j := 6; j <= 10; j++ {
			for k := 6; k <= 10; k++ {
				total += math.Abs(lat.Bx.At(i, j, k)) + math.Abs(lat.By.At(i, j, k)) + math.Abs(lat.Bz.At(i, j, k))
			}
		}
	}
	if total == 0 {
		t.Error("expected nonzero B somewhere inside the sphere after InsertEM")
	}
}

func TestUpdateBBlendsTowardAnalyticNearCentre(t *testing.T) {
	tl := cubeTile(t, 16, 1)
	inj := &Injector{B0: 5, Chi: 0, Delta: 0.5, Radius: 3, AngularVelocity: 1, Centre: [3]float64{8, 8, 8}}
	tl.Lattice().Bz.Set(8, 8, 8, 0)
	inj.UpdateB(tl, 0)
	// At the exact centre, r<Delta, weight=1, so the cell is fully imposed.
	if v := tl.Lattice().Bz.At(8, 8, 8); math.Abs(v-5) > 1e-9 {
		t.Errorf("expected bz fully imposed to B0=5 at the centre, got %f", v)
	}
}

func TestUpdateELeavesCellsOutsideRadiusUntouched(t *testing.T) {
	tl := cubeTile(t, 16, 1)
	tl.Lattice().Ex.Set(0, 0, 0, 7)
	inj := &Injector{B0: 1, Chi: 0.2, Delta: 0.5, Radius: 3, AngularVelocity: 1, Centre: [3]float64{8, 8, 8}}
	inj.UpdateE(tl, 0)
	if v := tl.Lattice().Ex.At(0, 0, 0); v != 7 {
		t.Errorf("expected cell outside the sphere untouched, got %f", v)
	}
}
