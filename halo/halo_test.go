package halo

import (
	"testing"

	"github.com/camiliad/runko/tile"
	"github.com/camiliad/runko/topology"
)

// pairTopology wires exactly two 1D tiles as each other's left/right
// neighbour, open at both outer ends — enough to exercise the field copy and
// the S3 current scenario without a full grid.
type pairTopology struct {
	a, b *tile.Tile
}

func (p *pairTopology) Neighbour(id int, delta topology.Delta) (topology.Handle, bool) {
	if delta[1] != 0 || delta[2] != 0 {
		return nil, false
	}
	switch id {
	case 0:
		if delta[0] == 1 {
			return p.b, true
		}
	case 1:
		if delta[0] == -1 {
			return p.a, true
		}
	}
	return nil, false
}

func newPair(t *testing.T, nx, h, halo int) (*pairTopology, *tile.Tile, *tile.Tile) {
	t.Helper()
	cfgA := tile.Config{ID: 0, Dim: tile.D1, Nx: nx, Ny: 1, Nz: 1, H: h, CFL: 0.4, Precision: "f64", HaloFields: halo, HaloCurrents: halo, SnapshotDepth: 1}
	cfgB := cfgA
	cfgB.ID = 1
	a, err := tile.New(cfgA)
	if err != nil {
		t.Fatalf("unexpected error building tile A: %v", err)
	}
	b, err := tile.New(cfgB)
	if err != nil {
		t.Fatalf("unexpected error building tile B: %v", err)
	}
	return &pairTopology{a: a, b: b}, a, b
}

func TestExchangeFieldsCopiesAcrossSeam(t *testing.T) {
	topo, a, b := newPair(t, 16, 3, 1)
	a.Lattice().Ex.Set(15, 0, 0, 9)
	b.Lattice().Ex.Set(0, 0, 0, 4)

	ex := New(1, 1, nil)
	if err := ex.ExchangeFields(topo, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ex.ExchangeFields(topo, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := a.Lattice().Ex.At(16, 0, 0); v != 4 {
		t.Errorf("expected A's right ghost to mirror B's first interior cell, got %f", v)
	}
	if v := b.Lattice().Ex.At(-1, 0, 0); v != 9 {
		t.Errorf("expected B's left ghost to mirror A's last interior cell, got %f", v)
	}
}

// TestExchangeCurrentsScenarioS3 reproduces the spec's S3 scenario: leaked
// deposits on both sides of a seam must combine into jx=2.0 exactly at the
// seam cells, with no double-counting anywhere else, and the total current
// mass (logical+ghost) must be conserved across the exchange.
func TestExchangeCurrentsScenarioS3(t *testing.T) {
	topo, a, b := newPair(t, 16, 3, 3)
	a.Lattice().Jx.Set(15, 0, 0, 1)
	a.Lattice().Jx.Set(16, 0, 0, 1)
	a.Lattice().Jx.Set(17, 0, 0, 1)
	b.Lattice().Jx.Set(-2, 0, 0, 1)
	b.Lattice().Jx.Set(-1, 0, 0, 1)
	b.Lattice().Jx.Set(0, 0, 0, 1)

	total := func() float64 {
		var sum float64
		for i := -3; i < 19; i++ {
			sum += a.Lattice().Jx.At(i, 0, 0)
		}
		for i := -3; i < 19; i++ {
			sum += b.Lattice().Jx.At(i, 0, 0)
		}
		return sum
	}
	before := total()

	ex := New(1, 3, nil)
	if err := ex.ExchangeCurrents(topo, a); err != nil {
		t.Fatalf("unexpected error on A: %v", err)
	}
	if err := ex.ExchangeCurrents(topo, b); err != nil {
		t.Fatalf("unexpected error on B: %v", err)
	}

	if v := a.Lattice().Jx.At(15, 0, 0); v != 2 {
		t.Errorf("expected seam cell A[15]=2, got %f", v)
	}
	if v := b.Lattice().Jx.At(0, 0, 0); v != 2 {
		t.Errorf("expected seam cell B[0]=2, got %f", v)
	}
	if v := a.Lattice().Jx.At(14, 0, 0); v != 1 {
		t.Errorf("expected A[14]=1 (no double count), got %f", v)
	}
	if v := b.Lattice().Jx.At(1, 0, 0); v != 1 {
		t.Errorf("expected B[1]=1 (no double count), got %f", v)
	}

	after := total()
	if after != before {
		t.Errorf("expected current mass conserved across exchange: before=%f after=%f", before, after)
	}
}

func TestExchangeFieldsRejectsExtentMismatch(t *testing.T) {
	cfgA := tile.Config{ID: 0, Dim: tile.D1, Nx: 16, Ny: 1, Nz: 1, H: 2, CFL: 0.4, Precision: "f64", HaloFields: 1, HaloCurrents: 1, SnapshotDepth: 1}
	cfgB := cfgA
	cfgB.ID = 1
	cfgB.Nx = 8
	a, _ := tile.New(cfgA)
	b, _ := tile.New(cfgB)
	topo := &pairTopology{a: a, b: b}

	ex := New(1, 1, nil)
	if err := ex.ExchangeFields(topo, a); err == nil {
		t.Fatal("expected extent mismatch to be rejected")
	}
}
