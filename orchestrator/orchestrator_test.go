package orchestrator

import (
	"math"
	"testing"

	"github.com/camiliad/runko/halo"
	"github.com/camiliad/runko/pusher"
	"github.com/camiliad/runko/tile"
	"github.com/camiliad/runko/topology"
)

// openTopology has no neighbours in any direction, modelling an isolated
// tile with open boundaries.
type openTopology struct{}

func (openTopology) Neighbour(id int, delta topology.Delta) (topology.Handle, bool) { return nil, false }

func TestStepRunsPulseScenarioEndToEnd(t *testing.T) {
	cfg := tile.Config{ID: 0, Dim: tile.D1, Nx: 100, Ny: 1, Nz: 1, H: 1, CFL: 0.45, Precision: "f64", HaloFields: 1, HaloCurrents: 1, SnapshotDepth: 1}
	tl, err := tile.New(cfg)
	if err != nil {
		t.Fatalf("unexpected error building tile: %v", err)
	}
	tl.Lattice().Ey.Set(50, 0, 0, 1.0)

	ex := halo.New(1, 1, nil)
	o := New([]*tile.Tile{tl}, openTopology{}, ex, 0.01, nil)
	o.Producer = pusher.NullProducer{}

	if err := o.Step(); err != nil {
		t.Fatalf("unexpected error running a step: %v", err)
	}

	bz49 := tl.Lattice().Bz.At(49, 0, 0)
	bz50 := tl.Lattice().Bz.At(50, 0, 0)
	if bz49 == 0 || bz50 == 0 {
		t.Fatalf("expected both neighbouring bz cells to pick up a contribution, got bz49=%f bz50=%f", bz49, bz50)
	}
	if math.Signbit(bz49) == math.Signbit(bz50) {
		t.Errorf("expected opposite-sign contributions at the pulse edges, got bz49=%f bz50=%f", bz49, bz50)
	}
}

func TestRunAdvancesTimeByStepsTimesDt(t *testing.T) {
	cfg := tile.Config{ID: 0, Dim: tile.D1, Nx: 16, Ny: 1, Nz: 1, H: 1, CFL: 0.4, Precision: "f64", HaloFields: 1, HaloCurrents: 1, SnapshotDepth: 1}
	tl, err := tile.New(cfg)
	if err != nil {
		t.Fatalf("unexpected error building tile: %v", err)
	}
	ex := halo.New(1, 1, nil)
	o := New([]*tile.Tile{tl}, openTopology{}, ex, 0.5, nil)

	if err := o.Run(4); err != nil {
		t.Fatalf("unexpected error running steps: %v", err)
	}
	if got := o.Time(); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected time=2.0 after 4 steps of dt=0.5, got %f", got)
	}
}

func TestStepRejectsExtentMismatchAcrossNeighbours(t *testing.T) {
	cfgA := tile.Config{ID: 0, Dim: tile.D1, Nx: 16, Ny: 1, Nz: 1, H: 2, CFL: 0.4, Precision: "f64", HaloFields: 1, HaloCurrents: 1, SnapshotDepth: 1}
	cfgB := cfgA
	cfgB.ID = 1
	cfgB.Nx = 8
	a, _ := tile.New(cfgA)
	b, _ := tile.New(cfgB)

	topo := &mismatchedPair{a: a, b: b}
	ex := halo.New(1, 1, nil)
	o := New([]*tile.Tile{a, b}, topo, ex, 0.1, nil)

	if err := o.Step(); err == nil {
		t.Fatal("expected a step across mismatched neighbours to fail")
	}
}

type mismatchedPair struct{ a, b *tile.Tile }

func (p *mismatchedPair) Neighbour(id int, delta topology.Delta) (topology.Handle, bool) {
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
