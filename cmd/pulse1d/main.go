// Command pulse1d runs the 1D pulse-propagation reference scenario: a single
// open-boundary tile with a unit ey spike at its centre, advanced by -steps
// full timesteps (one by default), printing the bz response at the two cells
// adjacent to the spike.
//
// Usage: go run ./cmd/pulse1d
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/camiliad/runko/halo"
	"github.com/camiliad/runko/orchestrator"
	"github.com/camiliad/runko/pusher"
	"github.com/camiliad/runko/tile"
	"github.com/camiliad/runko/topology"
)

// openTopology is a 1-tile topology with no neighbours: every direction hits
// an open boundary.
type openTopology struct{}

func (openTopology) Neighbour(id int, delta topology.Delta) (topology.Handle, bool) {
	return nil, false
}

func main() {
	nx := flag.Int("nx", 100, "tile extent")
	h := flag.Int("h", 1, "ghost band width")
	cfl := flag.Float64("cfl", 0.45, "Courant number")
	spike := flag.Int("spike", 50, "index of the initial ey spike")
	steps := flag.Int("steps", 1, "number of full timesteps to run")
	flag.Parse()

	cfg := tile.Config{
		ID: 0, Dim: tile.D1,
		Nx: *nx, Ny: 1, Nz: 1, H: *h,
		CFL: *cfl, Precision: "f64",
		HaloFields: 1, HaloCurrents: 1, SnapshotDepth: 1,
	}
	tl, err := tile.New(cfg)
	if err != nil {
		log.Fatalf("pulse1d: building tile: %v", err)
	}
	tl.Lattice().Ey.Set(*spike, 0, 0, 1.0)

	ex := halo.New(1, 1, nil)
	o := orchestrator.New([]*tile.Tile{tl}, openTopology{}, ex, *cfl, slog.Default())
	o.Producer = pusher.NullProducer{}

	if err := o.Run(*steps); err != nil {
		log.Fatalf("pulse1d: running %d steps: %v", *steps, err)
	}

	left, right := *spike-1, *spike
	bzLeft := tl.Lattice().Bz.At(left, 0, 0)
	bzRight := tl.Lattice().Bz.At(right, 0, 0)
	fmt.Printf("after %d step(s): bz(%d)=%.6f bz(%d)=%.6f\n", *steps, left, bzLeft, right, bzRight)
}
