// Package orchestrator drives the nine-phase per-step sequence across a set
// of tiles: half-B push, field halo exchange, E push, external current
// deposition, current halo exchange, current deposit, half-B push again, an
// optional driven-boundary pass, then the snapshot/current cycle.
//
// Per-tile kernels run on a worker pool the same way a chunk-of-entities
// pass is parallelised across goroutines, with a single-threaded barrier
// between phases. Field halo exchange is safe to run on that same pool
// because each tile only ever mutates its own ghost band. Current halo
// exchange mutates the *neighbour's* ghost band too (the drain half of the
// add-then-drain convention), so two adjacent tiles exchanging concurrently
// could race on each other's buffers; the orchestrator runs that one phase
// single-threaded in ascending tile-ID order instead of attempting a
// two-colour scheduling of the tile graph.
package orchestrator

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/camiliad/runko/conductor"
	"github.com/camiliad/runko/halo"
	"github.com/camiliad/runko/moment"
	"github.com/camiliad/runko/pusher"
	"github.com/camiliad/runko/telemetry"
	"github.com/camiliad/runko/tile"
	"github.com/camiliad/runko/topology"
)

// Orchestrator owns a fixed tile set and drives it through the per-step
// sequence against a topology and a halo exchanger.
type Orchestrator struct {
	Tiles     []*tile.Tile
	Topo      topology.Topology
	Exchanger *halo.Exchanger
	Producer  pusher.CurrentProducer
	Conductor *conductor.Injector
	Consumers map[int]moment.AnalysisConsumer

	Perf   *telemetry.PerfCollector
	Logger *slog.Logger

	dt   float64
	time float64

	numWorkers int
}

// New builds an Orchestrator. A nil Producer/Conductor disables the
// corresponding optional phase; a nil logger falls back to slog.Default().
func New(tiles []*tile.Tile, topo topology.Topology, ex *halo.Exchanger, dt float64, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		Tiles:      tiles,
		Topo:       topo,
		Exchanger:  ex,
		Consumers:  make(map[int]moment.AnalysisConsumer),
		Perf:       telemetry.NewPerfCollector(60, logger),
		Logger:     logger,
		dt:         dt,
		numWorkers: runtime.GOMAXPROCS(0),
	}
}

// parallel runs fn(tile) for every tile on a worker pool sized to
// GOMAXPROCS, chunking the tile slice the same way a behaviour-and-physics
// pass splits its entity snapshot across workers. It blocks until every
// tile has been processed.
func (o *Orchestrator) parallel(fn func(*tile.Tile) error) error {
	n := len(o.Tiles)
	if n == 0 {
		return nil
	}
	numWorkers := o.numWorkers
	if numWorkers > n {
		numWorkers = n
	}
	chunkSize := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	errs := make([]error, numWorkers)
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(workerID, i0, i1 int) {
			defer wg.Done()
			for i := i0; i < i1; i++ {
				if err := fn(o.Tiles[i]); err != nil {
					errs[workerID] = err
					return
				}
			}
		}(w, start, end)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// sequential runs fn(tile) for every tile in ascending ID order on the
// calling goroutine, used for the current halo exchange where two
// neighbours mutating each other concurrently would race.
func (o *Orchestrator) sequential(fn func(*tile.Tile) error) error {
	for _, t := range o.Tiles {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

// Step advances every tile by one full timestep, in the nine-phase order:
// half-B push, field halo exchange, E push, current deposition, current
// halo exchange, current deposit, half-B push, optional conductor pass,
// snapshot/current cycle.
func (o *Orchestrator) Step() error {
	o.Perf.StartStep()
	defer o.Perf.EndStep()

	o.Perf.StartPhase(telemetry.PhasePushHalfB)
	if err := o.parallel(func(t *tile.Tile) error { t.PushHalfB(); return nil }); err != nil {
		return fmt.Errorf("orchestrator: push_half_B (pre): %w", err)
	}

	o.Perf.StartPhase(telemetry.PhaseHaloFieldsB)
	if err := o.parallel(func(t *tile.Tile) error { return o.Exchanger.ExchangeFields(o.Topo, t) }); err != nil {
		return fmt.Errorf("orchestrator: field halo exchange (post half-B): %w", err)
	}

	o.Perf.StartPhase(telemetry.PhasePushE)
	if err := o.parallel(func(t *tile.Tile) error { t.PushE(); return nil }); err != nil {
		return fmt.Errorf("orchestrator: push_E: %w", err)
	}

	if o.Producer != nil {
		o.Perf.StartPhase(telemetry.PhaseDeposit)
		if err := o.parallel(func(t *tile.Tile) error { return o.Producer.Deposit(t) }); err != nil {
			return fmt.Errorf("orchestrator: current deposition: %w", err)
		}
	}

	o.Perf.StartPhase(telemetry.PhaseHaloCurrents)
	if err := o.sequential(func(t *tile.Tile) error { return o.Exchanger.ExchangeCurrents(o.Topo, t) }); err != nil {
		return fmt.Errorf("orchestrator: current halo exchange: %w", err)
	}

	o.Perf.StartPhase(telemetry.PhaseDeposit)
	if err := o.parallel(func(t *tile.Tile) error { t.DepositCurrent(); return nil }); err != nil {
		return fmt.Errorf("orchestrator: deposit_current: %w", err)
	}

	o.Perf.StartPhase(telemetry.PhasePushHalfB)
	if err := o.parallel(func(t *tile.Tile) error { t.PushHalfB(); return nil }); err != nil {
		return fmt.Errorf("orchestrator: push_half_B (post): %w", err)
	}

	if o.Conductor != nil {
		o.Perf.StartPhase(telemetry.PhaseConductor)
		tNow := o.time
		if err := o.parallel(func(t *tile.Tile) error { o.Conductor.UpdateB(t, tNow); o.Conductor.UpdateE(t, tNow); return nil }); err != nil {
			return fmt.Errorf("orchestrator: conductor injector: %w", err)
		}
	}

	o.Perf.StartPhase(telemetry.PhaseCycle)
	if err := o.parallel(func(t *tile.Tile) error {
		t.CycleYee()
		t.CycleCurrent()
		return nil
	}); err != nil {
		return fmt.Errorf("orchestrator: cycle: %w", err)
	}

	if len(o.Consumers) > 0 {
		o.Perf.StartPhase(telemetry.PhaseMomentAnalyse)
		for _, t := range o.Tiles {
			consumer, ok := o.Consumers[t.ID()]
			if !ok {
				continue
			}
			for _, m := range t.Moments() {
				if err := consumer.Analyse(m); err != nil {
					return fmt.Errorf("orchestrator: analysis consumer on tile %d: %w", t.ID(), err)
				}
			}
		}
	}

	o.time += o.dt
	return nil
}

// Run advances the orchestrator by steps full timesteps.
func (o *Orchestrator) Run(steps int) error {
	for s := 0; s < steps; s++ {
		if err := o.Step(); err != nil {
			return fmt.Errorf("orchestrator: step %d: %w", s, err)
		}
	}
	return nil
}

// Time returns the simulated time elapsed so far.
func (o *Orchestrator) Time() float64 { return o.time }
