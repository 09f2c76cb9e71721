// Package telemetry tracks per-step timing for the orchestrator's nine-phase
// sequence, adapted from a tick-phase performance collector: a rolling
// window of per-step samples, each broken down by named phase.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one orchestrator step.
const (
	PhaseConductor     = "conductor"
	PhaseDeposit       = "deposit"
	PhaseHaloCurrents  = "halo_currents"
	PhasePushE         = "push_e"
	PhaseHaloFieldsE   = "halo_fields_e"
	PhasePushHalfB     = "push_half_b"
	PhaseHaloFieldsB   = "halo_fields_b"
	PhaseCycle         = "cycle"
	PhaseMomentAnalyse = "moment_analyse"
)

// StepSample holds timing data for a single orchestrator step.
type StepSample struct {
	StepDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks step timing over a rolling window, the same
// ring-buffer-of-samples shape used for per-tick performance sampling.
type PerfCollector struct {
	windowSize    int
	samples       []StepSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	stepStart     time.Time
	phaseStart    time.Time
	lastPhase     string
	logger        *slog.Logger
}

// NewPerfCollector creates a collector averaging over windowSize steps.
func NewPerfCollector(windowSize int, logger *slog.Logger) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]StepSample, windowSize),
		currentPhases: make(map[string]time.Duration),
		logger:        logger,
	}
}

// StartStep begins timing a new orchestrator step.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a named phase, closing out whichever phase was
// previously open.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndStep closes the last open phase and records the sample.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	sample := StepSample{StepDuration: now.Sub(p.stepStart), Phases: p.currentPhases}
	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// Stats computes aggregated statistics over the current window.
type Stats struct {
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration
	PhaseAvg        map[string]time.Duration
	PhasePct        map[string]float64
	StepsPerSecond  float64
}

func (p *PerfCollector) Stats() Stats {
	if p.sampleCount == 0 {
		return Stats{PhaseAvg: make(map[string]time.Duration), PhasePct: make(map[string]float64)}
	}

	var totalStep time.Duration
	var minStep, maxStep time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalStep += s.StepDuration
		if i == 0 || s.StepDuration < minStep {
			minStep = s.StepDuration
		}
		if s.StepDuration > maxStep {
			maxStep = s.StepDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgStep := totalStep / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgStep > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgStep) * 100
		}
	}

	var stepsPerSec float64
	if avgStep > 0 {
		stepsPerSec = float64(time.Second) / float64(avgStep)
	}

	return Stats{
		AvgStepDuration: avgStep,
		MinStepDuration: minStep,
		MaxStepDuration: maxStep,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		StepsPerSecond:  stepsPerSec,
	}
}

// LogStats logs the collector's current window statistics.
func (p *PerfCollector) LogStats() {
	s := p.Stats()
	attrs := []any{
		"avg_step_us", s.AvgStepDuration.Microseconds(),
		"min_step_us", s.MinStepDuration.Microseconds(),
		"max_step_us", s.MaxStepDuration.Microseconds(),
		"steps_per_sec", int(s.StepsPerSecond),
	}
	phases := []string{
		PhaseConductor, PhaseDeposit, PhaseHaloCurrents, PhasePushE,
		PhaseHaloFieldsE, PhasePushHalfB, PhaseHaloFieldsB, PhaseCycle,
		PhaseMomentAnalyse,
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	p.logger.Info("step", attrs...)
}
