// Package amplifier chains IntCode machines so that each one's output is the
// next one's input, either once through or in a feedback loop.
package amplifier

import (
	"log"
	"slices"

	"github.com/ezrec/intcode/cpu"
)

// Ring is a series of machines running the same program, one per phase.
type Ring struct {
	Verbose bool       // If set, logs every signal passed between stages.
	Phases  []int64    // Phase setting of each stage.
	Stages  []*cpu.Cpu // Machines, in signal order.
}

// NewRing creates one machine per phase, each seeded with its phase as the
// first input.
func NewRing(program []int64, phases []int64) (ring *Ring) {
	ring = &Ring{
		Phases: slices.Clone(phases),
		Stages: make([]*cpu.Cpu, len(phases)),
	}

	for n, phase := range phases {
		ring.Stages[n] = cpu.NewCpu(program, phase)
	}

	return
}

// Reset restores every stage to its just constructed state.
func (ring *Ring) Reset() {
	for _, stage := range ring.Stages {
		stage.Reset()
	}
}

func (ring *Ring) stageError(n int, err error) error {
	return &ErrStage{Stage: n, Phase: ring.Phases[n], Err: err}
}

// Chain passes signal once through every stage, running each to completion.
func (ring *Ring) Chain(signal int64) (output int64, err error) {
	if len(ring.Stages) == 0 {
		err = ErrNoPhases
		return
	}

	ring.Reset()

	for n, stage := range ring.Stages {
		stage.Input(signal)
		err = stage.RunUntilCompletion()
		if err != nil {
			err = ring.stageError(n, err)
			return
		}

		var ok bool
		signal, ok = stage.LastOutput()
		if !ok {
			err = ring.stageError(n, ErrNoSignal)
			return
		}

		if ring.Verbose {
			log.Printf("amplifier: stage %d -> %d", n, signal)
		}
	}

	output = signal

	return
}

// Feedback passes signal around the ring, one output at a time, until the
// last stage halts. Returns the last signal the last stage emitted.
func (ring *Ring) Feedback(signal int64) (output int64, err error) {
	if len(ring.Stages) == 0 {
		err = ErrNoPhases
		return
	}

	ring.Reset()

	last := len(ring.Stages) - 1
	emitted := false

	for {
		for n, stage := range ring.Stages {
			stage.Input(signal)

			var state cpu.State
			state, err = stage.RunUntilOutput()
			if err != nil {
				err = ring.stageError(n, err)
				return
			}

			if state == cpu.STATE_HALTED {
				if n == last {
					if !emitted {
						err = ring.stageError(n, ErrNoSignal)
					}
					return
				}
				continue
			}

			signal, _ = stage.LastOutput()
			if n == last {
				output = signal
				emitted = true
			}

			if ring.Verbose {
				log.Printf("amplifier: stage %d -> %d", n, signal)
			}
		}
	}
}
