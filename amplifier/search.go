package amplifier

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/intcode/internal"
)

// Result is the best phase ordering found by Search.
type Result struct {
	Signal int64   // Highest output signal.
	Phases []int64 // Phase ordering that produced it.
}

// Search tries every ordering of phaseSet, starting each ring with a zero
// signal, and returns the ordering with the highest output. Ties go to the
// ordering generated first.
func Search(ctx context.Context, program []int64, phaseSet []int64, feedback bool) (result Result, err error) {
	if len(phaseSet) == 0 {
		err = ErrNoPhases
		return
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	var lock sync.Mutex
	best := -1

	index := 0
	for phases := range internal.Permutations(phaseSet) {
		if gctx.Err() != nil {
			break
		}

		order := index
		index++

		group.Go(func() (err error) {
			ring := NewRing(program, phases)

			var signal int64
			if feedback {
				signal, err = ring.Feedback(0)
			} else {
				signal, err = ring.Chain(0)
			}
			if err != nil {
				return
			}

			lock.Lock()
			defer lock.Unlock()

			if best < 0 || signal > result.Signal || (signal == result.Signal && order < best) {
				best = order
				result = Result{Signal: signal, Phases: phases}
			}

			return
		})
	}

	err = group.Wait()
	if err != nil {
		result = Result{}
		return
	}

	err = ctx.Err()
	if err != nil {
		result = Result{}
		return
	}

	return
}
