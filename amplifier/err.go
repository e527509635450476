package amplifier

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrNoPhases = errors.New(f("no phases"))
	ErrNoSignal = errors.New(f("no signal"))
)

// ErrStage locates a failure within the ring.
type ErrStage struct {
	Stage int
	Phase int64
	Err   error
}

func (err *ErrStage) Error() string {
	return f("stage %d (phase %d) %v", err.Stage, err.Phase, err.Err)
}

func (err *ErrStage) Unwrap() error {
	return err.Err
}
