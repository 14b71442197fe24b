package emulator

import (
	"errors"
	"strconv"

	"github.com/ezrec/accsim/translate"
)

var f = translate.From

var (
	ErrConfigKey = errors.New(f("unknown configuration key"))
	ErrNotReset  = errors.New(f("emulator not reset"))
	ErrLimit     = errors.New(f("instruction limit must be positive"))
)

// ErrRuntime indicates how far a run got before an error stopped it.
type ErrRuntime struct {
	Instructions int
	Err          error
}

func (err *ErrRuntime) Error() string {
	return f("after %s instructions: %v", strconv.Itoa(err.Instructions), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
