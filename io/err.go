package io

import (
	"errors"

	"github.com/ezrec/accsim/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrEndOfTape = errors.New(f("end of tape"))
)
