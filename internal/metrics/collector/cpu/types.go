package cpu

import "errors"

var ErrUnavailable = errors.New("cpu usage counter unavailable")
