package mvu

import "errors"

var errUnknownEffect = errors.New("mvu: unknown effect")
