package stack

import "errors"

var (
	ErrConfig         = errors.New("invalid configuration")
	ErrUnknownProject = errors.New("unknown project kind")
)
