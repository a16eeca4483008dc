package args

import "errors"

var (
	ErrNoPayload = errors.New("event carries no payload")
	ErrNormalize = errors.New("argument normalization failed")
)
