package videogen

import "errors"

var (
	ErrInvalidPrompt  = errors.New("invalid prompt")
	ErrUpstream       = errors.New("upstream failure")
	ErrUpstreamFormat = errors.New("unexpected upstream response format")
	ErrTimeout        = errors.New("generation timed out")
)
