package book

import (
	"errors"
)

// Status is the transport-agnostic outcome of a facade call.
type Status int

const (
	StatusOK Status = iota
	StatusInvalidArgument
	StatusNotFound
	StatusConflict
	StatusUnavailable
	StatusUpstreamUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidArgument:
		return "invalid_argument"
	case StatusNotFound:
		return "not_found"
	case StatusConflict:
		return "conflict"
	case StatusUnavailable:
		return "unavailable"
	case StatusUpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "unknown"
	}
}

// StatusOf classifies err. Errors it does not recognise count as unavailable.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrConflict):
		return StatusConflict
	case errors.Is(err, ErrUpstreamUnavailable):
		return StatusUpstreamUnavailable
	default:
		return StatusUnavailable
	}
}
