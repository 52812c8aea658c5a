package robot

import "errors"

var (
	// ErrUnknownCommand is returned for a command name with no mapping.
	ErrUnknownCommand = errors.New("robot: unknown command")

	// ErrUnknownSequence is returned for a sequence name with no table.
	ErrUnknownSequence = errors.New("robot: unknown sequence")

	// ErrInterrupted is returned when a stop cut a fast-path sequence short.
	ErrInterrupted = errors.New("robot: interrupted by stop")

	// ErrAngleRange is returned for a test angle outside 0..180.
	ErrAngleRange = errors.New("robot: angle out of range")
)
