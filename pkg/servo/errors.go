package servo

import "errors"

var (
	// ErrUnknownLeg is returned when a leg name cannot be parsed.
	ErrUnknownLeg = errors.New("servo: unknown leg")

	// ErrUnknownDriver is returned for an unsupported driver kind.
	ErrUnknownDriver = errors.New("servo: unknown driver")

	// ErrChannelRange is returned when a driver cannot address a channel.
	ErrChannelRange = errors.New("servo: channel out of range")
)
