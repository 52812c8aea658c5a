package emotions

import "errors"

var (
	// ErrNotFound is returned when an emotion label is not in the vocabulary.
	ErrNotFound = errors.New("emotion not found")

	// ErrEmojiModeUnsupported is returned when emoji mode is requested from a
	// display that cannot render it.
	ErrEmojiModeUnsupported = errors.New("display does not support emoji mode")
)
