package setting

import "errors"

var (
	// ErrSettingsNotFound is returned when a guild has no stored settings row
	ErrSettingsNotFound = errors.New("guild settings not found")

	// ErrInvalidSettings is returned when a patch would leave settings invalid
	ErrInvalidSettings = errors.New("invalid guild settings")
)
