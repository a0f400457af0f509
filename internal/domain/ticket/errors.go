package ticket

import "errors"

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTranscriptNotFound = errors.New("transcript not found")
	// ErrInvalidTransition wraps every refused status change.
	ErrInvalidTransition = errors.New("invalid ticket status transition")
	// ErrTranscriptRequired is returned when deletion is attempted without a
	// saved transcript for the same ticket.
	ErrTranscriptRequired = errors.New("transcript must be saved before deletion")
)
