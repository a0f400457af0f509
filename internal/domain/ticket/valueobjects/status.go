package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusOpen    TicketStatus = "open"
	StatusClosed  TicketStatus = "closed"
	StatusDeleted TicketStatus = "deleted"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusOpen:    true,
	StatusClosed:  true,
	StatusDeleted: true,
}

// Reopen is the closed -> open edge. Deleted is terminal.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusOpen: {
		StatusClosed,
		StatusDeleted,
	},
	StatusClosed: {
		StatusOpen,
		StatusDeleted,
	},
	StatusDeleted: {},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[ts] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func (ts TicketStatus) IsOpen() bool {
	return ts == StatusOpen
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

func (ts TicketStatus) IsDeleted() bool {
	return ts == StatusDeleted
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
