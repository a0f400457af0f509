package ticket

import (
	"fmt"
	"time"
)

// StaffActivity is the last time one staff member posted in a ticket.
type StaffActivity struct {
	ticketID     uint
	guildID      string
	staffID      string
	lastActivity time.Time
}

func NewStaffActivity(ticketID uint, guildID, staffID string, at time.Time) (*StaffActivity, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if staffID == "" {
		return nil, fmt.Errorf("staff ID is required")
	}
	return &StaffActivity{
		ticketID:     ticketID,
		guildID:      guildID,
		staffID:      staffID,
		lastActivity: at,
	}, nil
}

func (s *StaffActivity) TicketID() uint {
	return s.ticketID
}

func (s *StaffActivity) GuildID() string {
	return s.guildID
}

func (s *StaffActivity) StaffID() string {
	return s.staffID
}

func (s *StaffActivity) LastActivity() time.Time {
	return s.lastActivity
}
