package ticket

import (
	"time"
)

type LifecycleAction string

const (
	ActionOpened   LifecycleAction = "ticket.opened"
	ActionClosed   LifecycleAction = "ticket.closed"
	ActionReopened LifecycleAction = "ticket.reopened"
	ActionDeleted  LifecycleAction = "ticket.deleted"
)

type LifecycleEvent struct {
	EventID    string          `json:"event_id,omitempty"`
	Action     LifecycleAction `json:"action"`
	TicketID   uint            `json:"ticket_id"`
	GuildID    string          `json:"guild_id"`
	Number     int             `json:"number"`
	ActorID    string          `json:"actor_id,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt int64           `json:"occurred_at"`
}

func NewLifecycleEvent(action LifecycleAction, t *Ticket, actorID, reason string) LifecycleEvent {
	return LifecycleEvent{
		Action:     action,
		TicketID:   t.ID(),
		GuildID:    t.GuildID(),
		Number:     t.Number(),
		ActorID:    actorID,
		Reason:     reason,
		OccurredAt: time.Now().UnixMilli(),
	}
}
