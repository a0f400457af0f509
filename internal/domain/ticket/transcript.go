package ticket

import (
	"fmt"
	"time"
)

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}

type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Color       int    `json:"color,omitempty"`
}

// TranscriptMessage is one captured channel message.
type TranscriptMessage struct {
	ID          string       `json:"id,omitempty"`
	AuthorID    string       `json:"author_id"`
	AuthorName  string       `json:"author_name"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Embeds      []Embed      `json:"embeds,omitempty"`
}

// Transcript is the ordered message history of a ticket. There is at most
// one per ticket; saving again replaces it.
type Transcript struct {
	ticketID  uint
	messages  []TranscriptMessage
	createdAt time.Time
	updatedAt time.Time
}

func NewTranscript(ticketID uint, messages []TranscriptMessage) (*Transcript, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if messages == nil {
		messages = []TranscriptMessage{}
	}
	now := time.Now().UTC()
	return &Transcript{
		ticketID:  ticketID,
		messages:  messages,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructTranscript(ticketID uint, messages []TranscriptMessage, createdAt, updatedAt time.Time) *Transcript {
	if messages == nil {
		messages = []TranscriptMessage{}
	}
	return &Transcript{
		ticketID:  ticketID,
		messages:  messages,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (t *Transcript) TicketID() uint {
	return t.ticketID
}

func (t *Transcript) Messages() []TranscriptMessage {
	out := make([]TranscriptMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) MessageCount() int {
	return len(t.messages)
}

func (t *Transcript) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Transcript) UpdatedAt() time.Time {
	return t.updatedAt
}
