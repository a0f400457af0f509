package usecases

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/application/ticket/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/services/markdown"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils/logutil"
)

func getTranscript(ctx context.Context, repo ticket.TranscriptRepository, ticketID uint, log logger.Interface) (*ticket.Transcript, error) {
	if ticketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	transcript, err := repo.GetByTicketID(ctx, ticketID)
	if err != nil {
		if isTranscriptNotFound(err) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("transcript for ticket %d not found", ticketID))
		}
		log.Errorw("failed to get transcript", "ticket_id", ticketID, "error", err)
		return nil, errors.NewInternalError("failed to get transcript").WithCause(err)
	}
	return transcript, nil
}

type GetTranscriptUseCase struct {
	transcriptRepo ticket.TranscriptRepository
	logger         logger.Interface
}

func NewGetTranscriptUseCase(transcriptRepo ticket.TranscriptRepository, logger logger.Interface) *GetTranscriptUseCase {
	return &GetTranscriptUseCase{transcriptRepo: transcriptRepo, logger: logger}
}

func (uc *GetTranscriptUseCase) Execute(ctx context.Context, ticketID uint) (*dto.TranscriptDTO, error) {
	transcript, err := getTranscript(ctx, uc.transcriptRepo, ticketID, uc.logger)
	if err != nil {
		return nil, err
	}
	return dto.ToTranscriptDTO(transcript), nil
}

type SaveTranscriptCommand struct {
	TicketID uint
	Messages []ticket.TranscriptMessage
}

// SaveTranscriptUseCase upserts a ticket's transcript. Saving the same data
// twice leaves one row with the same content.
type SaveTranscriptUseCase struct {
	ticketRepo     ticket.TicketRepository
	transcriptRepo ticket.TranscriptRepository
	logger         logger.Interface
}

func NewSaveTranscriptUseCase(
	ticketRepo ticket.TicketRepository,
	transcriptRepo ticket.TranscriptRepository,
	logger logger.Interface,
) *SaveTranscriptUseCase {
	return &SaveTranscriptUseCase{
		ticketRepo:     ticketRepo,
		transcriptRepo: transcriptRepo,
		logger:         logger,
	}
}

func (uc *SaveTranscriptUseCase) Execute(ctx context.Context, cmd SaveTranscriptCommand) (*dto.TranscriptDTO, error) {
	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	if _, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID, uc.logger); err != nil {
		return nil, err
	}

	transcript, err := ticket.NewTranscript(cmd.TicketID, cmd.Messages)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.transcriptRepo.Save(ctx, transcript); err != nil {
		uc.logger.Errorw("failed to save transcript", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to save transcript").WithCause(err)
	}

	uc.logger.Infow("transcript saved", "ticket_id", cmd.TicketID, "messages", transcript.MessageCount())
	return dto.ToTranscriptDTO(transcript), nil
}

const transcriptPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Channel}} transcript</title>
</head>
<body>
<h1>{{.Channel}}</h1>
<p class="meta">{{.Subject}} &middot; {{.Count}} message(s)</p>
{{range .Messages}}<div class="message" id="msg-{{.ID}}">
<div class="header"><span class="author" data-id="{{.AuthorID}}">{{.AuthorName}}</span> <time datetime="{{.Timestamp.Format "2006-01-02T15:04:05Z07:00"}}">{{.Timestamp.Format "2006-01-02 15:04"}}</time></div>
<div class="content">{{.Body}}</div>
{{range .Attachments}}<div class="attachment"><a href="{{.URL}}">{{.Name}}</a></div>
{{end}}</div>
{{end}}</body>
</html>
`

var transcriptPage = template.Must(template.New("transcript").Parse(transcriptPageTemplate))

type renderedMessage struct {
	ID          string
	AuthorID    string
	AuthorName  string
	Timestamp   time.Time
	Body        template.HTML
	Attachments []ticket.Attachment
}

// RenderTranscriptUseCase renders a saved transcript as a standalone HTML page.
type RenderTranscriptUseCase struct {
	ticketRepo     ticket.TicketRepository
	transcriptRepo ticket.TranscriptRepository
	markdown       markdown.MarkdownService
	logger         logger.Interface
}

func NewRenderTranscriptUseCase(
	ticketRepo ticket.TicketRepository,
	transcriptRepo ticket.TranscriptRepository,
	markdownService markdown.MarkdownService,
	logger logger.Interface,
) *RenderTranscriptUseCase {
	return &RenderTranscriptUseCase{
		ticketRepo:     ticketRepo,
		transcriptRepo: transcriptRepo,
		markdown:       markdownService,
		logger:         logger,
	}
}

func (uc *RenderTranscriptUseCase) Execute(ctx context.Context, ticketID uint) (string, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, ticketID, uc.logger)
	if err != nil {
		return "", err
	}
	transcript, err := getTranscript(ctx, uc.transcriptRepo, ticketID, uc.logger)
	if err != nil {
		return "", err
	}

	messages := transcript.Messages()
	rendered := make([]renderedMessage, 0, len(messages))
	for _, msg := range messages {
		body, err := uc.markdown.DiscordToHTML(msg.Content)
		if err != nil {
			uc.logger.Warnw("failed to render message, using escaped text",
				"ticket_id", ticketID,
				"message_id", msg.ID,
				"content", logutil.TruncateForLog(msg.Content, 64),
				"error", err,
			)
			body = template.HTMLEscapeString(msg.Content)
		}
		// DiscordToHTML output is already sanitized.
		rendered = append(rendered, renderedMessage{
			ID:          msg.ID,
			AuthorID:    msg.AuthorID,
			AuthorName:  msg.AuthorName,
			Timestamp:   msg.Timestamp,
			Body:        template.HTML(body),
			Attachments: msg.Attachments,
		})
	}

	var buf bytes.Buffer
	err = transcriptPage.Execute(&buf, struct {
		Channel  string
		Subject  string
		Count    int
		Messages []renderedMessage
	}{
		Channel:  t.ChannelName(),
		Subject:  t.Subject(),
		Count:    len(rendered),
		Messages: rendered,
	})
	if err != nil {
		uc.logger.Errorw("failed to render transcript", "ticket_id", ticketID, "error", err)
		return "", errors.NewInternalError("failed to render transcript").WithCause(err)
	}
	return buf.String(), nil
}
