package dto

import (
	"time"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// ThreadPayload is one prior conversation turn on a submitted ticket.
type ThreadPayload struct {
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sent_at"`
}

// TicketPayload is a ticket submitted for classification or triage.
type TicketPayload struct {
	ID             string          `json:"id"`
	Subject        string          `json:"subject"`
	Description    string          `json:"description"`
	Threads        []ThreadPayload `json:"threads,omitempty"`
	RequesterName  string          `json:"requester_name"`
	RequesterEmail string          `json:"requester_email"`
	CreatedAt      time.Time       `json:"created_at"`
	// Refresh bypasses the classification cache and stored record, forcing
	// the ticket to be classified again.
	Refresh bool `json:"refresh,omitempty"`
}

// BatchTriageRequest wraps a batch of tickets.
type BatchTriageRequest struct {
	Tickets []TicketPayload `json:"tickets"`
}

// ToDomain converts the payload to the domain ticket.
func (p TicketPayload) ToDomain() domain.Ticket {
	threads := make([]domain.Thread, 0, len(p.Threads))
	for _, th := range p.Threads {
		threads = append(threads, domain.Thread{
			AuthorName:  th.AuthorName,
			AuthorEmail: th.AuthorEmail,
			Body:        th.Body,
			SentAt:      th.SentAt,
		})
	}
	return domain.Ticket{
		ID:             p.ID,
		Subject:        p.Subject,
		Description:    p.Description,
		Threads:        threads,
		RequesterName:  p.RequesterName,
		RequesterEmail: p.RequesterEmail,
		CreatedAt:      p.CreatedAt,
	}
}
