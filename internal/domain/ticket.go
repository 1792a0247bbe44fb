package domain

import "time"

// Thread is one prior conversation turn on a ticket, oldest first.
type Thread struct {
	AuthorName  string
	AuthorEmail string
	Body        string
	SentAt      time.Time
}

// Ticket is the immutable input unit for classification. Tickets are created
// externally (ticketing system export or manual entry) and never mutated once
// classification begins.
type Ticket struct {
	ID             string
	Subject        string
	Description    string
	Threads        []Thread
	RequesterName  string
	RequesterEmail string
	CreatedAt      time.Time
}
