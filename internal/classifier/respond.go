package classifier

import (
	"fmt"
	"strings"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// SuggestResponse drafts a category-appropriate reply for a human agent to
// review. Tone is adjusted for frustrated or escalated senders. The draft is
// advisory; it is never sent automatically.
func SuggestResponse(cl domain.Classification) string {
	dealer := cl.DealerName
	if dealer == "" {
		dealer = "your dealership"
	}
	feedLine := ""
	if cl.SyndicatorOrProvider != "" {
		feedLine = fmt.Sprintf("- Feed: %s\n", cl.SyndicatorOrProvider)
	}

	var body string
	switch cl.Category {
	case domain.CategoryProblemBug:
		body = fmt.Sprintf(`Thank you for reporting this issue. I've escalated this ticket to our technical team for investigation.

Issue summary:
- Dealer: %s
%s- Priority: Tier %d

Our team will investigate and provide an update within 24 hours.`, dealer, feedLine, cl.Tier)
	case domain.CategoryActivationExisting:
		body = fmt.Sprintf(`Thank you for your request. I'll process this activation for you right away.

Activation details:
- Dealer: %s
%s- Inventory: %s

I'll send a confirmation once the setup is complete, typically within 1-2 business days.`, dealer, feedLine, cl.InventoryType)
	case domain.CategoryActivationNew:
		body = fmt.Sprintf(`Welcome aboard! Our onboarding team will reach out within 24 hours to guide you through the setup for %s.`, dealer)
	case domain.CategoryCancellation:
		body = fmt.Sprintf(`I've received your cancellation request and will process it accordingly.

Cancellation details:
- Dealer: %s
%s
I'll send a confirmation once the cancellation is complete.`, dealer, feedLine)
	case domain.CategoryGeneralQuestion:
		body = `Thank you for reaching out! I'd be happy to help answer your question. Let me know if you need any clarification.`
	case domain.CategoryAnalysisReview:
		body = fmt.Sprintf(`Thank you for your request. I've forwarded this to the appropriate team for review. You'll receive an update for %s once the analysis is complete.`, dealer)
	default:
		body = `Thank you for contacting us. We'll review your request and get back to you shortly.`
	}

	var b strings.Builder
	b.WriteString("Hi")
	if cl.Contact != "" {
		b.WriteString(" " + cl.Contact)
	}
	b.WriteString(",\n\n")
	switch cl.Sentiment {
	case domain.SentimentFrustrated, domain.SentimentUrgent, domain.SentimentCritical:
		b.WriteString("I understand how frustrating this must be, and I apologize for the inconvenience.\n\n")
	}
	b.WriteString(body)
	b.WriteString("\n\nBest regards,\nSupport Team")
	return b.String()
}
