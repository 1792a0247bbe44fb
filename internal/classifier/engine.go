package classifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/extractor"
	"github.com/dealerdesk/triage-service/internal/refdata"
)

// Engine merges oracle output, fallback extraction, and reference-data
// enrichment into a fully populated Classification, then assigns the tier.
type Engine struct {
	oracle         extractor.Oracle
	fallback       *extractor.Fallback
	snapshot       *refdata.Snapshot
	internalDomain string
	logger         *zap.Logger
}

// NewEngine constructs a classification engine. The snapshot is read-only
// and shared; the oracle may be nil, in which case every field comes from
// the fallback extractor.
func NewEngine(oracle extractor.Oracle, snapshot *refdata.Snapshot, internalDomain string, logger *zap.Logger) *Engine {
	if oracle == nil {
		oracle = extractor.NoopOracle{}
	}
	return &Engine{
		oracle:         oracle,
		fallback:       extractor.NewFallback(snapshot),
		snapshot:       snapshot,
		internalDomain: strings.ToLower(strings.TrimSpace(internalDomain)),
		logger:         logger,
	}
}

// Classify produces the classification for a ticket. It is deterministic
// given identical oracle output and never returns an error: extraction
// failures degrade to fallback extraction and blank fields.
func (e *Engine) Classify(ctx context.Context, ticket domain.Ticket) domain.Classification {
	text := CombineText(ticket)

	entities := e.extractEntities(ctx, ticket, text)

	sentiment := e.sentimentOf(entities)
	category := e.categoryOf(entities, text)
	subCategory, feedName := e.subCategoryOf(entities, text)

	cl := domain.Classification{
		TicketID:             ticket.ID,
		Category:             category,
		SubCategory:          subCategory,
		SyndicatorOrProvider: feedName,
		InventoryType:        e.inventoryOf(entities),
		Sentiment:            sentiment,
	}

	e.resolveDealer(entities, &cl)
	e.resolveContact(ticket, entities, &cl)

	cl.Tier = DecideTier(category, subCategory, sentiment, entities)
	return cl
}

// CombineText flattens subject, description, and threads chronologically
// with explicit separators so thread boundaries stay recoverable.
func CombineText(ticket domain.Ticket) string {
	parts := make([]string, 0, 2+len(ticket.Threads))
	if ticket.Subject != "" {
		parts = append(parts, "Subject: "+ticket.Subject)
	}
	if strings.TrimSpace(ticket.Description) != "" {
		parts = append(parts, strings.TrimSpace(ticket.Description))
	}
	for _, th := range ticket.Threads {
		body := strings.TrimSpace(th.Body)
		if body == "" {
			continue
		}
		if th.AuthorName != "" {
			parts = append(parts, fmt.Sprintf("From %s:\n%s", th.AuthorName, body))
		} else {
			parts = append(parts, body)
		}
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// extractEntities calls the oracle, sanitizes its output, and merges the
// fallback extraction underneath it. Oracle failure is the same as an empty
// extraction.
func (e *Engine) extractEntities(ctx context.Context, ticket domain.Ticket, text string) domain.PartialEntities {
	languageHint := ""
	primary, err := e.oracle.Extract(ctx, text, languageHint)
	if err != nil {
		e.logger.Warn("extraction oracle failed, proceeding on fallback",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		primary = domain.PartialEntities{}
	}
	primary = sanitize(primary)
	return primary.Merge(e.fallback.Extract(text))
}

// sanitize clears oracle fields that fail closed-vocabulary checks so the
// fallback value wins instead of an unvalidated guess.
func sanitize(entities domain.PartialEntities) domain.PartialEntities {
	if entities.Sentiment != nil && !domain.SentimentValid(domain.Sentiment(*entities.Sentiment)) {
		entities.Sentiment = nil
	}
	if entities.InventoryType != nil && !domain.InventoryTypeValid(domain.InventoryType(*entities.InventoryType)) {
		entities.InventoryType = nil
	}
	return entities
}

func (e *Engine) sentimentOf(entities domain.PartialEntities) domain.Sentiment {
	if entities.Sentiment != nil {
		if s := domain.Sentiment(*entities.Sentiment); domain.SentimentValid(s) {
			return s
		}
	}
	return domain.SentimentNeutral
}

func (e *Engine) inventoryOf(entities domain.PartialEntities) domain.InventoryType {
	if entities.InventoryType != nil {
		if inv := domain.InventoryType(*entities.InventoryType); domain.InventoryTypeValid(inv) {
			return inv
		}
	}
	return domain.InventoryUnspecified
}

// categoryOf applies the category decision tree. Problem indicators win
// over everything: a broken feed mentioned next to a cancel request is a
// bug report, not a cancellation.
func (e *Engine) categoryOf(entities domain.PartialEntities, text string) domain.Category {
	switch {
	case len(entities.ProblemIndicators) > 0:
		return domain.CategoryProblemBug
	case extractor.DetectCancellation(text):
		return domain.CategoryCancellation
	case extractor.DetectActivation(text):
		if extractor.DetectNewClient(text) {
			return domain.CategoryActivationNew
		}
		return domain.CategoryActivationExisting
	case hasAny(entities.ActionKeywords, "question", "how", "what", "why", "clarify", "confirm"):
		return domain.CategoryGeneralQuestion
	case hasAny(entities.ActionKeywords, "review", "analyze", "analyse", "audit", "report"):
		return domain.CategoryAnalysisReview
	default:
		return domain.CategoryOther
	}
}

// subCategoryOf resolves the feed direction and the candidate feed name.
// Import wins over export when both directions appear: providers feed data
// in, and a ticket naming one is an import ticket.
func (e *Engine) subCategoryOf(entities domain.PartialEntities, text string) (domain.SubCategory, string) {
	normText := refdata.Normalize(text)

	switch {
	case len(entities.ProvidersMentioned) > 0 || extractor.DetectImport(text):
		candidates := append(append([]string{}, entities.ProvidersMentioned...), entities.SyndicatorsMentioned...)
		return domain.SubCategoryImport, e.validatedFeedName(candidates)
	case len(entities.SyndicatorsMentioned) > 0 || extractor.DetectExport(text):
		return domain.SubCategoryExport, e.validatedFeedName(entities.SyndicatorsMentioned)
	case strings.Contains(normText, "facebook") || hasWord(normText, "fb"):
		return domain.SubCategoryFBSetup, ""
	case strings.Contains(normText, "google"):
		return domain.SubCategoryGoogleSetup, ""
	default:
		return domain.SubCategoryOther, e.validatedFeedName(entities.SyndicatorsMentioned)
	}
}

// validatedFeedName returns the first mentioned name that survives the
// allow-list, canonically spelled. Names off the allow-list are dropped,
// never replaced with a closest match.
func (e *Engine) validatedFeedName(mentioned []string) string {
	for _, name := range mentioned {
		if canonical := e.snapshot.CanonicalSyndicator(name); canonical != "" {
			return canonical
		}
	}
	return ""
}

// resolveDealer fills dealer_name, dealer_id, and rep. Multiple distinct
// dealer mentions force the Multiple format and a blank dealer ID.
func (e *Engine) resolveDealer(entities domain.PartialEntities, cl *domain.Classification) {
	dealers := distinctDealers(entities)
	switch len(dealers) {
	case 0:
		return
	case 1:
		cl.DealerName = dealers[0]
		info, err := e.snapshot.LookupDealer(dealers[0])
		if err != nil {
			return
		}
		cl.DealerName = info.DealerName
		cl.DealerID = info.DealerID
		cl.Rep = info.Rep
	default:
		cl.DealerName = domain.MultipleDealerPrefix + strings.Join(dealers, ", ")
		cl.DealerID = ""
	}
}

func distinctDealers(entities domain.PartialEntities) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		norm := refdata.Normalize(name)
		if norm == "" || seen[norm] {
			return
		}
		seen[norm] = true
		out = append(out, name)
	}
	if entities.DealerName != nil {
		add(*entities.DealerName)
	}
	for _, name := range entities.DealersMentioned {
		add(name)
	}
	return out
}

// resolveContact applies the sender-domain rule: the contact is the rep
// unless the sender's email domain differs from the internal domain, in
// which case the external sender is the contact.
func (e *Engine) resolveContact(ticket domain.Ticket, entities domain.PartialEntities, cl *domain.Classification) {
	internal := e.isInternalSender(ticket.RequesterEmail)

	if internal && ticket.RequesterName != "" {
		// An internal sender is the rep on this ticket.
		cl.Rep = ticket.RequesterName
	}

	cl.Contact = cl.Rep
	if !internal {
		switch {
		case entities.ContactName != nil && *entities.ContactName != "":
			cl.Contact = *entities.ContactName
		case ticket.RequesterName != "":
			cl.Contact = ticket.RequesterName
		}
	}
	if cl.Contact == "" {
		cl.Contact = ticket.RequesterName
	}
}

func (e *Engine) isInternalSender(email string) bool {
	if e.internalDomain == "" || email == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+e.internalDomain)
}

// hasWord reports whether w appears as a standalone token in normalized
// text, including at the start or end of the string.
func hasWord(text, w string) bool {
	for _, tok := range strings.Fields(text) {
		if strings.Trim(tok, ".,:;!?()'\"") == w {
			return true
		}
	}
	return false
}

func hasAny(keywords []string, wanted ...string) bool {
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		for _, w := range wanted {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}
