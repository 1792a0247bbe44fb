package extractor

import (
	"strings"

	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/refdata"
)

// Keyword tables for deterministic extraction. English and French are both
// matched; lookups are substring checks over the normalized text.
var (
	cancelKeywords = []string{
		"cancel", "deactivate", "disable", "terminate", "remove the", "stop the",
		"annuler", "desactiver", "desactivation", "resilier",
	}
	activateKeywords = []string{
		"activate", "enable", "set up", "setup", "configure", "turn on",
		"activer", "configurer",
	}
	newClientKeywords = []string{
		"new client", "new customer", "onboard", "first feed", "nouveau client",
	}
	problemKeywords = []string{
		"not working", "not updating", "broken", "bug", "error", "malfunction",
		"wrong data", "missing data", "ne fonctionne pas", "erreur", "probleme",
	}
	urgencyKeywords = []string{
		"urgent", "asap", "critical", "emergency", "immediately", "right away",
		"threatening", "escalate", "urgence", "immediatement", "critique",
	}
	angerKeywords = []string{
		"unacceptable", "furious", "angry", "fed up", "lawyer", "legal action",
		"threatening to cancel", "inacceptable", "furieux",
	}
	frustrationKeywords = []string{
		"frustrated", "frustrating", "disappointed", "again and again",
		"still not", "frustre", "decu",
	}
	concernKeywords = []string{
		"concerned", "worried", "concern", "inquiet",
	}
	importKeywords = []string{"import", "data in", "feed in"}
	exportKeywords = []string{"export", "syndicate", "feed out"}

	questionMarkers = []string{
		"also", "can you confirm", "when will", "when is", "why", "how long",
		"do we need", "what is", "aussi", "pouvez-vous confirmer", "quand",
	}
	specialRequestKeywords = []string{
		"rush", "custom", "specific timing", "special", "non-standard",
		"exception", "personnalise",
	}
)

// Fallback is the deterministic keyword extractor. It runs after the oracle
// and fills only the fields the oracle left empty or invalid; merging is the
// caller's job (domain.PartialEntities.Merge).
type Fallback struct {
	snapshot *refdata.Snapshot
}

// NewFallback builds a fallback extractor over the reference snapshot.
func NewFallback(snapshot *refdata.Snapshot) *Fallback {
	return &Fallback{snapshot: snapshot}
}

// Extract derives entities from the raw text alone. It never fails.
func (f *Fallback) Extract(text string) domain.PartialEntities {
	normText := refdata.Normalize(text)

	entities := domain.PartialEntities{
		ActionKeywords:      matchAll(normText, append(append([]string{}, cancelKeywords...), activateKeywords...)),
		ProblemIndicators:   matchAll(normText, problemKeywords),
		UrgencyIndicators:   matchAll(normText, append(append([]string{}, urgencyKeywords...), angerKeywords...)),
		AdditionalQuestions: extraQuestions(text),
		SpecialRequests:     matchAll(normText, specialRequestKeywords),
	}

	f.extractDealers(normText, &entities)
	f.extractSyndicators(normText, &entities)

	if inv := inventoryType(normText); inv != "" {
		v := string(inv)
		entities.InventoryType = &v
	}
	sentiment := string(fallbackSentiment(normText))
	entities.Sentiment = &sentiment
	lang := detectLanguage(normText)
	entities.Language = &lang

	return entities
}

func (f *Fallback) extractDealers(normText string, entities *domain.PartialEntities) {
	var found []string
	for _, name := range f.snapshot.DealerNames() {
		if strings.Contains(normText, refdata.Normalize(name)) {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return
	}
	entities.DealersMentioned = found
	name := found[0]
	entities.DealerName = &name
	if len(found) > 1 {
		multi := true
		entities.MultipleDealers = &multi
	}
}

func (f *Fallback) extractSyndicators(normText string, entities *domain.PartialEntities) {
	for _, name := range f.snapshot.Syndicators() {
		if strings.Contains(normText, refdata.Normalize(name)) {
			entities.SyndicatorsMentioned = append(entities.SyndicatorsMentioned, name)
		}
	}
}

// DetectCancellation reports whether the text carries a cancellation request
// in either language.
func DetectCancellation(text string) bool {
	return len(matchAll(refdata.Normalize(text), cancelKeywords)) > 0
}

// DetectActivation reports whether the text carries an activation request.
func DetectActivation(text string) bool {
	return len(matchAll(refdata.Normalize(text), activateKeywords)) > 0
}

// DetectNewClient reports whether the text reads as a new-client onboarding.
func DetectNewClient(text string) bool {
	return len(matchAll(refdata.Normalize(text), newClientKeywords)) > 0
}

// DetectProblem reports whether the text mentions a technical issue, as
// opposed to a routine cancel/activate request.
func DetectProblem(text string) bool {
	return len(matchAll(refdata.Normalize(text), problemKeywords)) > 0
}

// DetectImport and DetectExport resolve feed direction from the text.
func DetectImport(text string) bool {
	return len(matchAll(refdata.Normalize(text), importKeywords)) > 0
}

// DetectExport reports whether the text references an export/syndication feed.
func DetectExport(text string) bool {
	return len(matchAll(refdata.Normalize(text), exportKeywords)) > 0
}

func matchAll(normText string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(normText, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// extraQuestions finds interrogative sentences that go beyond the primary
// request ("Can you also...?", "When will...?"). The oracle does this with
// more nuance; the fallback keys off question marks plus marker phrases.
func extraQuestions(text string) []string {
	var questions []string
	for _, part := range strings.Split(text, "?") {
		sentence := lastSentenceFragment(part)
		if sentence == "" {
			continue
		}
		norm := refdata.Normalize(sentence)
		for _, marker := range questionMarkers {
			if strings.Contains(norm, marker) {
				questions = append(questions, strings.TrimSpace(sentence)+"?")
				break
			}
		}
	}
	return questions
}

func lastSentenceFragment(s string) string {
	cut := strings.LastIndexAny(s, ".!\n")
	if cut >= 0 {
		s = s[cut+1:]
	}
	return strings.TrimSpace(s)
}

func inventoryType(normText string) domain.InventoryType {
	hasNew := strings.Contains(normText, "new ") || strings.HasSuffix(normText, "new")
	hasUsed := strings.Contains(normText, "used")
	switch {
	case hasNew && hasUsed:
		return domain.InventoryNewUsed
	case strings.Contains(normText, "in-transit") || strings.Contains(normText, "in transit"):
		return domain.InventoryInTransit
	case strings.Contains(normText, "as-is") || strings.Contains(normText, "as is"):
		return domain.InventoryAsIs
	case strings.Contains(normText, "cpo") || strings.Contains(normText, "certified pre-owned"):
		return domain.InventoryCPO
	case strings.Contains(normText, "demo"):
		return domain.InventoryDemo
	case hasNew:
		return domain.InventoryNew
	case hasUsed:
		return domain.InventoryUsed
	default:
		return ""
	}
}

func fallbackSentiment(normText string) domain.Sentiment {
	switch {
	case len(matchAll(normText, angerKeywords)) > 0:
		return domain.SentimentCritical
	case len(matchAll(normText, urgencyKeywords)) > 0:
		return domain.SentimentUrgent
	case len(matchAll(normText, frustrationKeywords)) > 0:
		return domain.SentimentFrustrated
	case len(matchAll(normText, concernKeywords)) > 0:
		return domain.SentimentConcerned
	case strings.Contains(normText, "thank") || strings.Contains(normText, "merci"):
		return domain.SentimentCalm
	default:
		return domain.SentimentNeutral
	}
}

func detectLanguage(normText string) string {
	frenchMarkers := []string{"bonjour", "merci", "pouvez-vous", "concessionnaire", "svp", "veuillez"}
	for _, marker := range frenchMarkers {
		if strings.Contains(normText, marker) {
			return "fr"
		}
	}
	return "en"
}
