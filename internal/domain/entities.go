package domain

// PartialEntities is the sparse, untrusted output of the extraction oracle.
// Any field may be absent; pointer fields distinguish "not extracted" from
// "extracted as empty". Consumers must treat missing or malformed values as
// absent and fall back to deterministic extraction.
type PartialEntities struct {
	DealerName           *string  `json:"dealer_name,omitempty"`
	DealersMentioned     []string `json:"dealers_mentioned,omitempty"`
	SyndicatorsMentioned []string `json:"syndicators_mentioned,omitempty"`
	ProvidersMentioned   []string `json:"providers_mentioned,omitempty"`
	InventoryType        *string  `json:"inventory_type,omitempty"`
	ActionKeywords       []string `json:"action_keywords,omitempty"`
	ProblemIndicators    []string `json:"problem_indicators,omitempty"`
	UrgencyIndicators    []string `json:"urgency_indicators,omitempty"`
	MultipleDealers      *bool    `json:"multiple_dealers,omitempty"`
	Sentiment            *string  `json:"sentiment,omitempty"`
	AdditionalQuestions  []string `json:"additional_questions,omitempty"`
	SpecialRequests      []string `json:"special_requests,omitempty"`
	ContactName          *string  `json:"contact_name,omitempty"`
	Language             *string  `json:"language,omitempty"`
}

// HasComplexity reports whether the oracle flagged additional questions or
// special/non-standard requests, both of which exclude automation.
func (p PartialEntities) HasComplexity() bool {
	return len(p.AdditionalQuestions) > 0 || len(p.SpecialRequests) > 0
}

// HasUrgency reports whether any urgency indicator was extracted.
func (p PartialEntities) HasUrgency() bool {
	return len(p.UrgencyIndicators) > 0
}

// Merge fills absent fields of p from other without overwriting values the
// oracle already supplied. It returns the merged copy.
func (p PartialEntities) Merge(other PartialEntities) PartialEntities {
	if p.DealerName == nil || *p.DealerName == "" {
		p.DealerName = other.DealerName
	}
	if len(p.DealersMentioned) == 0 {
		p.DealersMentioned = other.DealersMentioned
	}
	if len(p.SyndicatorsMentioned) == 0 {
		p.SyndicatorsMentioned = other.SyndicatorsMentioned
	}
	if len(p.ProvidersMentioned) == 0 {
		p.ProvidersMentioned = other.ProvidersMentioned
	}
	if p.InventoryType == nil || *p.InventoryType == "" {
		p.InventoryType = other.InventoryType
	}
	if len(p.ActionKeywords) == 0 {
		p.ActionKeywords = other.ActionKeywords
	}
	if len(p.ProblemIndicators) == 0 {
		p.ProblemIndicators = other.ProblemIndicators
	}
	if len(p.UrgencyIndicators) == 0 {
		p.UrgencyIndicators = other.UrgencyIndicators
	}
	if p.MultipleDealers == nil {
		p.MultipleDealers = other.MultipleDealers
	}
	if p.Sentiment == nil || *p.Sentiment == "" {
		p.Sentiment = other.Sentiment
	}
	if len(p.AdditionalQuestions) == 0 {
		p.AdditionalQuestions = other.AdditionalQuestions
	}
	if len(p.SpecialRequests) == 0 {
		p.SpecialRequests = other.SpecialRequests
	}
	if p.ContactName == nil || *p.ContactName == "" {
		p.ContactName = other.ContactName
	}
	if p.Language == nil || *p.Language == "" {
		p.Language = other.Language
	}
	return p
}
