package classifier

import "github.com/dealerdesk/triage-service/internal/domain"

// urgencySignals reports whether the ticket carries escalation pressure:
// explicit urgency keywords, threatening language, or an extracted sentiment
// at the top of the scale.
func urgencySignals(entities domain.PartialEntities, sentiment domain.Sentiment) bool {
	if entities.HasUrgency() {
		return true
	}
	return sentiment == domain.SentimentUrgent || sentiment == domain.SentimentCritical
}

// DecideTier applies the ordered tier rules. The order is business policy,
// not style: import blocking is evaluated before any complexity analysis so
// an import request can never reach Tier 1, and urgency still escalates a
// blocked import from Tier 2 to Tier 3.
func DecideTier(category domain.Category, subCategory domain.SubCategory, sentiment domain.Sentiment, entities domain.PartialEntities) domain.Tier {
	urgent := urgencySignals(entities, sentiment)

	if subCategory == domain.SubCategoryImport {
		if urgent {
			return domain.TierEscalated
		}
		return domain.TierHumanReview
	}
	if urgent {
		return domain.TierEscalated
	}
	if category == domain.CategoryProblemBug {
		return domain.TierHumanReview
	}
	if entities.HasComplexity() {
		return domain.TierHumanReview
	}
	if category == domain.CategoryActivationNew {
		return domain.TierHumanReview
	}
	if (category == domain.CategoryActivationExisting || category == domain.CategoryCancellation) &&
		subCategory == domain.SubCategoryExport {
		return domain.TierAutomatable
	}

	// Unknown shapes never default to automation.
	return domain.TierHumanReview
}
