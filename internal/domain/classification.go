package domain

import (
	"strings"
	"time"
)

// Category enumerates the closed ticket category vocabulary.
type Category string

const (
	CategoryActivationNew      Category = "Product Activation - New"
	CategoryActivationExisting Category = "Product Activation - Existing"
	CategoryCancellation       Category = "Product Cancellation"
	CategoryProblemBug         Category = "Problem / Bug"
	CategoryGeneralQuestion    Category = "General Question"
	CategoryAnalysisReview     Category = "Analysis / Review"
	CategoryOther              Category = "Other"
)

// ValidCategories lists every accepted category value.
var ValidCategories = []Category{
	CategoryActivationNew,
	CategoryActivationExisting,
	CategoryCancellation,
	CategoryProblemBug,
	CategoryGeneralQuestion,
	CategoryAnalysisReview,
	CategoryOther,
}

// SubCategory enumerates the closed sub-category vocabulary.
type SubCategory string

const (
	SubCategoryExport      SubCategory = "Export"
	SubCategoryImport      SubCategory = "Import"
	SubCategoryFBSetup     SubCategory = "FB Setup"
	SubCategoryGoogleSetup SubCategory = "Google Setup"
	SubCategoryOther       SubCategory = "Other"
)

// ValidSubCategories lists every accepted sub-category value.
var ValidSubCategories = []SubCategory{
	SubCategoryExport,
	SubCategoryImport,
	SubCategoryFBSetup,
	SubCategoryGoogleSetup,
	SubCategoryOther,
}

// InventoryType enumerates inventory scopes a feed may carry.
type InventoryType string

const (
	InventoryNew         InventoryType = "New"
	InventoryUsed        InventoryType = "Used"
	InventoryDemo        InventoryType = "Demo"
	InventoryNewUsed     InventoryType = "New + Used"
	InventoryInTransit   InventoryType = "In-Transit"
	InventoryAsIs        InventoryType = "AS-IS"
	InventoryCPO         InventoryType = "CPO"
	InventoryUnspecified InventoryType = "Unspecified"
)

// ValidInventoryTypes lists every accepted inventory type value.
var ValidInventoryTypes = []InventoryType{
	InventoryNew,
	InventoryUsed,
	InventoryDemo,
	InventoryNewUsed,
	InventoryInTransit,
	InventoryAsIs,
	InventoryCPO,
	InventoryUnspecified,
}

// Sentiment enumerates the emotional tone scale.
type Sentiment string

const (
	SentimentCalm       Sentiment = "Calm"
	SentimentNeutral    Sentiment = "Neutral"
	SentimentConcerned  Sentiment = "Concerned"
	SentimentFrustrated Sentiment = "Frustrated"
	SentimentUrgent     Sentiment = "Urgent"
	SentimentCritical   Sentiment = "Critical"
)

// ValidSentiments lists every accepted sentiment value.
var ValidSentiments = []Sentiment{
	SentimentCalm,
	SentimentNeutral,
	SentimentConcerned,
	SentimentFrustrated,
	SentimentUrgent,
	SentimentCritical,
}

// Tier is the priority/automatability bucket. Tier 1 is auto-resolvable,
// Tier 2 requires human review, Tier 3 is urgent/escalated.
type Tier int

const (
	TierAutomatable Tier = 1
	TierHumanReview Tier = 2
	TierEscalated   Tier = 3
)

// MultipleDealerPrefix marks a dealer_name covering more than one rooftop.
// Classifications carrying it never carry a dealer ID.
const MultipleDealerPrefix = "Multiple: "

// Classification is the derived record produced exactly once per ticket.
// Every closed-vocabulary field holds either a validated value or is blank.
type Classification struct {
	TicketID             string
	Contact              string
	DealerName           string
	DealerID             string
	Rep                  string
	Category             Category
	SubCategory          SubCategory
	SyndicatorOrProvider string
	InventoryType        InventoryType
	Tier                 Tier
	Sentiment            Sentiment
	CreatedAt            time.Time
}

// MultiDealer reports whether the classification references several rooftops.
func (c Classification) MultiDealer() bool {
	return strings.HasPrefix(c.DealerName, MultipleDealerPrefix)
}

// CategoryValid reports whether v is a member of the category vocabulary.
func CategoryValid(v Category) bool {
	for _, c := range ValidCategories {
		if c == v {
			return true
		}
	}
	return false
}

// SubCategoryValid reports whether v is a member of the sub-category vocabulary.
func SubCategoryValid(v SubCategory) bool {
	for _, s := range ValidSubCategories {
		if s == v {
			return true
		}
	}
	return false
}

// InventoryTypeValid reports whether v is a member of the inventory vocabulary.
func InventoryTypeValid(v InventoryType) bool {
	for _, i := range ValidInventoryTypes {
		if i == v {
			return true
		}
	}
	return false
}

// SentimentValid reports whether v is a member of the sentiment vocabulary.
func SentimentValid(v Sentiment) bool {
	for _, s := range ValidSentiments {
		if s == v {
			return true
		}
	}
	return false
}
