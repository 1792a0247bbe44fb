package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealerdesk/triage-service/internal/domain"
)

func TestDecideTier(t *testing.T) {
	urgent := domain.PartialEntities{UrgencyIndicators: []string{"urgent"}}
	questions := domain.PartialEntities{AdditionalQuestions: []string{"When will the Google feed be ready?"}}
	plain := domain.PartialEntities{}

	cases := []struct {
		name        string
		category    domain.Category
		subCategory domain.SubCategory
		sentiment   domain.Sentiment
		entities    domain.PartialEntities
		want        domain.Tier
	}{
		{
			name:        "import never automates",
			category:    domain.CategoryActivationExisting,
			subCategory: domain.SubCategoryImport,
			sentiment:   domain.SentimentNeutral,
			entities:    plain,
			want:        domain.TierHumanReview,
		},
		{
			name:        "urgent import escalates",
			category:    domain.CategoryActivationExisting,
			subCategory: domain.SubCategoryImport,
			sentiment:   domain.SentimentNeutral,
			entities:    urgent,
			want:        domain.TierEscalated,
		},
		{
			name:        "critical sentiment escalates",
			category:    domain.CategoryCancellation,
			subCategory: domain.SubCategoryExport,
			sentiment:   domain.SentimentCritical,
			entities:    plain,
			want:        domain.TierEscalated,
		},
		{
			name:        "problem stays with humans",
			category:    domain.CategoryProblemBug,
			subCategory: domain.SubCategoryExport,
			sentiment:   domain.SentimentNeutral,
			entities:    plain,
			want:        domain.TierHumanReview,
		},
		{
			name:        "extra questions block automation",
			category:    domain.CategoryActivationExisting,
			subCategory: domain.SubCategoryExport,
			sentiment:   domain.SentimentCalm,
			entities:    questions,
			want:        domain.TierHumanReview,
		},
		{
			name:        "new client onboarding needs review",
			category:    domain.CategoryActivationNew,
			subCategory: domain.SubCategoryExport,
			sentiment:   domain.SentimentNeutral,
			entities:    plain,
			want:        domain.TierHumanReview,
		},
		{
			name:        "existing activation export automates",
			category:    domain.CategoryActivationExisting,
			subCategory: domain.SubCategoryExport,
			sentiment:   domain.SentimentNeutral,
			entities:    plain,
			want:        domain.TierAutomatable,
		},
		{
			name:        "cancellation export automates",
			category:    domain.CategoryCancellation,
			subCategory: domain.SubCategoryExport,
			sentiment:   domain.SentimentCalm,
			entities:    plain,
			want:        domain.TierAutomatable,
		},
		{
			name:        "cancellation without direction needs review",
			category:    domain.CategoryCancellation,
			subCategory: domain.SubCategoryOther,
			sentiment:   domain.SentimentNeutral,
			entities:    plain,
			want:        domain.TierHumanReview,
		},
		{
			name:        "general question needs review",
			category:    domain.CategoryGeneralQuestion,
			subCategory: domain.SubCategoryOther,
			sentiment:   domain.SentimentNeutral,
			entities:    plain,
			want:        domain.TierHumanReview,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecideTier(tc.category, tc.subCategory, tc.sentiment, tc.entities)
			assert.Equal(t, tc.want, got)
		})
	}
}
