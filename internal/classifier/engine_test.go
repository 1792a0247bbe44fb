package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/extractor"
	"github.com/dealerdesk/triage-service/internal/refdata"
)

const testInternalDomain = "dealerdesk.io"

func testSnapshot() *refdata.Snapshot {
	return refdata.NewSnapshot(
		[]string{"Kijiji", "AutoTrader", "CarGurus", "PBS"},
		[]refdata.DealerInfo{
			{DealerName: "Dealership_1", DealerID: "D001", Rep: "Marc Tremblay"},
			{DealerName: "Dealership_2", DealerID: "D002", Rep: "Julie Gagnon"},
		},
		[]refdata.BillingInfo{
			{DealerID: "D001", OrderRequired: true, PackageType: "Premium"},
			{DealerID: "D002", OrderRequired: false, PackageType: "Standard"},
		},
	)
}

func testEngine(oracle extractor.Oracle) *Engine {
	return NewEngine(oracle, testSnapshot(), testInternalDomain, zap.NewNop())
}

func externalTicket(id, subject, description string) domain.Ticket {
	return domain.Ticket{
		ID:             id,
		Subject:        subject,
		Description:    description,
		RequesterName:  "Pierre Lavoie",
		RequesterEmail: "pierre@kijiji.ca",
	}
}

func TestClassifyActivationExport(t *testing.T) {
	e := testEngine(nil)

	cl := e.Classify(context.Background(), externalTicket("TK-1",
		"Kijiji feed for Dealership_2",
		"Please activate the Kijiji export for Dealership_2. Used inventory only."))

	assert.Equal(t, domain.CategoryActivationExisting, cl.Category)
	assert.Equal(t, domain.SubCategoryExport, cl.SubCategory)
	assert.Equal(t, "Kijiji", cl.SyndicatorOrProvider)
	assert.Equal(t, "Dealership_2", cl.DealerName)
	assert.Equal(t, "D002", cl.DealerID)
	assert.Equal(t, "Julie Gagnon", cl.Rep)
	assert.Equal(t, domain.InventoryUsed, cl.InventoryType)
	assert.Equal(t, domain.TierAutomatable, cl.Tier)
	assert.Equal(t, "Pierre Lavoie", cl.Contact)
}

func TestClassifyProblemWinsOverCancellation(t *testing.T) {
	e := testEngine(nil)

	cl := e.Classify(context.Background(), externalTicket("TK-2",
		"Feed issue",
		"The Kijiji export is not working, please cancel it until fixed."))

	assert.Equal(t, domain.CategoryProblemBug, cl.Category)
	assert.Equal(t, domain.SubCategoryExport, cl.SubCategory)
	assert.Equal(t, domain.TierHumanReview, cl.Tier)
}

func TestClassifyUrgentCancellationEscalates(t *testing.T) {
	e := testEngine(nil)

	cl := e.Classify(context.Background(), externalTicket("TK-3",
		"URGENT",
		"Cancel the Kijiji export immediately, this is urgent."))

	assert.Equal(t, domain.CategoryCancellation, cl.Category)
	assert.Equal(t, domain.SentimentUrgent, cl.Sentiment)
	assert.Equal(t, domain.TierEscalated, cl.Tier)
}

func TestClassifyImportNeverAutomates(t *testing.T) {
	e := testEngine(nil)

	cl := e.Classify(context.Background(), externalTicket("TK-4",
		"PBS setup",
		"Please configure the PBS import for Dealership_1."))

	assert.Equal(t, domain.SubCategoryImport, cl.SubCategory)
	assert.Equal(t, "PBS", cl.SyndicatorOrProvider)
	assert.Equal(t, domain.TierHumanReview, cl.Tier)
}

func TestClassifyMultipleDealers(t *testing.T) {
	e := testEngine(nil)

	cl := e.Classify(context.Background(), externalTicket("TK-5",
		"AutoTrader feeds",
		"Enable AutoTrader for Dealership_1 and Dealership_2."))

	assert.Equal(t, "Multiple: Dealership_1, Dealership_2", cl.DealerName)
	assert.Empty(t, cl.DealerID)
	assert.True(t, cl.MultiDealer())
}

func TestClassifyInternalSenderBecomesRep(t *testing.T) {
	e := testEngine(nil)

	ticket := domain.Ticket{
		ID:             "TK-6",
		Subject:        "Feed request",
		Description:    "Please enable the CarGurus export for Dealership_1.",
		RequesterName:  "Sophie Bergeron",
		RequesterEmail: "sophie.bergeron@dealerdesk.io",
	}
	cl := e.Classify(context.Background(), ticket)

	assert.Equal(t, "Sophie Bergeron", cl.Rep)
	assert.Equal(t, "Sophie Bergeron", cl.Contact)
}

func TestClassifyBlanksUnknownFeedName(t *testing.T) {
	oracle := extractor.OracleFunc(func(context.Context, string, string) (domain.PartialEntities, error) {
		sentiment := "VeryAngry"
		return domain.PartialEntities{
			SyndicatorsMentioned: []string{"Kijijii"},
			Sentiment:            &sentiment,
		}, nil
	})
	e := testEngine(oracle)

	cl := e.Classify(context.Background(), externalTicket("TK-7",
		"Export request",
		"Please enable the export for Dealership_1. Thanks!"))

	// Off-list name is dropped, never corrected to the closest match.
	assert.Empty(t, cl.SyndicatorOrProvider)
	assert.Equal(t, domain.SubCategoryExport, cl.SubCategory)
	// Invalid oracle sentiment falls back to the keyword scale.
	assert.Equal(t, domain.SentimentCalm, cl.Sentiment)
}

func TestClassifySurvivesOracleFailure(t *testing.T) {
	oracle := extractor.OracleFunc(func(context.Context, string, string) (domain.PartialEntities, error) {
		return domain.PartialEntities{}, extractor.ErrMalformedOutput
	})
	e := testEngine(oracle)

	cl := e.Classify(context.Background(), externalTicket("TK-8",
		"Cancel feed",
		"Please cancel the Kijiji export for Dealership_1."))

	assert.Equal(t, domain.CategoryCancellation, cl.Category)
	assert.Equal(t, "Kijiji", cl.SyndicatorOrProvider)
	assert.Equal(t, "D001", cl.DealerID)
}

func TestCombineText(t *testing.T) {
	ticket := domain.Ticket{
		ID:          "TK-9",
		Subject:     "Feed down",
		Description: "The feed stopped updating.",
		Threads: []domain.Thread{
			{AuthorName: "Marc Tremblay", Body: "Looking into it."},
			{Body: "   "},
			{Body: "Any update?"},
		},
	}

	text := CombineText(ticket)

	require.Contains(t, text, "Subject: Feed down")
	assert.Contains(t, text, "From Marc Tremblay:\nLooking into it.")
	assert.Contains(t, text, "Any update?")
	assert.NotContains(t, text, "From :")
}

func TestSuggestResponseTone(t *testing.T) {
	calm := SuggestResponse(domain.Classification{
		Contact:   "Julie",
		Category:  domain.CategoryGeneralQuestion,
		Sentiment: domain.SentimentCalm,
	})
	assert.Contains(t, calm, "Hi Julie,")
	assert.NotContains(t, calm, "I understand how frustrating")

	heated := SuggestResponse(domain.Classification{
		Contact:    "Marc",
		DealerName: "Dealership_1",
		Category:   domain.CategoryProblemBug,
		Sentiment:  domain.SentimentFrustrated,
		Tier:       domain.TierHumanReview,
	})
	assert.Contains(t, heated, "I understand how frustrating")
	assert.Contains(t, heated, "Dealership_1")
}

func TestClassifyFBSetupWordBoundary(t *testing.T) {
	e := testEngine(nil)

	// Bare "FB" token at the start of the text, no "facebook" spelling.
	cl := e.Classify(context.Background(), externalTicket("TK-11",
		"FB setup",
		"FB needs to be configured for Dealership_1."))
	assert.Equal(t, domain.SubCategoryFBSetup, cl.SubCategory)

	// And at the end of a sentence.
	cl = e.Classify(context.Background(), externalTicket("TK-12",
		"Marketplace listings",
		"Can you get the dealership listed on FB?"))
	assert.Equal(t, domain.SubCategoryFBSetup, cl.SubCategory)
}
