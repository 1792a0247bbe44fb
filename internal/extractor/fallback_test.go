package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/refdata"
)

func testFallback() *Fallback {
	snapshot := refdata.NewSnapshot(
		[]string{"Kijiji", "AutoTrader", "CarGurus"},
		[]refdata.DealerInfo{
			{DealerName: "Dealership_1", DealerID: "D001", Rep: "Marc Tremblay"},
			{DealerName: "Dealership_2", DealerID: "D002", Rep: "Julie Gagnon"},
		},
		nil,
	)
	return NewFallback(snapshot)
}

func TestExtractDealerAndSyndicator(t *testing.T) {
	f := testFallback()

	entities := f.Extract("Please activate the Kijiji export for Dealership_1, used inventory only.")

	require.NotNil(t, entities.DealerName)
	assert.Equal(t, "Dealership_1", *entities.DealerName)
	assert.Equal(t, []string{"Kijiji"}, entities.SyndicatorsMentioned)
	require.NotNil(t, entities.InventoryType)
	assert.Equal(t, "Used", *entities.InventoryType)
	assert.Nil(t, entities.MultipleDealers)
}

func TestExtractMultipleDealers(t *testing.T) {
	f := testFallback()

	entities := f.Extract("Enable AutoTrader for Dealership_1 and Dealership_2 please.")

	require.NotNil(t, entities.MultipleDealers)
	assert.True(t, *entities.MultipleDealers)
	assert.ElementsMatch(t, []string{"Dealership_1", "Dealership_2"}, entities.DealersMentioned)
}

func TestFrenchKeywordsDetected(t *testing.T) {
	assert.True(t, DetectCancellation("Bonjour, veuillez annuler le feed Kijiji svp."))
	assert.True(t, DetectCancellation("On doit désactiver l'export."))
	assert.True(t, DetectActivation("Pouvez-vous activer le flux AutoTrader?"))

	f := testFallback()
	entities := f.Extract("Bonjour, merci de désactiver le feed.")
	require.NotNil(t, entities.Language)
	assert.Equal(t, "fr", *entities.Language)
}

func TestFallbackSentimentScale(t *testing.T) {
	f := testFallback()

	cases := []struct {
		text string
		want domain.Sentiment
	}{
		{"This is unacceptable, I am contacting my lawyer.", domain.SentimentCritical},
		{"We need this fixed urgent, asap!", domain.SentimentUrgent},
		{"Still not working, very frustrating.", domain.SentimentFrustrated},
		{"I am a bit concerned about the data.", domain.SentimentConcerned},
		{"Thanks for the quick help last time.", domain.SentimentCalm},
		{"Please set up the feed.", domain.SentimentNeutral},
	}
	for _, tc := range cases {
		entities := f.Extract(tc.text)
		require.NotNil(t, entities.Sentiment, tc.text)
		assert.Equal(t, string(tc.want), *entities.Sentiment, tc.text)
	}
}

func TestExtraQuestionsNeedMarkers(t *testing.T) {
	f := testFallback()

	entities := f.Extract("Please enable the export. Also, when will the Google feed be ready? Can you confirm the pricing?")
	assert.Len(t, entities.AdditionalQuestions, 2)

	entities = f.Extract("Can you enable the Kijiji export for Dealership_1?")
	assert.Empty(t, entities.AdditionalQuestions)
}

func TestDetectDirection(t *testing.T) {
	assert.True(t, DetectExport("please syndicate our inventory"))
	assert.True(t, DetectImport("we need the data in from PBS"))
	assert.False(t, DetectImport("cancel the Kijiji export"))
}
