package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOracleOutputCleanJSON(t *testing.T) {
	raw := `{"dealer_name":"Dealership_1","syndicators_mentioned":["Kijiji"],"sentiment":"Calm"}`

	entities, err := DecodeOracleOutput(raw)
	require.NoError(t, err)
	require.NotNil(t, entities.DealerName)
	assert.Equal(t, "Dealership_1", *entities.DealerName)
	assert.Equal(t, []string{"Kijiji"}, entities.SyndicatorsMentioned)
}

func TestDecodeOracleOutputFencedJSON(t *testing.T) {
	raw := "Here is the extraction:\n```json\n{\"language\":\"fr\",\"multiple_dealers\":true}\n```\nLet me know if you need more."

	entities, err := DecodeOracleOutput(raw)
	require.NoError(t, err)
	require.NotNil(t, entities.Language)
	assert.Equal(t, "fr", *entities.Language)
	require.NotNil(t, entities.MultipleDealers)
	assert.True(t, *entities.MultipleDealers)
}

func TestDecodeOracleOutputMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"no json here",
		"{\"dealer_name\": unterminated",
		"}{",
	} {
		_, err := DecodeOracleOutput(raw)
		assert.ErrorIs(t, err, ErrMalformedOutput, "raw=%q", raw)
	}
}
