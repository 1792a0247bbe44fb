package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Dealership_1", "dealership_1"},
		{"  Montréal   Auto  ", "montreal auto"},
		{"ÉLITE Québec", "elite quebec"},
		{"AutoTrader", "autotrader"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

func testSnapshot() *Snapshot {
	return NewSnapshot(
		[]string{"Kijiji", "AutoTrader", "Marketplace VA"},
		[]DealerInfo{
			{DealerName: "Dealership_1", DealerID: "D001", Rep: "Marc Tremblay"},
			{DealerName: "Dealership_2", DealerID: "D002", Rep: "Julie Gagnon"},
		},
		[]BillingInfo{
			{DealerID: "D001", OrderRequired: true, PackageType: "Premium"},
		},
	)
}

func TestCanonicalSyndicator(t *testing.T) {
	s := testSnapshot()

	assert.Equal(t, "Kijiji", s.CanonicalSyndicator("kijiji"))
	assert.Equal(t, "Kijiji", s.CanonicalSyndicator("  KIJIJI "))
	assert.Equal(t, "AutoTrader", s.CanonicalSyndicator("autotrader"))

	// Off the allow-list means blank, never a closest match.
	assert.Equal(t, "", s.CanonicalSyndicator("Kijijii"))
	assert.Equal(t, "", s.CanonicalSyndicator("AutoTraders"))
	assert.False(t, s.IsValidSyndicator("CarGurus"))
}

func TestLookupDealerExactOnly(t *testing.T) {
	s := testSnapshot()

	info, err := s.LookupDealer("dealership_1")
	require.NoError(t, err)
	assert.Equal(t, "D001", info.DealerID)
	assert.Equal(t, "Marc Tremblay", info.Rep)

	_, err = s.LookupDealer("Dealership_11")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.LookupDealer("Dealership")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBillingRequirement(t *testing.T) {
	s := testSnapshot()

	b, err := s.BillingRequirement("D001")
	require.NoError(t, err)
	assert.True(t, b.OrderRequired)
	assert.Equal(t, "Premium", b.PackageType)

	_, err = s.BillingRequirement("D002")
	assert.ErrorIs(t, err, ErrNotFound)
}
