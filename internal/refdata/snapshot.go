package refdata

import "errors"

// ErrNotFound is returned by lookups that have no matching row.
var ErrNotFound = errors.New("refdata: not found")

// DealerInfo is the mapping row for one rooftop.
type DealerInfo struct {
	DealerName string
	DealerID   string
	Rep        string
}

// BillingInfo describes billing requirements for one dealer.
type BillingInfo struct {
	DealerID      string
	OrderRequired bool
	PackageType   string
	MonthlyFee    string
	Notes         string
}

// Snapshot is an immutable view of the reference lookup tables, constructed
// once at startup and passed into the engines. Safe for concurrent reads;
// changes require constructing a new snapshot.
type Snapshot struct {
	syndicators    []string
	syndicatorSet  map[string]string // normalized -> canonical
	dealersByNorm  map[string]DealerInfo
	dealerNames    []string
	billingByID    map[string]BillingInfo
}

// NewSnapshot builds a snapshot from in-memory tables. Names are indexed
// under their normalized form.
func NewSnapshot(syndicators []string, dealers []DealerInfo, billing []BillingInfo) *Snapshot {
	s := &Snapshot{
		syndicators:   append([]string(nil), syndicators...),
		syndicatorSet: make(map[string]string, len(syndicators)),
		dealersByNorm: make(map[string]DealerInfo, len(dealers)),
		dealerNames:   make([]string, 0, len(dealers)),
		billingByID:   make(map[string]BillingInfo, len(billing)),
	}
	for _, name := range syndicators {
		s.syndicatorSet[Normalize(name)] = name
	}
	for _, d := range dealers {
		s.dealersByNorm[Normalize(d.DealerName)] = d
		s.dealerNames = append(s.dealerNames, d.DealerName)
	}
	for _, b := range billing {
		s.billingByID[b.DealerID] = b
	}
	return s
}

// Syndicators returns the allow-list in load order.
func (s *Snapshot) Syndicators() []string {
	return s.syndicators
}

// DealerNames returns every known rooftop name, for fallback extraction.
func (s *Snapshot) DealerNames() []string {
	return s.dealerNames
}

// IsValidSyndicator reports whether name matches the allow-list after
// normalization.
func (s *Snapshot) IsValidSyndicator(name string) bool {
	_, ok := s.syndicatorSet[Normalize(name)]
	return ok
}

// CanonicalSyndicator resolves name to its canonical allow-list spelling.
// An empty string means the name is not on the allow-list; callers must
// blank the field rather than substitute a close match.
func (s *Snapshot) CanonicalSyndicator(name string) string {
	return s.syndicatorSet[Normalize(name)]
}

// LookupDealer resolves a rooftop name to its mapping row. Only exact
// normalized matches resolve; anything else is ErrNotFound so dealer IDs are
// never guessed.
func (s *Snapshot) LookupDealer(name string) (DealerInfo, error) {
	if d, ok := s.dealersByNorm[Normalize(name)]; ok {
		return d, nil
	}
	return DealerInfo{}, ErrNotFound
}

// BillingRequirement returns the billing row for a dealer ID. ErrNotFound
// routes automation onto its degraded path; it never aborts a run.
func (s *Snapshot) BillingRequirement(dealerID string) (BillingInfo, error) {
	if b, ok := s.billingByID[dealerID]; ok {
		return b, nil
	}
	return BillingInfo{}, ErrNotFound
}
