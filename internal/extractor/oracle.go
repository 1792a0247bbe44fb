package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// ErrMalformedOutput marks oracle output that could not be decoded. Callers
// treat it the same as an empty extraction.
var ErrMalformedOutput = errors.New("extractor: malformed oracle output")

// Oracle is the entity-extraction collaborator. Output is best-effort:
// sparse, occasionally incomplete or malformed. It is never trusted
// directly; the classification engine validates every field.
type Oracle interface {
	Extract(ctx context.Context, text string, languageHint string) (domain.PartialEntities, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, text string, languageHint string) (domain.PartialEntities, error)

// Extract implements Oracle.
func (f OracleFunc) Extract(ctx context.Context, text string, languageHint string) (domain.PartialEntities, error) {
	return f(ctx, text, languageHint)
}

// NoopOracle always returns an empty extraction, pushing the whole pipeline
// onto the fallback path. Used when no oracle is configured.
type NoopOracle struct{}

// Extract implements Oracle.
func (NoopOracle) Extract(context.Context, string, string) (domain.PartialEntities, error) {
	return domain.PartialEntities{}, nil
}

// DecodeOracleOutput parses a raw oracle response into entities. Oracles
// wrap their JSON in prose or markdown fences often enough that the decoder
// scans for the outermost object instead of requiring clean JSON.
func DecodeOracleOutput(raw string) (domain.PartialEntities, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return domain.PartialEntities{}, ErrMalformedOutput
	}

	var entities domain.PartialEntities
	if err := json.Unmarshal([]byte(raw[start:end+1]), &entities); err != nil {
		return domain.PartialEntities{}, ErrMalformedOutput
	}
	return entities, nil
}
