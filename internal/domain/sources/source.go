package sources

import (
	"context"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
)

// Source defines the interface for one external fee schedule data source.
//
// Fetch distinguishes three outcomes: a record with data, (nil, nil) when the
// source answered but had nothing usable for the code, and a non-nil error
// for transport or decode failures. The resolution chain advances past the
// last two; keeping them separate lets callers tell "no data" apart from
// "source broken".
type Source interface {
	// Name identifies the source in logs and traces
	Name() string

	// Fetch looks up a normalized HCPCS/CPT code
	Fetch(ctx context.Context, code string) (*entities.CanonicalRecord, error)
}
