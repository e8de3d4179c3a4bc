package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/sources"
	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Medicarecoveragechecker/pkg/errors"
)

// NormalizeCode trims surrounding whitespace and uppercases a procedure code.
// A code that is empty after trimming is a validation error.
func NormalizeCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", apperrors.NewValidationError("please provide a valid HCPCS or CPT code")
	}
	return normalized, nil
}

// LookupService resolves procedure codes against a fixed-priority chain of
// data sources and synthesizes the reimbursement record from the first source
// that yields data.
type LookupService struct {
	sources []sources.Source
	metrics *observability.Metrics
}

// NewLookupService creates a lookup service over the given sources, tried in
// argument order.
func NewLookupService(srcs ...sources.Source) *LookupService {
	return &LookupService{sources: srcs}
}

// SetMetrics wires lookup metrics after construction
func (s *LookupService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Lookup normalizes the code and walks the source chain until one source
// yields data. Source failures are never fatal: each one is logged and the
// chain moves on, so a degraded source only costs its attempt. The chain is
// exhausted when every source returned no data, which surfaces as a not
// found error. Only cancellation of the caller's context aborts the walk.
func (s *LookupService) Lookup(ctx context.Context, code, locality string) (*entities.ReimbursementInfo, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx).With().
		Str("lookup_id", uuid.New().String()).
		Str("code", normalized).
		Logger()

	started := time.Now()

	for _, source := range s.sources {
		if err := ctx.Err(); err != nil {
			observability.RecordLookupMetric(ctx, s.metrics, "cancelled", time.Since(started))
			return nil, apperrors.NewInternalError("lookup cancelled", err)
		}

		attemptCtx, span := observability.StartSpan(ctx, "lookup.source."+source.Name())
		observability.SetSpanAttributes(span, attribute.String("lookup.code", normalized))

		record, err := source.Fetch(attemptCtx, normalized)
		if err != nil {
			observability.RecordError(span, err)
			span.End()
			logger.Warn().Err(err).Str("source", source.Name()).Msg("source failed, trying next")
			observability.RecordSourceMiss(ctx, s.metrics, source.Name())
			continue
		}
		span.End()

		if !record.HasData() {
			logger.Debug().Str("source", source.Name()).Msg("source returned no data")
			observability.RecordSourceMiss(ctx, s.metrics, source.Name())
			continue
		}

		logger.Info().Str("source", source.Name()).Msg("code resolved")
		observability.RecordSourceHit(ctx, s.metrics, source.Name())
		observability.RecordLookupMetric(ctx, s.metrics, "hit", time.Since(started))
		return entities.NewReimbursementInfo(record, locality), nil
	}

	logger.Info().Msg("code not found in any data source")
	observability.RecordLookupMetric(ctx, s.metrics, "not_found", time.Since(started))
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("code '%s' not found in cms data sources", normalized))
}
