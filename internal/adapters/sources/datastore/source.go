package datastore

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/clients/cms"
)

const (
	defaultAPIBase = "https://data.cms.gov"
	sqlPath        = "/api/1/datastore/sql"

	feeScheduleTable = "physician_fee_schedule"
	codeColumn       = "hcpcs_cd"
)

var sqlDialect = goqu.Dialect("default")

// Source resolves codes through the CMS datastore SQL endpoint: a single
// query against the fee schedule table, shipped as text in a JSON payload.
type Source struct {
	client  *cms.Client
	apiBase string
}

// New creates a datastore SQL source
func New(client *cms.Client) *Source {
	return NewWithOptions(client, defaultAPIBase)
}

// NewWithOptions allows overriding the API base URL (used for tests)
func NewWithOptions(client *cms.Client, apiBase string) *Source {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Source{
		client:  client,
		apiBase: apiBase,
	}
}

// Name identifies the source in logs and traces
func (s *Source) Name() string {
	return "datastore_sql"
}

// Fetch queries the fee schedule table for the code and adapts the first row
func (s *Source) Fetch(ctx context.Context, code string) (*entities.CanonicalRecord, error) {
	query, err := buildQuery(code)
	if err != nil {
		return nil, fmt.Errorf("failed to build datastore query: %w", err)
	}

	var rows []map[string]interface{}
	payload := sqlRequest{Query: query}
	if err := s.client.PostJSON(ctx, s.apiBase+sqlPath, payload, &rows); err != nil {
		return nil, fmt.Errorf("datastore query failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	record := adaptSQLRow(rows[0], code)
	if !record.HasData() {
		return nil, nil
	}
	return record, nil
}

// buildQuery renders the lookup as interpolated SQL; the endpoint takes query
// text only, so there is no parameter binding to lean on.
func buildQuery(code string) (string, error) {
	query, _, err := sqlDialect.From(feeScheduleTable).
		Where(goqu.Ex{codeColumn: code}).
		Limit(1).
		ToSQL()
	return query, err
}

// sqlRequest is the payload shape of the datastore SQL endpoint
type sqlRequest struct {
	Query string `json:"query"`
}
