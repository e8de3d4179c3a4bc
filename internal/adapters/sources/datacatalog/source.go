package datacatalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/clients/cms"
)

const (
	defaultAPIBase = "https://data.cms.gov"
	catalogPath    = "/api/1/metastore/schemas/dataset/items"
)

// datasetKeywords select fee-schedule datasets out of the full catalog; the
// match runs over the raw metadata document, not a specific field.
var datasetKeywords = [][]byte{
	[]byte("physician"),
	[]byte("fee"),
	[]byte("schedule"),
	[]byte("pfs"),
}

// codeFilterParams are the field-name spellings the dataset rows use for the
// procedure code; datasets differ, so each is tried in order.
var codeFilterParams = []string{
	"filter[hcpcs_cd]",
	"filter[hcpcs_code]",
	"filter[code]",
	"filter[procedure_code]",
}

// Source resolves codes through the CMS data catalog: it lists the dataset
// catalog, picks out fee-schedule datasets and queries each one for the code.
type Source struct {
	client  *cms.Client
	apiBase string
}

// New creates a data catalog source
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
	return "data_catalog"
}

// Fetch lists the dataset catalog and queries every fee-schedule dataset for
// the code until one yields usable fields. Failures of individual dataset
// queries are swallowed; only a failure to list the catalog is reported.
func (s *Source) Fetch(ctx context.Context, code string) (*entities.CanonicalRecord, error) {
	var items []json.RawMessage
	if err := s.client.GetJSON(ctx, s.apiBase+catalogPath, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to list cms datasets: %w", err)
	}

	for _, item := range items {
		if !matchesKeywords(item) {
			continue
		}

		var meta datasetMetadata
		if err := json.Unmarshal(item, &meta); err != nil || meta.Identifier == "" {
			continue
		}

		record := s.queryDataset(ctx, meta.Identifier, code)
		if record.HasData() {
			return record, nil
		}
	}

	return nil, nil
}

// queryDataset asks one dataset for the code, trying each filter spelling in
// order. The first spelling that returns rows decides the dataset: its first
// row is adapted, and remaining spellings are not tried.
func (s *Source) queryDataset(ctx context.Context, datasetID, code string) *entities.CanonicalRecord {
	endpoint := fmt.Sprintf("%s/data-api/v1/dataset/%s/data", s.apiBase, datasetID)

	for _, param := range codeFilterParams {
		query := url.Values{}
		query.Set(param, code)
		query.Set("limit", "1")

		var rows []json.RawMessage
		if err := s.client.GetJSON(ctx, endpoint, query, &rows); err != nil {
			continue
		}
		if len(rows) == 0 {
			continue
		}

		return adaptDatasetRow(rows[0], code)
	}

	return nil
}

func matchesKeywords(item json.RawMessage) bool {
	lowered := bytes.ToLower(item)
	for _, keyword := range datasetKeywords {
		if bytes.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// datasetMetadata is the slice of catalog metadata this source needs
type datasetMetadata struct {
	Identifier string `json:"identifier"`
}
