package datacatalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/clients/cms"
)

// datasetRecorder tracks which filter spellings each dataset was queried with
type datasetRecorder struct {
	mu      sync.Mutex
	queries map[string][]string
}

func (r *datasetRecorder) record(datasetID string, params []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.queries == nil {
		r.queries = map[string][]string{}
	}
	r.queries[datasetID] = append(r.queries[datasetID], params...)
}

func (r *datasetRecorder) count(datasetID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries[datasetID])
}

func filterParamsOf(r *http.Request) []string {
	var params []string
	for _, param := range codeFilterParams {
		if r.URL.Query().Get(param) != "" {
			params = append(params, param)
		}
	}
	return params
}

func TestSource_Fetch_QueriesMatchingDatasets(t *testing.T) {
	recorder := &datasetRecorder{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/metastore/schemas/dataset/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"identifier": "hospital-costs", "title": "Hospital Cost Reports"},
			{"identifier": "pfs-empty", "title": "Physician Fee Schedule Historic"},
			{"identifier": "pfs-2024", "title": "Physician Fee Schedule 2024"}
		]`))
	})
	mux.HandleFunc("/data-api/v1/dataset/hospital-costs/data", func(w http.ResponseWriter, r *http.Request) {
		recorder.record("hospital-costs", filterParamsOf(r))
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/data-api/v1/dataset/pfs-empty/data", func(w http.ResponseWriter, r *http.Request) {
		recorder.record("pfs-empty", filterParamsOf(r))
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/data-api/v1/dataset/pfs-2024/data", func(w http.ResponseWriter, r *http.Request) {
		recorder.record("pfs-2024", filterParamsOf(r))
		if r.URL.Query().Get("filter[hcpcs_code]") == "99213" {
			require.Equal(t, "1", r.URL.Query().Get("limit"))
			w.Write([]byte(`[{"hcpcs_code": "99213", "hcpcs_description": "Office visit est", "work_rvu": "0.97"}]`))
			return
		}
		w.Write([]byte(`[]`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.Description)
	assert.Equal(t, "Office visit est", *record.Description)
	require.NotNil(t, record.WorkRVU)
	assert.Equal(t, 0.97, *record.WorkRVU)

	// Datasets without fee schedule keywords are never queried; the matching
	// but empty dataset is exhausted across all filter spellings first.
	assert.Equal(t, 0, recorder.count("hospital-costs"))
	assert.Equal(t, len(codeFilterParams), recorder.count("pfs-empty"))
	assert.Equal(t, []string{"filter[hcpcs_cd]", "filter[hcpcs_code]"}, recorder.queries["pfs-2024"])
}

func TestSource_Fetch_FirstSpellingWithRowsDecidesDataset(t *testing.T) {
	recorder := &datasetRecorder{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/metastore/schemas/dataset/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"identifier": "pfs-codes-only", "title": "PFS code index"},
			{"identifier": "pfs-full", "title": "PFS RVU data"}
		]`))
	})
	mux.HandleFunc("/data-api/v1/dataset/pfs-codes-only/data", func(w http.ResponseWriter, r *http.Request) {
		recorder.record("pfs-codes-only", filterParamsOf(r))
		// Rows exist but carry nothing usable; the dataset is concluded
		// without trying the remaining filter spellings.
		w.Write([]byte(`[{"hcpcs_cd": "99213"}]`))
	})
	mux.HandleFunc("/data-api/v1/dataset/pfs-full/data", func(w http.ResponseWriter, r *http.Request) {
		recorder.record("pfs-full", filterParamsOf(r))
		w.Write([]byte(`[{"hcpcs_cd": "99213", "work_rvu": 0.97}]`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.WorkRVU)

	assert.Equal(t, 1, recorder.count("pfs-codes-only"))
	assert.Equal(t, 1, recorder.count("pfs-full"))
}

func TestSource_Fetch_DatasetErrorsAreSwallowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/metastore/schemas/dataset/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"identifier": "pfs-broken", "title": "PFS dataset"},
			{"identifier": "pfs-good", "title": "PFS dataset"}
		]`))
	})
	mux.HandleFunc("/data-api/v1/dataset/pfs-broken/data", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/data-api/v1/dataset/pfs-good/data", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"mp_rvu": "0.07"}]`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.MalpracticeRVU)
	assert.Equal(t, 0.07, *record.MalpracticeRVU)
}

func TestSource_Fetch_CatalogUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.Error(t, err)
	assert.Nil(t, record)
}

func TestSource_Fetch_NoMatchingDatasets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/metastore/schemas/dataset/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"identifier": "hospital-costs", "title": "Hospital Cost Reports"}]`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSource_Name(t *testing.T) {
	source := New(cms.NewClient(0))
	assert.Equal(t, "data_catalog", source.Name())
}
