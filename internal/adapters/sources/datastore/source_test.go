package datastore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/clients/cms"
)

func TestBuildQuery(t *testing.T) {
	query, err := buildQuery("99213")

	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "physician_fee_schedule" WHERE ("hcpcs_cd" = '99213') LIMIT 1`, query)
}

func TestBuildQuery_EscapesQuotes(t *testing.T) {
	query, err := buildQuery(`G0'008`)

	require.NoError(t, err)
	assert.Contains(t, query, `'G0''008'`)
}

func TestSource_Fetch_AdaptsFirstRow(t *testing.T) {
	var received sqlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/1/datastore/sql", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`[{"hcpcs_cd": "99213", "hcpcs_desc": "Office visit est", "work_rvu": "0.97", "status_ind": "A"}]`))
	}))
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.Description)
	assert.Equal(t, "Office visit est", *record.Description)
	require.NotNil(t, record.WorkRVU)
	assert.Equal(t, 0.97, *record.WorkRVU)
	require.NotNil(t, record.StatusIndicator)
	assert.Equal(t, "A", *record.StatusIndicator)

	assert.Equal(t, `SELECT * FROM "physician_fee_schedule" WHERE ("hcpcs_cd" = '99213') LIMIT 1`, received.Query)
}

func TestSource_Fetch_NoRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSource_Fetch_CodeOnlyRowIsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"hcpcs_cd": "99213"}]`))
	}))
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSource_Fetch_EndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := NewWithOptions(cms.NewClient(5*time.Second), server.URL)

	record, err := source.Fetch(context.Background(), "99213")

	require.Error(t, err)
	assert.Nil(t, record)
	assert.Contains(t, err.Error(), "datastore query failed")
}

func TestSource_Name(t *testing.T) {
	source := New(cms.NewClient(0))
	assert.Equal(t, "datastore_sql", source.Name())
}
