package pfssearch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/clients/cms"
)

const (
	defaultSearchURL  = "https://www.cms.gov/medicare/physician-fee-schedule/search"
	defaultFormAction = "/medicare/physician-fee-schedule/search"
)

// searchParamNames are the spellings the search tool accepts for the code;
// all of them are sent on every search.
var searchParamNames = []string{"hcpcs", "code", "procedure_code", "search"}

// Source queries the CMS Physician Fee Schedule search tool. The search is a
// plain HTML page: we load it, locate its form, post the code and mine the
// result markup for fee schedule data.
type Source struct {
	client    *cms.Client
	searchURL string
}

// New creates a PFS search source
func New(client *cms.Client) *Source {
	return NewWithOptions(client, defaultSearchURL)
}

// NewWithOptions allows overriding the search URL (used for tests)
func NewWithOptions(client *cms.Client, searchURL string) *Source {
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	return &Source{
		client:    client,
		searchURL: searchURL,
	}
}

// Name identifies the source in logs and traces
func (s *Source) Name() string {
	return "pfs_search"
}

// Fetch posts the code to the fee schedule search form and parses the result page
func (s *Source) Fetch(ctx context.Context, code string) (*entities.CanonicalRecord, error) {
	page, err := s.client.Get(ctx, s.searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load pfs search page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pfs search page: %w", err)
	}

	form := doc.Find("form").First()
	if form.Length() == 0 {
		return nil, nil
	}

	searchURL, err := s.resolveAction(form.AttrOr("action", defaultFormAction))
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	for _, key := range searchParamNames {
		params.Set(key, code)
	}

	results, err := s.client.PostForm(ctx, searchURL, params)
	if err != nil {
		return nil, fmt.Errorf("pfs search request failed: %w", err)
	}

	return parseSearchResults(results, code)
}

// resolveAction resolves the form action against the search page URL, so a
// relative action lands on the same host.
func (s *Source) resolveAction(action string) (string, error) {
	base, err := url.Parse(s.searchURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse search url: %w", err)
	}
	ref, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("failed to parse form action: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}
