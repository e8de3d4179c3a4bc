package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zatekoja/Medicarecoveragechecker/internal/infrastructure/clients/cms"
)

const (
	defaultMainSiteURL = "https://www.cms.gov"
	defaultDataAPIURL  = "https://data.cms.gov/api/1/metastore/schemas/dataset/items"
)

// ConnectivityTool smoke-tests the CMS endpoints the lookup chain depends on
type ConnectivityTool struct {
	client      *cms.Client
	mainSiteURL string
	dataAPIURL  string
}

// NewConnectivityTool creates the test_cms_api_connection tool
func NewConnectivityTool(client *cms.Client) *ConnectivityTool {
	return NewConnectivityToolWithOptions(client, defaultMainSiteURL, defaultDataAPIURL)
}

// NewConnectivityToolWithOptions allows overriding the probed URLs (used for tests)
func NewConnectivityToolWithOptions(client *cms.Client, mainSiteURL, dataAPIURL string) *ConnectivityTool {
	if mainSiteURL == "" {
		mainSiteURL = defaultMainSiteURL
	}
	if dataAPIURL == "" {
		dataAPIURL = defaultDataAPIURL
	}
	return &ConnectivityTool{
		client:      client,
		mainSiteURL: mainSiteURL,
		dataAPIURL:  dataAPIURL,
	}
}

// Handle returns the tool definition
func (t *ConnectivityTool) Handle() mcp.Tool {
	return mcp.NewTool("test_cms_api_connection",
		mcp.WithDescription("Test connection to CMS APIs to verify they are working."),
	)
}

// Handler probes each endpoint independently; one endpoint being down does
// not hide the status of the other.
func (t *ConnectivityTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mainStatus := "✅ CMS main site accessible"
	if err := t.client.Ping(ctx, t.mainSiteURL); err != nil {
		mainStatus = "❌ CMS main site not accessible"
	}

	dataStatus := "✅ CMS Data API accessible"
	if err := t.client.Ping(ctx, t.dataAPIURL); err != nil {
		dataStatus = "❌ CMS Data API not accessible"
	}

	report := fmt.Sprintf("🏥 CMS API Connection Test:\n%s\n%s\n\n🔍 This app uses live CMS APIs!", mainStatus, dataStatus)
	return mcp.NewToolResultText(report), nil
}
