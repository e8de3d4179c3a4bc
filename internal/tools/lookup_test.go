package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/Medicarecoveragechecker/internal/application/services"
	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/sources"
)

// fakeSource is a canned data source for exercising the tool handlers
type fakeSource struct {
	record *entities.CanonicalRecord
	err    error
	codes  []string
}

var _ sources.Source = (*fakeSource)(nil)

func (s *fakeSource) Name() string {
	return "fake"
}

func (s *fakeSource) Fetch(_ context.Context, code string) (*entities.CanonicalRecord, error) {
	s.codes = append(s.codes, code)
	return s.record, s.err
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = "lookup_reimbursement"
	request.Params.Arguments = args
	return request
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return content.Text
}

func lookupToolOver(record *entities.CanonicalRecord) (*LookupTool, *fakeSource) {
	source := &fakeSource{record: record}
	return NewLookupTool(services.NewLookupService(source)), source
}

func TestLookupTool_Handler_Success(t *testing.T) {
	tool, _ := lookupToolOver(&entities.CanonicalRecord{
		Code:               "99213",
		Description:        strPtr("Office/outpatient visit est"),
		WorkRVU:            floatPtr(1.0),
		PracticeExpenseRVU: floatPtr(0.5),
		MalpracticeRVU:     floatPtr(0.1),
	})

	result, err := tool.Handler(context.Background(), callRequest(map[string]interface{}{"code": "99213"}))

	require.NoError(t, err)
	assert.False(t, result.IsError)

	envelope := decodeEnvelope(t, textOf(t, result))
	assert.Equal(t, "✅ SUCCESS - Data from CMS API", envelope["status"])
	assert.Equal(t, "99213", envelope["code"])

	payments := envelope["payment_information"].(map[string]interface{})
	assert.Equal(t, "$53.26", payments["national_payment_amount"])
}

func TestLookupTool_Handler_NormalizesCode(t *testing.T) {
	tool, source := lookupToolOver(&entities.CanonicalRecord{
		Code:    "G0008",
		WorkRVU: floatPtr(0.17),
	})

	result, err := tool.Handler(context.Background(), callRequest(map[string]interface{}{"code": "  g0008 "}))

	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{"G0008"}, source.codes)

	envelope := decodeEnvelope(t, textOf(t, result))
	assert.Equal(t, "G0008", envelope["code"])
}

func TestLookupTool_Handler_Locality(t *testing.T) {
	record := &entities.CanonicalRecord{Code: "99213", WorkRVU: floatPtr(0.97)}

	tool, _ := lookupToolOver(record)
	result, err := tool.Handler(context.Background(), callRequest(map[string]interface{}{"code": "99213"}))
	require.NoError(t, err)
	envelope := decodeEnvelope(t, textOf(t, result))
	additional := envelope["additional_info"].(map[string]interface{})
	assert.Equal(t, "National", additional["locality"])

	tool, _ = lookupToolOver(record)
	result, err = tool.Handler(context.Background(), callRequest(map[string]interface{}{
		"code":     "99213",
		"locality": "Chicago",
	}))
	require.NoError(t, err)
	envelope = decodeEnvelope(t, textOf(t, result))
	additional = envelope["additional_info"].(map[string]interface{})
	assert.Equal(t, "Chicago", additional["locality"])
}

func TestLookupTool_Handler_NotFound(t *testing.T) {
	tool, _ := lookupToolOver(nil)

	result, err := tool.Handler(context.Background(), callRequest(map[string]interface{}{"code": "x9999"}))

	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := textOf(t, result)
	assert.Contains(t, text, "❌ Code 'X9999' not found in CMS APIs")
	assert.Contains(t, text, "• The code is not payable under Part B")
	assert.Contains(t, text, "Please verify the code and try again.")
}

func TestLookupTool_Handler_InvalidCode(t *testing.T) {
	tool, source := lookupToolOver(&entities.CanonicalRecord{Code: "99213", WorkRVU: floatPtr(1)})

	for _, args := range []map[string]interface{}{
		{},
		{"code": ""},
		{"code": "   "},
	} {
		result, err := tool.Handler(context.Background(), callRequest(args))

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "Error: Please provide a valid HCPCS or CPT code", textOf(t, result))
	}

	assert.Empty(t, source.codes)
}

func TestLookupTool_Handler_UnexpectedFailure(t *testing.T) {
	tool, _ := lookupToolOver(&entities.CanonicalRecord{Code: "99213", WorkRVU: floatPtr(1)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := tool.Handler(ctx, callRequest(map[string]interface{}{"code": "99213"}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "🚨 API Error looking up code '99213'")
}

func TestLookupTool_Definition(t *testing.T) {
	tool := NewLookupTool(services.NewLookupService())

	definition := tool.Handle()
	assert.Equal(t, "lookup_reimbursement", definition.Name)
}
