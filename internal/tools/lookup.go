package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zatekoja/Medicarecoveragechecker/internal/application/services"
	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
	apperrors "github.com/zatekoja/Medicarecoveragechecker/pkg/errors"
)

const invalidCodeMessage = "Error: Please provide a valid HCPCS or CPT code"

// LookupTool looks up Medicare reimbursement information for a procedure code
type LookupTool struct {
	service *services.LookupService
}

// NewLookupTool creates the lookup_reimbursement tool
func NewLookupTool(service *services.LookupService) *LookupTool {
	return &LookupTool{service: service}
}

// Handle returns the tool definition
func (t *LookupTool) Handle() mcp.Tool {
	return mcp.NewTool("lookup_reimbursement",
		mcp.WithDescription("Look up Medicare reimbursement information for an HCPCS or CPT code using live CMS data sources."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description(`The HCPCS or CPT code to look up (e.g., "G0008", "99213")`),
		),
		mcp.WithString("locality",
			mcp.DefaultString(entities.DefaultLocality),
			mcp.Description("Geographic locality for pricing"),
		),
	)
}

// Handler resolves the code through the lookup service. A code that no
// source knows is a regular outcome with guidance text; only unexpected
// failures surface as tool errors.
func (t *LookupTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(invalidCodeMessage), nil
	}
	locality := request.GetString("locality", entities.DefaultLocality)

	normalized, err := services.NormalizeCode(code)
	if err != nil {
		return mcp.NewToolResultError(invalidCodeMessage), nil
	}

	info, err := t.service.Lookup(ctx, normalized, locality)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return mcp.NewToolResultText(notFoundMessage(normalized)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("🚨 API Error looking up code '%s': %v", normalized, err)), nil
	}

	rendered, err := RenderLookupResponse(info)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(rendered), nil
}

func notFoundMessage(code string) string {
	return fmt.Sprintf(`❌ Code '%s' not found in CMS APIs. This may mean:
• The code doesn't exist in Medicare fee schedule
• The code is not payable under Part B
• CMS APIs are temporarily unavailable
Please verify the code and try again.`, code)
}
