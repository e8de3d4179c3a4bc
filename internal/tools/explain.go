package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const paymentMethodology = `🏥 Medicare Payment Calculation (CMS Official Methodology):

1. **Data Source**: All payment information comes directly from CMS APIs
   - Real-time CMS fee schedule data

2. **Relative Value Units (RVUs)**:
   - Work RVU: Physician work (time, skill, effort, judgment)
   - Practice Expense RVU: Practice costs (staff, equipment, supplies, rent)
   - Malpractice RVU: Professional liability insurance costs

3. **Payment Calculation**:
   Payment = (Work RVU + Practice Expense RVU + Malpractice RVU) × Conversion Factor × Geographic Adjustment

4. **2024 Conversion Factor**: $33.29 (set by CMS)

5. **Payment Settings**:
   - Facility Payment: Service performed in hospital/facility (lower practice expense)
   - Non-Facility Payment: Service performed in physician office (higher practice expense)

6. **Patient Responsibility**:
   - Medicare pays 80% of approved amount
   - Patient pays 20% coinsurance (after deductible)

7. **Geographic Adjustments**:
   - Geographic Practice Cost Indices (GPCIs) adjust for local costs
   - Applied to work, practice expense, and malpractice RVUs

🔍 All data is fetched live from CMS APIs - ensuring accuracy and compliance!`

// ExplainTool returns a static explanation of the Medicare payment formula
type ExplainTool struct{}

// NewExplainTool creates the explain_medicare_payments tool
func NewExplainTool() *ExplainTool {
	return &ExplainTool{}
}

// Handle returns the tool definition
func (t *ExplainTool) Handle() mcp.Tool {
	return mcp.NewTool("explain_medicare_payments",
		mcp.WithDescription("Explain how Medicare payments are calculated using CMS methodology."),
	)
}

// Handler returns the explanation text
func (t *ExplainTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(paymentMethodology), nil
}
