package tools

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
)

const successStatus = "✅ SUCCESS - Data from CMS API"

// RenderLookupResponse formats a reimbursement record as the JSON envelope
// returned by the lookup tool and the lookup CLI.
func RenderLookupResponse(info *entities.ReimbursementInfo) (string, error) {
	response := lookupResponse{
		Status:      successStatus,
		Code:        info.HCPCSCode,
		Description: info.Description,
		PaymentInformation: paymentInformation{
			NationalPaymentAmount: currency(info.NationalPayment),
			FacilityPayment:       currency(info.FacilityPayment),
			NonFacilityPayment:    currency(info.NonFacilityPayment),
			PatientCoinsurance:    coinsurance(info.CoinsuranceAmount),
		},
		RelativeValueUnits: relativeValueUnits{
			WorkRVU:            info.WorkRVU.InexactFloat64(),
			PracticeExpenseRVU: info.PracticeExpenseRVU.InexactFloat64(),
			MalpracticeRVU:     info.MalpracticeRVU.InexactFloat64(),
			TotalRVU:           info.TotalRVU.InexactFloat64(),
		},
		AdditionalInfo: additionalInfo{
			ConversionFactor: "$" + info.ConversionFactor.String(),
			GlobalPeriod:     info.GlobalPeriod,
			StatusIndicator:  info.StatusIndicator,
			Locality:         info.Locality,
			Year:             info.Year,
			DataSource:       info.DataSource,
		},
	}

	rendered, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render lookup response: %w", err)
	}
	return string(rendered), nil
}

// currency renders a payment amount; an unset amount is not payable rather
// than zero.
func currency(amount *decimal.Decimal) string {
	if amount == nil {
		return "Not applicable"
	}
	return "$" + amount.StringFixed(2)
}

func coinsurance(amount *decimal.Decimal) string {
	if amount == nil {
		return "Varies"
	}
	return fmt.Sprintf("$%s (20%%)", amount.StringFixed(2))
}

type lookupResponse struct {
	Status             string             `json:"status"`
	Code               string             `json:"code"`
	Description        string             `json:"description"`
	PaymentInformation paymentInformation `json:"payment_information"`
	RelativeValueUnits relativeValueUnits `json:"relative_value_units"`
	AdditionalInfo     additionalInfo     `json:"additional_info"`
}

type paymentInformation struct {
	NationalPaymentAmount string `json:"national_payment_amount"`
	FacilityPayment       string `json:"facility_payment"`
	NonFacilityPayment    string `json:"non_facility_payment"`
	PatientCoinsurance    string `json:"patient_coinsurance"`
}

type relativeValueUnits struct {
	WorkRVU            float64 `json:"work_rvu"`
	PracticeExpenseRVU float64 `json:"practice_expense_rvu"`
	MalpracticeRVU     float64 `json:"malpractice_rvu"`
	TotalRVU           float64 `json:"total_rvu"`
}

type additionalInfo struct {
	ConversionFactor string  `json:"conversion_factor"`
	GlobalPeriod     *string `json:"global_period"`
	StatusIndicator  *string `json:"status_indicator"`
	Locality         string  `json:"locality"`
	Year             int     `json:"year"`
	DataSource       string  `json:"data_source"`
}
