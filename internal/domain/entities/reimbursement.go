package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Constants of the 2024 Medicare physician fee schedule.
const (
	PaymentYear     = 2024
	DefaultLocality = "National"
	DataSourceLabel = "CMS API"
)

var (
	// ConversionFactor is the 2024 Medicare conversion factor in dollars per RVU
	ConversionFactor = decimal.NewFromFloat(33.29)

	// facilityRate discounts the national payment for services performed in a facility
	facilityRate = decimal.NewFromFloat(0.85)

	// coinsuranceRate is the standard Part B patient coinsurance
	coinsuranceRate = decimal.NewFromFloat(0.20)
)

// ReimbursementInfo is the assembled Medicare reimbursement record for a
// single HCPCS/CPT code.
type ReimbursementInfo struct {
	HCPCSCode          string           `json:"hcpcs_code"`
	Description        string           `json:"description"`
	WorkRVU            decimal.Decimal  `json:"work_rvu"`
	PracticeExpenseRVU decimal.Decimal  `json:"practice_expense_rvu"`
	MalpracticeRVU     decimal.Decimal  `json:"malpractice_rvu"`
	TotalRVU           decimal.Decimal  `json:"total_rvu"`
	ConversionFactor   decimal.Decimal  `json:"conversion_factor"`
	NationalPayment    *decimal.Decimal `json:"national_payment_amount,omitempty"`
	FacilityPayment    *decimal.Decimal `json:"facility_payment,omitempty"`
	NonFacilityPayment *decimal.Decimal `json:"non_facility_payment,omitempty"`
	CoinsuranceAmount  *decimal.Decimal `json:"coinsurance_amount,omitempty"`
	GlobalPeriod       *string          `json:"global_period,omitempty"`
	StatusIndicator    *string          `json:"status_indicator,omitempty"`
	Locality           string           `json:"locality"`
	Year               int              `json:"year"`
	DataSource         string           `json:"data_source"`
}

// NewReimbursementInfo synthesizes a reimbursement record from a canonical
// record. Missing RVU components count as zero. When the total RVU is zero
// all monetary fields stay unset: payment is not applicable, not free.
func NewReimbursementInfo(record *CanonicalRecord, locality string) *ReimbursementInfo {
	if locality == "" {
		locality = DefaultLocality
	}

	work := rvuOrZero(record.WorkRVU)
	practiceExpense := rvuOrZero(record.PracticeExpenseRVU)
	malpractice := rvuOrZero(record.MalpracticeRVU)
	total := work.Add(practiceExpense).Add(malpractice)

	info := &ReimbursementInfo{
		HCPCSCode:          record.Code,
		Description:        fmt.Sprintf("Procedure code %s (from CMS API)", record.Code),
		WorkRVU:            work,
		PracticeExpenseRVU: practiceExpense,
		MalpracticeRVU:     malpractice,
		TotalRVU:           total,
		ConversionFactor:   ConversionFactor,
		GlobalPeriod:       record.GlobalPeriod,
		StatusIndicator:    record.StatusIndicator,
		Locality:           locality,
		Year:               PaymentYear,
		DataSource:         DataSourceLabel,
	}
	if record.Description != nil {
		info.Description = *record.Description
	}

	if total.IsPositive() {
		national := total.Mul(ConversionFactor)
		nationalRounded := national.Round(2)
		nonFacility := nationalRounded
		facility := national.Mul(facilityRate).Round(2)
		coinsurance := national.Mul(coinsuranceRate).Round(2)

		info.NationalPayment = &nationalRounded
		info.FacilityPayment = &facility
		info.NonFacilityPayment = &nonFacility
		info.CoinsuranceAmount = &coinsurance
	}

	return info
}

func rvuOrZero(value *float64) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*value)
}
