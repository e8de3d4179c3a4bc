package datastore

import (
	"encoding/json"
	"strconv"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
)

// adaptSQLRow maps one datastore row onto the canonical record using the
// column spellings the fee schedule tables are published under. Values are
// coerced leniently and dropped when they do not parse. Code columns are
// intentionally not mapped: the record keeps the requested code, and a row
// carrying nothing but the code does not count as data.
func adaptSQLRow(row map[string]interface{}, code string) *entities.CanonicalRecord {
	record := &entities.CanonicalRecord{Code: code}

	for _, field := range []string{"hcpcs_desc", "hcpcs_description"} {
		if value, ok := toString(row[field]); ok {
			record.Description = &value
		}
	}

	if value, ok := toFloat(row["work_rvu"]); ok {
		record.WorkRVU = &value
	}
	for _, field := range []string{"pe_rvu", "practice_expense_rvu"} {
		if value, ok := toFloat(row[field]); ok {
			record.PracticeExpenseRVU = &value
		}
	}
	for _, field := range []string{"mp_rvu", "malpractice_rvu"} {
		if value, ok := toFloat(row[field]); ok {
			record.MalpracticeRVU = &value
		}
	}

	if value, ok := toString(row["glob_days"]); ok {
		record.GlobalPeriod = &value
	}
	if value, ok := toString(row["status_ind"]); ok {
		record.StatusIndicator = &value
	}

	return record
}

func toFloat(raw interface{}) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func toString(raw interface{}) (string, bool) {
	switch value := raw.(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case json.Number:
		return value.String(), true
	default:
		return "", false
	}
}
