package datacatalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
)

// adaptDatasetRow maps one dataset row onto the canonical record. Datasets
// expose their numbers as either JSON numbers or strings, so RVU fields are
// coerced and silently dropped when they do not parse.
func adaptDatasetRow(row json.RawMessage, code string) *entities.CanonicalRecord {
	var fields map[string]interface{}
	if err := json.Unmarshal(row, &fields); err != nil {
		return nil
	}

	record := &entities.CanonicalRecord{Code: code}

	if description, ok := stringField(fields, "hcpcs_description"); ok {
		record.Description = &description
	} else if description, ok := stringField(fields, "description"); ok {
		record.Description = &description
	}

	if value, ok := floatField(fields, "work_rvu"); ok {
		record.WorkRVU = &value
	}
	if value, ok := floatField(fields, "pe_rvu"); ok {
		record.PracticeExpenseRVU = &value
	}
	if value, ok := floatField(fields, "mp_rvu"); ok {
		record.MalpracticeRVU = &value
	}

	return record
}

func stringField(fields map[string]interface{}, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	return value, ok
}

func floatField(fields map[string]interface{}, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	switch value := raw.(type) {
	case float64:
		return value, true
	case string:
		// some datasets format numbers with thousands separators
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
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
