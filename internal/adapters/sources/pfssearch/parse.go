package pfssearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zatekoja/Medicarecoveragechecker/internal/domain/entities"
)

var jsonObjectPattern = regexp.MustCompile(`\{.*?\}`)

// parseSearchResults extracts a canonical record from a search result page:
// result tables first, JSON embedded in script tags second. Script tags are
// only consulted when no table row mentioned the code at all.
func parseSearchResults(page []byte, code string) (*entities.CanonicalRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	if record, matched := parseTables(doc, code); matched {
		if record.HasData() {
			return record, nil
		}
		return nil, nil
	}

	if record := parseScripts(doc, code); record.HasData() {
		return record, nil
	}

	return nil, nil
}

// parseTables scans table rows for the code; the first row containing it
// decides the outcome.
func parseTables(doc *goquery.Document, code string) (*entities.CanonicalRecord, bool) {
	var record *entities.CanonicalRecord
	matched := false

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
			var texts []string
			rowMatches := false
			row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				text := cell.Text()
				if strings.Contains(text, code) {
					rowMatches = true
				}
				texts = append(texts, strings.TrimSpace(text))
			})
			if !rowMatches {
				return true
			}
			matched = true
			record = parseTableRow(texts, code)
			return false
		})
		return !matched
	})

	return record, matched
}

// parseTableRow applies the label-then-next-cell heuristics of the fee
// schedule result tables. The markup carries no stable schema, so as a
// fallback any bare number in the open range (0, 100) fills the next unset
// RVU component in encounter order. Best effort: on reordered or malformed
// tables this can misattribute values.
func parseTableRow(cells []string, code string) *entities.CanonicalRecord {
	record := &entities.CanonicalRecord{Code: code}

	for i, raw := range cells {
		text := strings.ToLower(strings.TrimSpace(raw))

		switch {
		case strings.Contains(text, "work") && i+1 < len(cells):
			if value, err := strconv.ParseFloat(strings.TrimSpace(cells[i+1]), 64); err == nil {
				record.WorkRVU = &value
			}
		case strings.Contains(text, "practice") && strings.Contains(text, "expense") && i+1 < len(cells):
			if value, err := strconv.ParseFloat(strings.TrimSpace(cells[i+1]), 64); err == nil {
				record.PracticeExpenseRVU = &value
			}
		case strings.Contains(text, "malpractice") && i+1 < len(cells):
			if value, err := strconv.ParseFloat(strings.TrimSpace(cells[i+1]), 64); err == nil {
				record.MalpracticeRVU = &value
			}
		case text == "description" && i+1 < len(cells):
			description := cells[i+1]
			record.Description = &description
		}

		if value, err := strconv.ParseFloat(text, 64); err == nil && value > 0 && value < 100 {
			record.FillNextRVU(value)
		}
	}

	return record
}

// parseScripts looks for a script block that mentions the code and carries a
// brace-delimited JSON object; blocks that fail to parse or hold no usable
// fields are skipped.
func parseScripts(doc *goquery.Document, code string) *entities.CanonicalRecord {
	var record *entities.CanonicalRecord

	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if !strings.Contains(text, code) {
			return true
		}

		match := jsonObjectPattern.FindString(text)
		if match == "" {
			return true
		}

		var embedded scriptRecord
		if err := json.Unmarshal([]byte(match), &embedded); err != nil {
			return true
		}

		candidate := embedded.toCanonicalRecord(code)
		if !candidate.HasData() {
			return true
		}

		record = candidate
		return false
	})

	return record
}

// scriptRecord is the JSON shape result pages embed in script tags
type scriptRecord struct {
	Description        *string  `json:"description"`
	WorkRVU            *float64 `json:"work_rvu"`
	PracticeExpenseRVU *float64 `json:"practice_expense_rvu"`
	MalpracticeRVU     *float64 `json:"malpractice_rvu"`
	GlobalPeriod       *string  `json:"global_period"`
	StatusIndicator    *string  `json:"status_indicator"`
}

func (r *scriptRecord) toCanonicalRecord(code string) *entities.CanonicalRecord {
	return &entities.CanonicalRecord{
		Code:               code,
		Description:        r.Description,
		WorkRVU:            r.WorkRVU,
		PracticeExpenseRVU: r.PracticeExpenseRVU,
		MalpracticeRVU:     r.MalpracticeRVU,
		GlobalPeriod:       r.GlobalPeriod,
		StatusIndicator:    r.StatusIndicator,
	}
}
