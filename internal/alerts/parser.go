package alerts

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"schoolhub/internal/logging"
)

// RequiredHeaders are the column names the alert sheet must publish.
// Order in the sheet does not matter; spelling and case do.
var RequiredHeaders = []string{"id", "severity", "title", "message", "date"}

var lineBreak = regexp.MustCompile(`\r?\n`)

const byteOrderMark = "\ufeff"

// ErrSchemaInvalid means the header row lacks a required column.
var ErrSchemaInvalid = errors.New("alert sheet schema invalid")

// Report describes what Parse kept and what it threw away.
type Report struct {
	Rows           int      // data lines seen after the header
	MissingHeaders []string // required headers absent from the header row
	DroppedRows    []int    // 1-based line numbers of discarded rows
}

// SchemaValid reports whether the header row carried every required column.
func (r Report) SchemaValid() bool {
	return len(r.MissingHeaders) == 0
}

// Err returns ErrSchemaInvalid naming the missing columns, or nil.
func (r Report) Err() error {
	if r.SchemaValid() {
		return nil
	}
	return fmt.Errorf("%w: missing %s", ErrSchemaInvalid, strings.Join(r.MissingHeaders, ", "))
}

// Parse converts published sheet CSV into alerts in row order.
// It never fails: a bad header row yields no alerts and a bad data row is skipped.
func Parse(text string) []Alert {
	records, _ := ParseReport(text)
	return records
}

// ParseReport is Parse plus the diagnostics gathered on the way.
//
// Fields are split on bare commas. The sheet is published by hand and its
// instructions forbid commas inside values, so quoting is not supported.
func ParseReport(text string) ([]Alert, Report) {
	var report Report

	// Sheets exported with a byte-order mark would otherwise hide the id header.
	text = strings.TrimPrefix(text, byteOrderMark)
	lines := lineBreak.Split(strings.TrimSpace(text), -1)
	if len(lines) < 2 {
		return []Alert{}, report
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	columns := make(map[string]int, len(RequiredHeaders))
	maxIndex := 0
	for _, name := range RequiredHeaders {
		idx := indexOf(headers, name)
		if idx < 0 {
			report.MissingHeaders = append(report.MissingHeaders, name)
			continue
		}
		columns[name] = idx
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	if !report.SchemaValid() {
		logging.AlertsError("alert sheet is missing required headers: %s (want %s)",
			strings.Join(report.MissingHeaders, ", "), strings.Join(RequiredHeaders, ","))
		return []Alert{}, report
	}

	records := make([]Alert, 0, len(lines)-1)
	for i, line := range lines[1:] {
		report.Rows++
		lineNo := i + 2

		values := strings.Split(line, ",")
		if len(values) <= maxIndex {
			report.DroppedRows = append(report.DroppedRows, lineNo)
			logging.AlertsDebug("dropping line %d: %d fields, need %d", lineNo, len(values), maxIndex+1)
			continue
		}

		id, ok := parseLeadingInt(values[columns["id"]])
		if !ok {
			report.DroppedRows = append(report.DroppedRows, lineNo)
			logging.AlertsDebug("dropping line %d: id %q is not a number", lineNo, values[columns["id"]])
			continue
		}

		records = append(records, Alert{
			ID:       id,
			Severity: ParseSeverity(strings.TrimSpace(values[columns["severity"]])),
			Title:    strings.TrimSpace(values[columns["title"]]),
			Message:  strings.TrimSpace(values[columns["message"]]),
			Date:     strings.TrimSpace(values[columns["date"]]),
		})
	}

	if len(report.DroppedRows) > 0 {
		logging.AlertsWarn("alert sheet: kept %d of %d rows", len(records), report.Rows)
	}
	return records, report
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}

// parseLeadingInt reads an optionally signed run of digits at the start of s,
// ignoring surrounding whitespace and anything after the digits.
// "12", " 7 ", "-3" and "12a" parse; "", "abc" and "a12" do not.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
