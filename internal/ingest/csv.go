package ingest

import (
	"regexp"
	"strings"
)

// CSVParser handles the calendar's CSV export. The export uses a fixed
// column order (date, time, currency, impact, title) and delimits on
// either commas or semicolons with no quoting, so rows are split per
// line rather than run through a quoting-aware reader.
type CSVParser struct{}

func (CSVParser) Name() string { return "csv" }

// Parse extracts records from CSV text. Header and blank lines are
// skipped. A payload with no structurally valid row is a shape
// mismatch and fails with *ParseError.
func (CSVParser) Parse(raw []byte) ([]RawRecord, error) {
	var records []RawRecord
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(strings.ToLower(line), "date") {
			continue
		}
		cols := splitRow(line)
		if len(cols) < 5 {
			continue
		}
		rec := RawRecord{
			Date:     cols[0],
			Time:     cols[1],
			Currency: cols[2],
			Impact:   cols[3],
			// Title may itself contain the delimiter; keep the tail intact.
			Title: strings.Join(cols[4:], ", "),
		}
		// Blank time, currency, or impact cells are the normalizer's
		// problem; only a row without a date and title is shapeless.
		if rec.Date == "" || rec.Title == "" {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, &ParseError{Format: "csv", Reason: "no rows matched the date,time,currency,impact,title layout"}
	}
	return records, nil
}

var delimRe = regexp.MustCompile(`[,;]`)

// splitRow splits on either delimiter, preserving empty fields so a
// blank cell keeps its position instead of shifting the columns after
// it.
func splitRow(line string) []string {
	cols := delimRe.Split(line, -1)
	for i, c := range cols {
		cols[i] = strings.TrimSpace(c)
	}
	return cols
}
