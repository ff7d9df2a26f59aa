package ingest

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser is the last-resort scraper for the public calendar page.
// The markup is not contractually stable, so extraction is structural
// heuristics over table rows: any row that does not match the expected
// shape is skipped silently, and an empty result is a legitimate
// outcome, never an error.
type HTMLParser struct {
	// FallbackDate fills in rows whose date header cannot be located.
	// Typically the query's start date.
	FallbackDate string
}

func (HTMLParser) Name() string { return "html" }

var (
	clockRe    = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	weekdayRe  = regexp.MustCompile(`\b(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)\b`)
	numericRe  = regexp.MustCompile(`^[\d\.\,\%\-\+\s:APMapm]*$`)
	dayDateRe  = regexp.MustCompile(`([A-Z][a-z]{2})\s+(\d{1,2})`)
)

// Parse scrapes event rows out of calendar page markup.
func (p HTMLParser) Parse(raw []byte) ([]RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		// Best-effort contract: unparseable markup degrades to empty.
		return nil, nil
	}

	currentDate := p.FallbackDate
	var records []RawRecord

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if d, ok := rowDateHeader(row); ok {
			currentDate = d
			return
		}

		cells := row.Find("td, th")
		if cells.Length() < 4 {
			return
		}
		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, c *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(c.Text()))
		})

		rec := RawRecord{Date: currentDate, Time: "00:00"}
		for _, t := range texts {
			switch {
			case rec.Time == "00:00" && clockRe.MatchString(t):
				rec.Time = t
			case rec.Currency == "" && currencyRe.MatchString(t):
				rec.Currency = t
			case rec.Impact == "" && impactKeyword(t) != "":
				rec.Impact = impactKeyword(t)
			case rec.Title == "" && len(t) > 8 && !numericRe.MatchString(t):
				rec.Title = t
			}
		}
		if rec.Impact == "" {
			rec.Impact = impactFromAttrs(row)
		}
		if rec.Title == "" || rec.Currency == "" || rec.Date == "" {
			return
		}
		records = append(records, rec)
	})

	return records, nil
}

// rowDateHeader recognizes day-separator rows like "Tue, Sep 24" and
// converts them to a parseable date for the rows that follow.
func rowDateHeader(row *goquery.Selection) (string, bool) {
	text := strings.TrimSpace(row.Text())
	if !weekdayRe.MatchString(text) || len(text) > 40 {
		return "", false
	}
	m := dayDateRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + " " + m[2] + ", " + time.Now().Format("2006"), true
}

func impactKeyword(text string) string {
	lower := strings.ToLower(text)
	for _, k := range []string{"high", "medium", "low"} {
		if strings.Contains(lower, k) {
			return k
		}
	}
	return ""
}

// impactFromAttrs falls back to class/title attributes when no cell
// text names the impact, which is how the live page encodes it.
func impactFromAttrs(row *goquery.Selection) string {
	attrs := ""
	row.Find("*").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("class"); ok {
			attrs += " " + v
		}
		if v, ok := s.Attr("title"); ok {
			attrs += " " + v
		}
	})
	lower := strings.ToLower(attrs)
	switch {
	case strings.Contains(lower, "high"):
		return "high"
	case strings.Contains(lower, "med"):
		return "medium"
	case strings.Contains(lower, "low"):
		return "low"
	}
	return ""
}
