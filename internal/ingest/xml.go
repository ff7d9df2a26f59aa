package ingest

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// XMLParser handles the calendar's XML export: a document containing
// <item> elements with date/time/currency/impact/title children. The
// elements are collected from the token stream so wrappers like
// <rss><channel> do not matter.
type XMLParser struct{}

func (XMLParser) Name() string { return "xml" }

type xmlItem struct {
	Date     string `xml:"date"`
	Time     string `xml:"time"`
	Currency string `xml:"currency"`
	Impact   string `xml:"impact"`
	Title    string `xml:"title"`
}

// Parse extracts records from XML text. Malformed or incomplete items
// are skipped individually; an unparseable document or zero surviving
// items fails with *ParseError.
func (XMLParser) Parse(raw []byte) ([]RawRecord, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var records []RawRecord
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(records) > 0 {
				break // keep what decoded before the document broke
			}
			return nil, &ParseError{Format: "xml", Reason: "malformed document: " + err.Error()}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "item" {
			continue
		}
		var it xmlItem
		if err := dec.DecodeElement(&it, &start); err != nil {
			continue
		}
		if strings.TrimSpace(it.Date) == "" || strings.TrimSpace(it.Title) == "" {
			continue
		}
		tm := strings.TrimSpace(it.Time)
		if tm == "" {
			tm = "00:00"
		}
		records = append(records, RawRecord{
			Date:     it.Date,
			Time:     tm,
			Currency: it.Currency,
			Impact:   it.Impact,
			Title:    it.Title,
		})
	}
	if len(records) == 0 {
		return nil, &ParseError{Format: "xml", Reason: "no usable <item> elements"}
	}
	return records, nil
}
