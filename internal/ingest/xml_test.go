package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLParser_ItemElements(t *testing.T) {
	payload := []byte(`<?xml version="1.0"?>
<events>
  <item>
    <date>2024-05-06</date>
    <time>13:30</time>
    <currency>USD</currency>
    <impact>High</impact>
    <title>Non-Farm Payrolls</title>
  </item>
  <item>
    <date>2024-05-07</date>
    <time>09:00</time>
    <currency>GBP</currency>
    <impact>Medium</impact>
    <title>Halifax HPI</title>
  </item>
</events>`)
	records, err := XMLParser{}.Parse(payload)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Non-Farm Payrolls", records[0].Title)
	assert.Equal(t, "GBP", records[1].Currency)
}

func TestXMLParser_FindsItemsUnderAnyWrapper(t *testing.T) {
	payload := []byte(`<rss><channel>
  <item><date>2024-05-06</date><time>13:30</time><currency>USD</currency><impact>High</impact><title>CPI</title></item>
</channel></rss>`)
	records, err := XMLParser{}.Parse(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestXMLParser_SkipsIncompleteItemsIndividually(t *testing.T) {
	payload := []byte(`<events>
  <item><time>13:30</time><currency>USD</currency><title>no date, dropped</title></item>
  <item><date>2024-05-06</date><currency>USD</currency><title>no time, defaults</title></item>
  <item><date>2024-05-06</date><time>14:00</time><currency>EUR</currency><title>fine</title></item>
</events>`)
	records, err := XMLParser{}.Parse(payload)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "00:00", records[0].Time)
	assert.Equal(t, "fine", records[1].Title)
}

func TestXMLParser_ZeroItemsIsParseError(t *testing.T) {
	var pe *ParseError
	_, err := XMLParser{}.Parse([]byte(`<events></events>`))
	assert.ErrorAs(t, err, &pe)
}

func TestXMLParser_MalformedDocumentIsParseError(t *testing.T) {
	var pe *ParseError
	_, err := XMLParser{}.Parse([]byte(`{"not": "xml"}`))
	assert.ErrorAs(t, err, &pe)
}
