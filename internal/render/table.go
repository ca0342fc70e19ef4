// Package render turns submissions into the text and markup sent to the
// marketing platform.
package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ignite/formrelay/internal/submission"
)

// NoData is rendered in place of a table for an empty submission.
const NoData = "<p>No data available</p>"

// Table renders fields as a two-row HTML table: a header row of field names
// and a data row of values, both in field order. Names and values are
// HTML-escaped.
func Table(fields []submission.Field) string {
	if len(fields) == 0 {
		return NoData
	}

	var b strings.Builder
	b.WriteString(`<table border="1" cellpadding="5" cellspacing="0"><thead><tr>`)
	for _, f := range fields {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(f.Name))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody><tr>")
	for _, f := range fields {
		b.WriteString("<td>")
		b.WriteString(html.EscapeString(displayValue(f)))
		b.WriteString("</td>")
	}
	b.WriteString("</tr></tbody></table>")
	return b.String()
}

func displayValue(f submission.Field) string {
	if f.Kind == submission.KindNull {
		return "null"
	}
	return f.Value
}

var (
	campaignPolicy *bluemonday.Policy
	policyOnce     sync.Once
)

func policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		campaignPolicy = bluemonday.NewPolicy()
		campaignPolicy.AllowElements("h1", "p", "table", "thead", "tbody", "tr", "th", "td")
		campaignPolicy.AllowAttrs("border", "cellpadding", "cellspacing").OnElements("table")
	})
	return campaignPolicy
}

// CampaignHTML renders the campaign body: a heading followed by the
// submission table, restricted to the table markup this package emits.
func CampaignHTML(header string, fields []submission.Field) string {
	doc := "<h1>" + html.EscapeString(header) + "</h1>" + Table(fields)
	return policy().Sanitize(doc)
}
