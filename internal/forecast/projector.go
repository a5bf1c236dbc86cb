// Package forecast projects raw daily forecast payloads into display summaries.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// DisplayDateLayout renders dates as "Mon Jan 01 2024" regardless of locale
const DisplayDateLayout = "Mon Jan 02 2006"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var errInvalidDate = errors.New("invalid date")

// Project turns a forecast payload into day summaries and a headline.
// Payloads that are absent or not JSON objects project to an empty result;
// missing optional fields are left nil rather than dropping entries.
func Project(payload []byte) Projected {
	empty := Projected{Days: []DaySummary{}}

	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return empty
	}

	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return empty
	}

	return Projected{
		Days:     projectDays(root.Get("DailyForecasts")),
		Headline: projectHeadline(root.Get("Headline")),
	}
}

func projectDays(daily gjson.Result) []DaySummary {
	if !daily.IsArray() {
		return []DaySummary{}
	}

	entries := daily.Array()
	days := make([]DaySummary, 0, len(entries))
	for i, entry := range entries {
		date, err := FormatDate(entry.Get("Date").String())
		if err != nil {
			date = InvalidDate
		}

		day := DaySummary{
			Index:           i + 1,
			Date:            date,
			DayIconPhrase:   optString(entry.Get("Day.IconPhrase")),
			NightIconPhrase: optString(entry.Get("Night.IconPhrase")),
			TempMax:         optNumber(entry.Get("Temperature.Maximum.Value")),
			TempMin:         optNumber(entry.Get("Temperature.Minimum.Value")),
		}
		if unit := entry.Get("Temperature.Maximum.Unit"); unit.Type == gjson.String {
			day.TempUnit = unit.Str
		}

		days = append(days, day)
	}

	return days
}

func projectHeadline(headline gjson.Result) HeadlineSummary {
	if !headline.IsObject() {
		return HeadlineSummary{}
	}

	effective, err := optDate(headline.Get("EffectiveDate"))
	if err != nil {
		return HeadlineSummary{Err: HeadlineError}
	}
	end, err := optDate(headline.Get("EndDate"))
	if err != nil {
		return HeadlineSummary{Err: HeadlineError}
	}

	return HeadlineSummary{
		Category:      optString(headline.Get("Category")),
		EffectiveDate: effective,
		EndDate:       end,
		Severity:      optInt(headline.Get("Severity")),
		Text:          optString(headline.Get("Text")),
	}
}

// FormatDate parses an ISO-8601 date or timestamp and renders the calendar
// date as written, keeping the payload's own offset.
func FormatDate(raw string) (string, error) {
	if raw == "" {
		return "", errInvalidDate
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DisplayDateLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", errInvalidDate, raw)
}

func optDate(r gjson.Result) (*string, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}

	formatted, err := FormatDate(r.String())
	if err != nil {
		return nil, err
	}
	return &formatted, nil
}

func optString(r gjson.Result) *string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		s := r.String()
		return &s
	default:
		return nil
	}
}

func optNumber(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	f := r.Float()
	return &f
}

func optInt(r gjson.Result) *int {
	if r.Type != gjson.Number {
		return nil
	}
	i := int(r.Int())
	return &i
}
