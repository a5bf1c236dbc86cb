package forecast

// Display strings used when a value cannot be rendered
const (
	InvalidDate   = "Invalid Date"
	HeadlineError = "Error in displaying headline"
)

// Projected is the renderable summary of a forecast payload
type Projected struct {
	Days     []DaySummary    `json:"days"`
	Headline HeadlineSummary `json:"headline"`
}

// IsEmpty reports whether there is nothing to render
func (p Projected) IsEmpty() bool {
	return len(p.Days) == 0 && p.Headline.IsEmpty()
}

// DaySummary is one forecast day. Nil fields were absent from the payload.
type DaySummary struct {
	Index           int      `json:"index"`
	Date            string   `json:"date"`
	DayIconPhrase   *string  `json:"dayIconPhrase,omitempty"`
	NightIconPhrase *string  `json:"nightIconPhrase,omitempty"`
	TempMax         *float64 `json:"tempMax,omitempty"`
	TempMin         *float64 `json:"tempMin,omitempty"`
	TempUnit        string   `json:"tempUnit,omitempty"`
}

// HeadlineSummary is the advisory accompanying the daily forecasts.
// Err is set instead of the other fields when a headline date is malformed.
type HeadlineSummary struct {
	Category      *string `json:"category,omitempty"`
	EffectiveDate *string `json:"effectiveDate,omitempty"`
	EndDate       *string `json:"endDate,omitempty"`
	Severity      *int    `json:"severity,omitempty"`
	Text          *string `json:"text,omitempty"`
	Err           string  `json:"error,omitempty"`
}

// IsEmpty reports whether the headline has no content and no error
func (h HeadlineSummary) IsEmpty() bool {
	return h.Category == nil && h.EffectiveDate == nil && h.EndDate == nil &&
		h.Severity == nil && h.Text == nil && h.Err == ""
}
