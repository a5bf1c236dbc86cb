package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"weather-picker/internal/forecast"
)

const placeholder = "-"

var (
	headlineStyle = lipgloss.NewStyle().Bold(true)
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderForecast draws the projected headline followed by one row per day
func renderForecast(p forecast.Projected) string {
	if p.IsEmpty() {
		return mutedStyle.Render("Choose a continent, country and province to see the forecast.")
	}

	var b strings.Builder
	b.WriteString(renderHeadline(p.Headline))
	if len(p.Days) > 0 {
		b.WriteString("\n")
	}
	for _, day := range p.Days {
		b.WriteString("\n")
		b.WriteString(renderDay(day))
	}
	return b.String()
}

func renderHeadline(h forecast.HeadlineSummary) string {
	if h.Err != "" {
		return errorStyle.Render(h.Err)
	}
	if h.IsEmpty() {
		return mutedStyle.Render("No headline")
	}

	var lines []string
	if h.Text != nil {
		lines = append(lines, headlineStyle.Render(*h.Text))
	}
	meta := fmt.Sprintf("Category: %s  Severity: %s", str(h.Category), intStr(h.Severity))
	lines = append(lines, mutedStyle.Render(meta))
	if h.EffectiveDate != nil || h.EndDate != nil {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("From %s to %s", str(h.EffectiveDate), str(h.EndDate))))
	}
	return strings.Join(lines, "\n")
}

func renderDay(d forecast.DaySummary) string {
	temps := fmt.Sprintf("%s / %s", temp(d.TempMax, d.TempUnit), temp(d.TempMin, d.TempUnit))
	return fmt.Sprintf("%s  Day: %s  Night: %s  %s",
		dateStyle.Render(d.Date),
		str(d.DayIconPhrase),
		str(d.NightIconPhrase),
		temps,
	)
}

func str(v *string) string {
	if v == nil || *v == "" {
		return placeholder
	}
	return *v
}

func intStr(v *int) string {
	if v == nil {
		return placeholder
	}
	return strconv.Itoa(*v)
}

func temp(v *float64, unit string) string {
	if v == nil {
		return placeholder
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if unit != "" {
		s += "°" + unit
	}
	return s
}
