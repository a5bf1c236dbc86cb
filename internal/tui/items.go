package tui

import (
	"github.com/charmbracelet/bubbles/v2/list"

	"weather-picker/internal/session"
	"weather-picker/internal/types"
)

// option is a selectable list row. value is what the session stores.
type option struct {
	value string
	label string
}

func (o option) Title() string       { return o.label }
func (o option) Description() string { return o.value }
func (o option) FilterValue() string { return o.label }

func continentItems() []list.Item {
	continents := types.Continents()
	items := make([]list.Item, 0, len(continents))
	for _, c := range continents {
		items = append(items, option{value: string(c.Code), label: c.Name})
	}
	return items
}

func optionItems(opts session.OptionList) []list.Item {
	items := make([]list.Item, 0, len(opts))
	for _, o := range opts {
		items = append(items, option{value: o, label: o})
	}
	return items
}

func indexForValue(items []list.Item, value string) int {
	for i, it := range items {
		if o, ok := it.(option); ok && o.value == value {
			return i
		}
	}
	return -1
}
