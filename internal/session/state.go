// Package session holds the user's cascading continent/country/province
// selection and orchestrates the dependent fetches it triggers.
package session

import (
	"slices"
	"sync"

	"weather-picker/internal/types"
)

// FetchKind identifies which dependent option list a trigger refreshes
type FetchKind int

const (
	FetchNone FetchKind = iota
	FetchCountries
	FetchProvinces
)

func (k FetchKind) String() string {
	switch k {
	case FetchCountries:
		return "countries"
	case FetchProvinces:
		return "provinces"
	default:
		return "none"
	}
}

// Trigger describes the fetch a selection change requires. Key is the parent
// value the resulting list belongs to.
type Trigger struct {
	Kind FetchKind
	Key  string
}

// IsZero reports whether no fetch is required
func (t Trigger) IsZero() bool {
	return t.Kind == FetchNone
}

// OptionList is an ordered set of choices for one level. Nil means absent.
type OptionList []string

// StalePolicy decides what happens to a response whose key no longer matches
// the current selection
type StalePolicy int

const (
	// DiscardSuperseded drops responses for keys the user has moved away from
	DiscardSuperseded StalePolicy = iota
	// LastWriteWins stores whichever response arrives last
	LastWriteWins
)

// Snapshot is a copy of the state safe to read without locking
type Snapshot struct {
	Selection types.Selection
	Countries OptionList
	Provinces OptionList
}

// State owns the selection and both dependent option lists. Every mutation
// goes through a named operation.
type State struct {
	mu        sync.Mutex
	selection types.Selection
	countries OptionList
	provinces OptionList
}

// NewState creates an empty selection with no option lists
func NewState() *State {
	return &State{}
}

// SetContinent replaces the continent and clears country, province and both
// lists in the same transition. A new non-empty continent triggers a country fetch.
func (s *State) SetContinent(continent string) Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if continent == s.selection.Continent {
		return Trigger{}
	}

	s.selection = types.Selection{Continent: continent}
	s.countries = nil
	s.provinces = nil

	if continent == "" {
		return Trigger{}
	}
	return Trigger{Kind: FetchCountries, Key: continent}
}

// SetCountry replaces the country and clears the province and its list in the
// same transition. A new non-empty country triggers a province fetch.
func (s *State) SetCountry(country string) Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if country == s.selection.Country {
		return Trigger{}
	}

	s.selection.Country = country
	s.selection.Province = ""
	s.provinces = nil

	if country == "" {
		return Trigger{}
	}
	return Trigger{Kind: FetchProvinces, Key: country}
}

// SetProvince replaces the province. It never triggers a fetch.
func (s *State) SetProvince(province string) Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.Province = province
	return Trigger{}
}

// ApplyCountries replaces the country list fetched for continent and reports
// whether it was stored
func (s *State) ApplyCountries(continent string, list OptionList, policy StalePolicy) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if policy == DiscardSuperseded && continent != s.selection.Continent {
		return false
	}
	s.countries = clone(list)
	return true
}

// ApplyProvinces replaces the province list fetched for country and reports
// whether it was stored
func (s *State) ApplyProvinces(country string, list OptionList, policy StalePolicy) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if policy == DiscardSuperseded && country != s.selection.Country {
		return false
	}
	s.provinces = clone(list)
	return true
}

// Selection returns the current selection
func (s *State) Selection() types.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection
}

// Snapshot returns a copy of the selection and option lists
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Selection: s.selection,
		Countries: clone(s.countries),
		Provinces: clone(s.provinces),
	}
}

func clone(list OptionList) OptionList {
	if list == nil {
		return nil
	}
	return slices.Clone(list)
}
