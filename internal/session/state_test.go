package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weather-picker/internal/types"
)

func TestState_SetContinent(t *testing.T) {
	tests := []struct {
		name      string
		prepare   func(*State)
		continent string
		want      Trigger
		validate  func(*testing.T, Snapshot)
	}{
		{
			name:      "first continent triggers a country fetch",
			continent: "EUR",
			want:      Trigger{Kind: FetchCountries, Key: "EUR"},
		},
		{
			name:      "empty continent never triggers",
			continent: "",
			want:      Trigger{},
		},
		{
			name: "same continent is a no-op",
			prepare: func(s *State) {
				s.SetContinent("EUR")
				s.ApplyCountries("EUR", OptionList{"France"}, DiscardSuperseded)
				s.SetCountry("France")
			},
			continent: "EUR",
			want:      Trigger{},
			validate: func(t *testing.T, snap Snapshot) {
				assert.Equal(t, "France", snap.Selection.Country)
				assert.Equal(t, OptionList{"France"}, snap.Countries)
			},
		},
		{
			name: "changing continent clears every dependent field at once",
			prepare: func(s *State) {
				s.SetContinent("EUR")
				s.ApplyCountries("EUR", OptionList{"France"}, DiscardSuperseded)
				s.SetCountry("France")
				s.ApplyProvinces("France", OptionList{"Île-de-France"}, DiscardSuperseded)
				s.SetProvince("Île-de-France")
			},
			continent: "ASI",
			want:      Trigger{Kind: FetchCountries, Key: "ASI"},
			validate: func(t *testing.T, snap Snapshot) {
				assert.Equal(t, types.Selection{Continent: "ASI"}, snap.Selection)
				assert.Nil(t, snap.Countries)
				assert.Nil(t, snap.Provinces)
			},
		},
		{
			name: "clearing continent clears dependents without a fetch",
			prepare: func(s *State) {
				s.SetContinent("EUR")
				s.SetCountry("France")
			},
			continent: "",
			want:      Trigger{},
			validate: func(t *testing.T, snap Snapshot) {
				assert.Equal(t, types.Selection{}, snap.Selection)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			if tt.prepare != nil {
				tt.prepare(s)
			}

			got := s.SetContinent(tt.continent)

			assert.Equal(t, tt.want, got)
			if tt.validate != nil {
				tt.validate(t, s.Snapshot())
			}
		})
	}
}

func TestState_SetCountry(t *testing.T) {
	s := NewState()
	s.SetContinent("EUR")
	s.ApplyCountries("EUR", OptionList{"France", "Spain"}, DiscardSuperseded)

	assert.Equal(t, Trigger{Kind: FetchProvinces, Key: "France"}, s.SetCountry("France"))

	s.ApplyProvinces("France", OptionList{"Bretagne"}, DiscardSuperseded)
	s.SetProvince("Bretagne")

	assert.Equal(t, Trigger{Kind: FetchProvinces, Key: "Spain"}, s.SetCountry("Spain"))
	snap := s.Snapshot()
	assert.Equal(t, types.Selection{Continent: "EUR", Country: "Spain"}, snap.Selection)
	assert.Equal(t, OptionList{"France", "Spain"}, snap.Countries, "country list belongs to the continent")
	assert.Nil(t, snap.Provinces)

	assert.True(t, s.SetCountry("Spain").IsZero())
	assert.True(t, s.SetCountry("").IsZero())
	assert.Nil(t, s.Snapshot().Provinces)
}

func TestState_SetProvinceNeverTriggers(t *testing.T) {
	s := NewState()
	s.SetContinent("EUR")
	s.SetCountry("France")

	for _, province := range []string{"Bretagne", "Normandie", "", "Bretagne"} {
		assert.True(t, s.SetProvince(province).IsZero())
	}
	assert.Equal(t, "Bretagne", s.Selection().Province)
}

func TestState_ApplyReplacesWholesale(t *testing.T) {
	s := NewState()
	s.SetContinent("EUR")

	assert.True(t, s.ApplyCountries("EUR", OptionList{"France", "Spain"}, DiscardSuperseded))
	assert.True(t, s.ApplyCountries("EUR", OptionList{"Italy"}, DiscardSuperseded))

	assert.Equal(t, OptionList{"Italy"}, s.Snapshot().Countries)
}

func TestState_ApplyStalePolicy(t *testing.T) {
	t.Run("discard superseded", func(t *testing.T) {
		s := NewState()
		s.SetContinent("EUR")
		s.SetContinent("ASI")

		assert.False(t, s.ApplyCountries("EUR", OptionList{"France"}, DiscardSuperseded))
		assert.Nil(t, s.Snapshot().Countries)

		s.SetCountry("Japan")
		assert.False(t, s.ApplyProvinces("China", OptionList{"Beijing"}, DiscardSuperseded))
		assert.Nil(t, s.Snapshot().Provinces)
	})

	t.Run("last write wins", func(t *testing.T) {
		s := NewState()
		s.SetContinent("EUR")
		s.SetContinent("ASI")

		assert.True(t, s.ApplyCountries("ASI", OptionList{"Japan"}, LastWriteWins))
		assert.True(t, s.ApplyCountries("EUR", OptionList{"France"}, LastWriteWins))
		assert.Equal(t, OptionList{"France"}, s.Snapshot().Countries)
	})
}

func TestState_SnapshotIsACopy(t *testing.T) {
	s := NewState()
	s.SetContinent("EUR")
	list := OptionList{"France"}
	s.ApplyCountries("EUR", list, DiscardSuperseded)

	list[0] = "Mutated"
	snap := s.Snapshot()
	snap.Countries[0] = "Also mutated"

	assert.Equal(t, OptionList{"France"}, s.Snapshot().Countries)
}

func TestFetchKind_String(t *testing.T) {
	assert.Equal(t, "countries", FetchCountries.String())
	assert.Equal(t, "provinces", FetchProvinces.String())
	assert.Equal(t, "none", FetchNone.String())
}
