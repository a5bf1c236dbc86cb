package types

import "sort"

// ContinentCode is an AccuWeather region code
type ContinentCode string

// Continent code constants
const (
	Africa                        ContinentCode = "AFR"
	Antarctica                    ContinentCode = "ANT"
	Arctic                        ContinentCode = "ARC"
	Asia                          ContinentCode = "ASI"
	CentralAmericaAndTheCaribbean ContinentCode = "CAC"
	Europe                        ContinentCode = "EUR"
	MiddleEast                    ContinentCode = "MEA"
	NorthAmerica                  ContinentCode = "NAM"
	Oceania                       ContinentCode = "OCN"
	SouthAmerica                  ContinentCode = "SAM"
)

// continentNames maps region codes to their display names
var continentNames = map[ContinentCode]string{
	Africa:                        "Africa",
	Antarctica:                    "Antarctica",
	Arctic:                        "Arctic",
	Asia:                          "Asia",
	CentralAmericaAndTheCaribbean: "Central America and the Caribbean",
	Europe:                        "Europe",
	MiddleEast:                    "Middle East",
	NorthAmerica:                  "North America",
	Oceania:                       "Oceania",
	SouthAmerica:                  "South America",
}

// Continent is a selectable region with its display name
type Continent struct {
	Code ContinentCode `json:"code" example:"EUR"`
	Name string        `json:"name" example:"Europe"`
}

// Continents returns every known region ordered by code
func Continents() []Continent {
	out := make([]Continent, 0, len(continentNames))
	for code, name := range continentNames {
		out = append(out, Continent{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// IsContinentCode reports whether code is a region AccuWeather accepts
func IsContinentCode(code string) bool {
	_, ok := continentNames[ContinentCode(code)]
	return ok
}

// ContinentName returns the display name for a region code, or the code itself if unknown
func ContinentName(code string) string {
	if name, ok := continentNames[ContinentCode(code)]; ok {
		return name
	}
	return code
}
