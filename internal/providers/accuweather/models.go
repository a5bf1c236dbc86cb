package accuweather

// Country is one record of the locations/v1/countries/{region} listing
type Country struct {
	ID            string `json:"ID"`
	LocalizedName string `json:"LocalizedName"`
	EnglishName   string `json:"EnglishName"`
}

// AdminArea is one first-level administrative area of a country
type AdminArea struct {
	ID            string `json:"ID"`
	LocalizedName string `json:"LocalizedName"`
	EnglishName   string `json:"EnglishName"`
	CountryID     string `json:"CountryID"`
	Level         int    `json:"Level"`
}

// City is one result of a city search. Only the location key is needed downstream.
type City struct {
	Key           string `json:"Key"`
	LocalizedName string `json:"LocalizedName"`
	EnglishName   string `json:"EnglishName"`
}
