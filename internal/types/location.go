package types

// Selection is the continent/country/province triple chosen by the user.
// An empty field means no selection at that level.
type Selection struct {
	Continent string `json:"continent" example:"EUR"`
	Country   string `json:"country" example:"France"`
	Province  string `json:"province" example:"Île-de-France"`
}

// Complete reports whether every level has been chosen
func (s Selection) Complete() bool {
	return s.Continent != "" && s.Country != "" && s.Province != ""
}

// CountriesRequest is the body of a country list request
type CountriesRequest struct {
	Continent string `json:"continent" example:"EUR"`
}

// ProvincesRequest is the body of a province list request
type ProvincesRequest struct {
	Country string `json:"country" example:"France"`
}
