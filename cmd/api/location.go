package main

import (
	"errors"
	"net/http"

	"weather-picker/internal/location"
	"weather-picker/internal/types"

	"github.com/gin-gonic/gin"
)

// RegionError is returned with status 200 for an unknown continent code
type RegionError struct {
	ValueError string `json:"ValueError" example:"Region code is not valid"`
	RegionCode string `json:"Region_Code" example:"XYZ"`
}

// CountryError is returned with status 200 for a country absent from every fetched listing
type CountryError struct {
	ValueError string `json:"ValueError" example:"Country is not valid"`
	Country    string `json:"Country" example:"Atlantis"`
}

// handleCountries godoc
// @Summary List countries of a continent
// @Description Return the English names of every country in the given continent region code. Upstream failures are reported inside a 200 response under the ACCUWEATHER_ERROR_RESPONSE key.
// @Tags location
// @Accept json
// @Produce json
// @Param request body types.CountriesRequest true "Continent region code"
// @Success 200 {array} string
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /country_response [post]
func (app *App) handleCountries(c *gin.Context) {
	var input types.CountriesRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	countries, err := app.locationService.Countries(c.Request.Context(), input.Continent)
	if err != nil {
		if errors.Is(err, location.ErrInvalidRegion) {
			c.JSON(http.StatusOK, RegionError{
				ValueError: "Region code is not valid",
				RegionCode: input.Continent,
			})
			return
		}
		app.respondUpstreamError(c, err, "continent", input.Continent)
		return
	}

	c.JSON(http.StatusOK, countries)
}

// handleProvinces godoc
// @Summary List provinces of a country
// @Description Return the English names of the administrative areas of a country previously listed by /country_response.
// @Tags location
// @Accept json
// @Produce json
// @Param request body types.ProvincesRequest true "Country name"
// @Success 200 {array} string
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /province_response [post]
func (app *App) handleProvinces(c *gin.Context) {
	var input types.ProvincesRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provinces, err := app.locationService.Provinces(c.Request.Context(), input.Country)
	if err != nil {
		if errors.Is(err, location.ErrUnknownCountry) || errors.Is(err, location.ErrMissingSelection) {
			c.JSON(http.StatusOK, CountryError{
				ValueError: "Country is not valid",
				Country:    input.Country,
			})
			return
		}
		app.respondUpstreamError(c, err, "country", input.Country)
		return
	}

	c.JSON(http.StatusOK, provinces)
}
