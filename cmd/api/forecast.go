package main

import (
	"errors"
	"net/http"

	"weather-picker/internal/location"
	"weather-picker/internal/providers/accuweather"
	"weather-picker/internal/sentinel"
	"weather-picker/internal/types"

	"github.com/gin-gonic/gin"
)

// InputError is returned with status 200 when the selection is incomplete
type InputError struct {
	InputError string `json:"InputError" example:"continent, or country or province data is missing"`
}

// handleWeatherForecast godoc
// @Summary Get the daily forecast for a selection
// @Description Resolve continent, country and province to an AccuWeather location and return its daily forecast document unmodified.
// @Tags forecast
// @Accept json
// @Produce json
// @Param request body types.Selection true "Complete selection"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /weather-forecast [post]
func (app *App) handleWeatherForecast(c *gin.Context) {
	var input types.Selection
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := app.weatherService.GetDailyForecast(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, location.ErrMissingSelection):
			c.JSON(http.StatusOK, InputError{InputError: location.ErrMissingSelection.Error()})
		case errors.Is(err, location.ErrInvalidRegion):
			c.JSON(http.StatusOK, RegionError{ValueError: "Region code is not valid", RegionCode: input.Continent})
		case errors.Is(err, location.ErrUnknownCountry):
			c.JSON(http.StatusOK, CountryError{ValueError: "Country is not valid", Country: input.Country})
		default:
			app.respondUpstreamError(c, err, "province", input.Province)
		}
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// respondUpstreamError relays AccuWeather failures to the client. Upstream
// answers become a sentinel object with status 200; transport failures are 502.
func (app *App) respondUpstreamError(c *gin.Context, err error, field, value string) {
	var apiErr *accuweather.APIError
	switch {
	case errors.As(err, &apiErr):
		app.logger.Warn("upstream returned error",
			"route", c.FullPath(),
			field, value,
			"status_code", apiErr.StatusCode,
		)
		app.metrics.SentinelResponse(c.FullPath())
		c.JSON(http.StatusOK, sentinel.Wrap(apiErr.Body))
	case errors.Is(err, accuweather.ErrNoLocation):
		app.logger.Warn("no location for selection", "route", c.FullPath(), field, value)
		app.metrics.SentinelResponse(c.FullPath())
		c.JSON(http.StatusOK, sentinel.Wrap([]byte(err.Error())))
	default:
		app.logger.Error("upstream request failed",
			"route", c.FullPath(),
			field, value,
			"error", err,
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to reach the weather service"})
	}
}
