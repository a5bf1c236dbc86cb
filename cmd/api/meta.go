package main

import (
	"net/http"

	"weather-picker/internal/types"

	"github.com/gin-gonic/gin"
)

// PingResponse represents the response for the ping endpoint
type PingResponse struct {
	Message string `json:"message" example:"pong"` // Response message
}

// handlePing godoc
// @Summary Ping health check
// @Description Check if the API is running
// @Tags health
// @Produce json
// @Success 200 {object} PingResponse
// @Router /ping [get]
func (app *App) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}

// handleContinents godoc
// @Summary List continents
// @Description Return the continent region codes accepted by /country_response with their display names
// @Tags location
// @Produce json
// @Success 200 {array} types.Continent
// @Router /continents [get]
func (app *App) handleContinents(c *gin.Context) {
	c.JSON(http.StatusOK, types.Continents())
}
