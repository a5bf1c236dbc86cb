package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerRoutes sets up all API endpoints
func (app *App) registerRoutes() {
	// Health check endpoint
	app.router.GET("/ping", app.handlePing)
	app.router.GET("/metrics", gin.WrapH(app.metrics.Handler()))

	// Geography endpoints
	app.router.GET("/continents", app.handleContinents)
	app.router.POST("/country_response", app.handleCountries)
	app.router.POST("/province_response", app.handleProvinces)

	// Forecast endpoints
	app.router.POST("/weather-forecast", app.handleWeatherForecast)

	// Swagger documentation
	app.router.GET("/swagger/*any", func(c *gin.Context) {
		path := c.Param("any")
		if path == "/" {
			c.Redirect(301, "/swagger/index.html")
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}
