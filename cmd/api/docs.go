package main

// @title Weather Picker API
// @version 1.0
// @description Geography option lists and AccuWeather daily forecasts for the weather picker client.
// @BasePath /
