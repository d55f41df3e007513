package service

import (
	"fmt"
	"strconv"

	"agrisense/internal/models"
)

const (
	DefaultLanguage = "en-US"

	missingReading = "n/a"
	noForecast     = "Not available"
)

// SupportedLanguages lists the assistant and speech languages.
var SupportedLanguages = []models.Language{
	{Code: "en-US", Name: "English"},
	{Code: "hi-IN", Name: "हिंदी (Hindi)"},
	{Code: "pa-IN", Name: "ਪੰਜਾਬੀ (Punjabi)"},
	{Code: "mr-IN", Name: "मराठी (Marathi)"},
	{Code: "ta-IN", Name: "தமிழ் (Tamil)"},
	{Code: "te-IN", Name: "తెలుగు (Telugu)"},
	{Code: "bn-IN", Name: "বাংলা (Bengali)"},
	{Code: "gu-IN", Name: "ગુજરાતી (Gujarati)"},
}

// LanguageName resolves a code to its display name, English when unknown.
func LanguageName(code string) string {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l.Name
		}
	}
	return "English"
}

// IsSupportedLanguage reports whether code is in SupportedLanguages.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// ComposePrompt builds the grounding text sent as the first turn of every
// assistant request.
func ComposePrompt(lang string, s *models.SensorState, forecast []models.WeatherDayForecast) string {
	var temp, humidity, soil *float64
	if s != nil {
		temp, humidity, soil = s.Temperature, s.Humidity, s.SoilPercent
	}

	weather := noForecast
	if len(forecast) > 0 {
		weather = fmt.Sprintf("%d°C, %s", forecast[0].Temp, forecast[0].Description)
	}

	return fmt.Sprintf(
		"You are an expert agricultural AI assistant helping farmers. Respond in %s language.\n"+
			"Current sensor data: Temperature %s°C, Humidity %s%%, Soil Moisture %s%%.\n"+
			"Weather forecast: %s.\n"+
			"Provide practical, actionable advice for Indian farming conditions. Keep responses concise and farmer-friendly.",
		LanguageName(lang), reading(temp), reading(humidity), reading(soil), weather,
	)
}

func reading(v *float64) string {
	if v == nil {
		return missingReading
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
