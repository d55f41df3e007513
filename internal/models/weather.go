package models

// WeatherDayForecast is one day of the reduced 5-day forecast.
type WeatherDayForecast struct {
	Date        string  `json:"date"` // e.g. "Mon, Jan 2"
	Temp        int     `json:"temp"` // rounded °C
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Rainfall    float64 `json:"rainfall"` // mm over the 3h slot
}
