package service

import "agrisense/internal/models"

const (
	criticalSoilPercent = 30.0
	warningSoilPercent  = 50.0
	optimalSoilPercent  = 70.0
	hotTemperatureC     = 35.0

	highTempSuffix = " High temperature detected - water early morning or evening."
)

// Advise grades the irrigation need. It is a pure function of its inputs;
// humidity currently does not change the outcome.
func Advise(soil, temp, humidity float64, willRainSoon bool) models.Advice {
	var adv models.Advice
	switch {
	case soil < criticalSoilPercent:
		adv = models.Advice{Status: models.StatusCritical, Message: "Immediate irrigation required"}
		adv.Action = pick(willRainSoon, "Start irrigation now but expect rain soon", "Start irrigation immediately for 30-45 minutes")
	case soil < warningSoilPercent:
		adv = models.Advice{Status: models.StatusWarning, Message: "Irrigation recommended soon"}
		adv.Action = pick(willRainSoon, "Rain expected - monitor soil levels", "Schedule irrigation within 2-4 hours")
	case soil >= optimalSoilPercent:
		adv = models.Advice{Status: models.StatusGood, Message: "Soil moisture optimal", Action: "No irrigation needed. Monitor regularly."}
	default:
		adv = models.Advice{Status: models.StatusGood, Message: "Soil moisture adequate"}
		adv.Action = pick(willRainSoon, "Rain expected - skip irrigation", "Check again in 6-8 hours")
	}

	if temp > hotTemperatureC {
		adv.Action += highTempSuffix
	}
	return adv
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// AdviseFromState applies Advise to a snapshot. Missing readings count as 0,
// so a device that never reported soil moisture is graded critical.
func AdviseFromState(s *models.SensorState, forecast []models.WeatherDayForecast) models.Advice {
	var soil, temp, humidity float64
	if s != nil {
		soil = valueOrZero(s.SoilPercent)
		temp = valueOrZero(s.Temperature)
		humidity = valueOrZero(s.Humidity)
	}
	willRain := len(forecast) > 0 && forecast[0].Rainfall > 0
	return Advise(soil, temp, humidity, willRain)
}

// SoilStatus is the soil card grade: normal when unknown, critical below 30,
// warning below 50.
func SoilStatus(s *models.SensorState) models.AdviceStatus {
	if s == nil || s.SoilPercent == nil {
		return models.StatusNormal
	}
	switch soil := *s.SoilPercent; {
	case soil < criticalSoilPercent:
		return models.StatusCritical
	case soil < warningSoilPercent:
		return models.StatusWarning
	default:
		return models.StatusNormal
	}
}

// TemperatureStatus is the temperature card grade.
func TemperatureStatus(s *models.SensorState) models.AdviceStatus {
	if s != nil && s.Temperature != nil && *s.Temperature > hotTemperatureC {
		return models.StatusWarning
	}
	return models.StatusNormal
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
