// Package etocalc implements the FAO-56 step-by-step Penman-Monteith
// reference evapotranspiration calculation and the zone runtime derived
// from it. All functions are pure; callers supply measurements in the
// units documented per function.
package etocalc

import (
	"fmt"
	"math"
)

const (
	// SolarConstant is the solar constant in MJ m-2 min-1.
	SolarConstant = 0.0820

	// StefanBoltzmann is the Stefan-Boltzmann constant in MJ K-4 m-2 day-1.
	StefanBoltzmann = 0.000000004903

	// WattsToMJPerDay converts W/m² to MJ/m²/day.
	WattsToMJPerDay = 0.0864

	kelvinOffset = 273.15
)

// CelsiusToKelvin converts a temperature in °C to Kelvin.
func CelsiusToKelvin(celsius float64) float64 {
	return celsius + kelvinOffset
}

// DegToRad converts angular degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * (math.Pi / 180.0)
}

var (
	minLatitudeRad = DegToRad(-90)
	maxLatitudeRad = DegToRad(90)

	minSolarDeclRad = DegToRad(-23.5)
	maxSolarDeclRad = DegToRad(23.5)

	minSunsetHourAngleRad = 0.0
	maxSunsetHourAngleRad = DegToRad(180)
)

func checkDayOfYear(doy int) error {
	if doy < 1 || doy > 366 {
		return fmt.Errorf("day of year must be in range 1-366: %d", doy)
	}
	return nil
}

func checkLatitudeRad(latitude float64) error {
	if latitude < minLatitudeRad || latitude > maxLatitudeRad {
		return fmt.Errorf("latitude outside valid range %g to %g rad: %g",
			minLatitudeRad, maxLatitudeRad, latitude)
	}
	return nil
}

func checkSolarDeclRad(sd float64) error {
	if sd < minSolarDeclRad || sd > maxSolarDeclRad {
		return fmt.Errorf("solar declination outside valid range %g to %g rad: %g",
			minSolarDeclRad, maxSolarDeclRad, sd)
	}
	return nil
}

func checkSunsetHourAngleRad(sha float64) error {
	if sha < minSunsetHourAngleRad || sha > maxSunsetHourAngleRad {
		return fmt.Errorf("sunset hour angle outside valid range %g to %g rad: %g",
			minSunsetHourAngleRad, maxSunsetHourAngleRad, sha)
	}
	return nil
}

// WindSpeed2m converts a wind speed measured at the given height above
// ground to the equivalent speed at 2 m (step 3, eq. 7). Both speeds are
// in m/s, the height in m.
func WindSpeed2m(wind, height float64) float64 {
	return wind * 4.87 / math.Log(67.8*height-5.42)
}

// DeltaSVP estimates the slope of the saturation vapour pressure curve at
// the given air temperature in °C (step 4, eq. 9). Result in kPa/°C.
func DeltaSVP(t float64) float64 {
	tmp := 4098 * (0.6108 * math.Exp((17.27*t)/CelsiusToKelvin(t)))
	return tmp / math.Pow(CelsiusToKelvin(t), 2)
}

// AtmPressure estimates atmospheric pressure in kPa from the elevation
// above sea level in m (step 5, eq. 10).
func AtmPressure(elevation float64) float64 {
	tmp := (293.0 - (0.0065 * elevation)) / 293.0
	return math.Pow(tmp, 5.26) * 101.3
}

// PsyConst calculates the psychrometric constant in kPa/°C from the
// atmospheric pressure in kPa (step 6, eq. 11).
func PsyConst(atmosPres float64) float64 {
	return 0.000665 * atmosPres
}

// DeltaTerm calculates the delta term used by the radiation term
// (step 7, eq. 12).
func DeltaTerm(slope, psycho, windSpeed float64) float64 {
	return slope / (psycho*(1+0.34*windSpeed) + slope)
}

// PsiTerm calculates the psi term used by the wind term (step 8, eq. 13).
func PsiTerm(slope, psycho, windSpeed float64) float64 {
	return psycho / (slope + psycho*(1+0.34*windSpeed))
}

// TemperatureTerm calculates the temperature term used by the wind term
// from the mean daily temperature in °C and the 2 m wind speed in m/s
// (step 9, eq. 14).
func TemperatureTerm(meanTemp, windSpeed float64) float64 {
	return (900 / (meanTemp + 273)) * windSpeed
}

// SVPFromTemp estimates the saturation vapour pressure in kPa from an air
// temperature in °C (step 10, eq. 15-17).
func SVPFromTemp(t float64) float64 {
	return 0.6108 * math.Exp((17.27*t)/CelsiusToKelvin(t))
}

// EAFromRH derives the actual vapour pressure from a saturation vapour
// pressure and a relative humidity given as a fraction (step 11, eq. 19).
func EAFromRH(svp, humidity float64) float64 {
	return svp * humidity
}

// InvRelDistEarthSun calculates the inverse relative earth-sun distance
// for a day of the year (step 12, eq. 23).
func InvRelDistEarthSun(dayOfYear int) (float64, error) {
	if err := checkDayOfYear(dayOfYear); err != nil {
		return 0, err
	}
	return 1 + 0.033*math.Cos((2.0*math.Pi/365.0)*float64(dayOfYear)), nil
}

// SolarDeclination calculates the solar declination in radians for a day
// of the year (step 12, eq. 24).
func SolarDeclination(dayOfYear int) (float64, error) {
	if err := checkDayOfYear(dayOfYear); err != nil {
		return 0, err
	}
	return 0.409 * math.Sin((2.0*math.Pi/365.0)*float64(dayOfYear)-1.39), nil
}

// SunsetHourAngle calculates the sunset hour angle in radians from a
// latitude and solar declination, both in radians (step 14, eq. 26).
// Latitudes in the southern hemisphere are negative.
func SunsetHourAngle(latitude, solarDecl float64) (float64, error) {
	if err := checkLatitudeRad(latitude); err != nil {
		return 0, err
	}
	if err := checkSolarDeclRad(solarDecl); err != nil {
		return 0, err
	}

	cosSha := -math.Tan(latitude) * math.Tan(solarDecl)

	// cosSha outside [-1, 1] means 24 hours of daylight or darkness;
	// acos is only defined on that interval.
	return math.Acos(math.Min(math.Max(cosSha, -1.0), 1.0)), nil
}

// ExtraterrestrialRad estimates the daily extraterrestrial radiation in
// MJ/m²/day, the "top of the atmosphere" radiation (step 15, eq. 27).
func ExtraterrestrialRad(latitude, solarDecl, sha, ird float64) (float64, error) {
	if err := checkLatitudeRad(latitude); err != nil {
		return 0, err
	}
	if err := checkSolarDeclRad(solarDecl); err != nil {
		return 0, err
	}
	if err := checkSunsetHourAngleRad(sha); err != nil {
		return 0, err
	}

	tmp1 := (24.0 * 60.0) / math.Pi
	tmp2 := sha * math.Sin(latitude) * math.Sin(solarDecl)
	tmp3 := math.Cos(latitude) * math.Cos(solarDecl) * math.Sin(sha)
	return tmp1 * SolarConstant * ird * (tmp2 + tmp3), nil
}

// ClearSkyRad estimates clear sky radiation in MJ/m²/day from elevation
// and extraterrestrial radiation (step 16, eq. 28).
func ClearSkyRad(elevation, etRad float64) float64 {
	return (0.00002*elevation + 0.75) * etRad
}

// NetInSolarRad calculates net incoming shortwave radiation in MJ/m²/day
// given the gross incoming solar radiation and the crop albedo
// (step 17, eq. 29). The FAO reference crop albedo is 0.23.
func NetInSolarRad(solRad, albedo float64) float64 {
	return (1 - albedo) * solRad
}

// NetOutLWRad estimates net outgoing longwave radiation in MJ/m²/day
// (step 18, eq. 30). Temperatures are absolute (Kelvin); the Stefan-
// Boltzmann law is corrected for humidity and cloudiness.
func NetOutLWRad(tminK, tmaxK, solRad, csRad, avp float64) float64 {
	tmp1 := StefanBoltzmann * (math.Pow(tmaxK, 4) + math.Pow(tminK, 4)) / 2
	tmp2 := 0.34 - 0.14*math.Sqrt(avp)
	tmp3 := 1.35*(solRad/csRad) - 0.35
	return tmp1 * tmp2 * tmp3
}

// NetRad calculates net radiation as the difference between net shortwave
// and net longwave radiation (step 19, eq. 31).
func NetRad(netSolar, lwRad float64) float64 {
	return netSolar - lwRad
}

// NetRadEquivalent expresses net radiation as equivalent evaporation in
// mm (step 19, eq. 32).
func NetRadEquivalent(netRad float64) float64 {
	return netRad * 0.408
}

// RadiationTerm calculates the radiation term of the final ETo equation
// in mm/day (eq. 33).
func RadiationTerm(deltaTerm, netRad float64) float64 {
	return deltaTerm * netRad
}

// WindTerm calculates the wind term of the final ETo equation in mm/day
// (eq. 34).
func WindTerm(psiTerm, tempTerm, actualVP, meanSatVP float64) float64 {
	return psiTerm * tempTerm * (meanSatVP - actualVP)
}

// Combine sums the wind and radiation terms into the final reference
// evapotranspiration value in mm/day, rounded to one decimal (eq. 35).
func Combine(windTerm, radTerm float64) float64 {
	return math.Round((windTerm+radTerm)*10) / 10
}

// Weather carries one day's measurements for the ETo pipeline.
type Weather struct {
	TempMinC    float64 // daily minimum temperature, °C
	TempMaxC    float64 // daily maximum temperature, °C
	HumidityMin float64 // daily minimum relative humidity, fraction 0-1
	HumidityMax float64 // daily maximum relative humidity, fraction 0-1
	WindSpeed   float64 // wind speed, m/s
	WindHeight  float64 // measurement height of WindSpeed, m
	SolarRad    float64 // mean solar radiation, W/m²
	Albedo      float64 // crop albedo, fraction
	LatitudeDeg float64 // site latitude, degrees
	Elevation   float64 // site elevation above sea level, m
	DayOfYear   int
}

// ETo runs the full FAO-56 step-by-step pipeline and returns the
// reference evapotranspiration in mm/day.
func ETo(w Weather) (float64, error) {
	meanTemp := (w.TempMinC + w.TempMaxC) / 2
	solRad := w.SolarRad * WattsToMJPerDay
	wind2m := WindSpeed2m(w.WindSpeed, w.WindHeight)

	slope := DeltaSVP(meanTemp)
	psycho := PsyConst(AtmPressure(w.Elevation))

	dt := DeltaTerm(slope, psycho, wind2m)
	pt := PsiTerm(slope, psycho, wind2m)
	tt := TemperatureTerm(meanTemp, wind2m)

	svpMax := SVPFromTemp(w.TempMaxC)
	svpMin := SVPFromTemp(w.TempMinC)
	svpMean := (svpMax + svpMin) / 2

	// Daily extremes pair up inversely: the day's maximum temperature
	// coincides with its minimum humidity and vice versa.
	avp := (EAFromRH(svpMax, w.HumidityMin) + EAFromRH(svpMin, w.HumidityMax)) / 2

	ird, err := InvRelDistEarthSun(w.DayOfYear)
	if err != nil {
		return 0, err
	}
	solarDecl, err := SolarDeclination(w.DayOfYear)
	if err != nil {
		return 0, err
	}

	latitude := DegToRad(w.LatitudeDeg)
	sha, err := SunsetHourAngle(latitude, solarDecl)
	if err != nil {
		return 0, err
	}
	etRad, err := ExtraterrestrialRad(latitude, solarDecl, sha, ird)
	if err != nil {
		return 0, err
	}

	csRad := ClearSkyRad(w.Elevation, etRad)
	netShort := NetInSolarRad(solRad, w.Albedo)
	netLong := NetOutLWRad(CelsiusToKelvin(w.TempMinC), CelsiusToKelvin(w.TempMaxC),
		solRad, csRad, avp)
	netRad := NetRadEquivalent(NetRad(netShort, netLong))

	return Combine(WindTerm(pt, tt, avp, svpMean), RadiationTerm(dt, netRad)), nil
}
