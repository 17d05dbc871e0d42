package etocalc

import (
	"math"
	"time"
)

// RuntimeParams are the per-zone knobs applied to the rainfall deficit.
type RuntimeParams struct {
	ThroughputMMPerHour float64 // zone water output rate, mm/h
	ScalePercent        float64 // percentage adjustment, 1-100
	MaxMinutes          int     // upper bound on the clamped runtime
}

// RuntimeResult is the outcome of a zone runtime calculation. Raw is the
// scaled runtime before the maximum-runtime clamp; Runtime is the value
// after clamping.
type RuntimeResult struct {
	ETo     float64 // reference evapotranspiration, mm
	Rain    float64 // rainfall, mm
	Raw     time.Duration
	Runtime time.Duration
}

// Runtime computes how long a zone has to water to make up the difference
// between the day's rainfall and its reference evapotranspiration, both
// in mm. Rainfall at or above ETo needs no watering.
func Runtime(eto, rain float64, p RuntimeParams) RuntimeResult {
	res := RuntimeResult{ETo: eto, Rain: rain}

	delta := rain - eto
	if delta >= 0 {
		return res
	}

	reqd := math.Abs(delta) / p.ThroughputMMPerHour * 60 * 60
	seconds := math.Round(reqd * p.ScalePercent / 100)

	res.Raw = time.Duration(seconds) * time.Second
	res.Runtime = res.Raw

	if max := time.Duration(p.MaxMinutes) * time.Minute; res.Runtime > max {
		res.Runtime = max
	}

	return res
}
