package etocalc

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRuntime(t *testing.T) {
	params := RuntimeParams{
		ThroughputMMPerHour: 10,
		ScalePercent:        100,
		MaxMinutes:          60,
	}

	for _, tc := range []struct {
		name   string
		eto    float64
		rain   float64
		params RuntimeParams
		want   RuntimeResult
	}{
		{
			name:   "deficit of five millimeters",
			eto:    5,
			rain:   0,
			params: params,
			want: RuntimeResult{
				ETo:     5,
				Runtime: 30 * time.Minute,
				Raw:     30 * time.Minute,
			},
		},
		{
			name: "deficit scaled to half",
			eto:  5,
			rain: 0,
			params: RuntimeParams{
				ThroughputMMPerHour: 10,
				ScalePercent:        50,
				MaxMinutes:          60,
			},
			want: RuntimeResult{
				ETo:     5,
				Runtime: 15 * time.Minute,
				Raw:     15 * time.Minute,
			},
		},
		{
			name: "clamped to max runtime",
			eto:  5,
			rain: 0,
			params: RuntimeParams{
				ThroughputMMPerHour: 10,
				ScalePercent:        100,
				MaxMinutes:          10,
			},
			want: RuntimeResult{
				ETo:     5,
				Runtime: 10 * time.Minute,
				Raw:     30 * time.Minute,
			},
		},
		{
			name:   "partial rain",
			eto:    5,
			rain:   3,
			params: params,
			want: RuntimeResult{
				ETo:     5,
				Rain:    3,
				Runtime: 12 * time.Minute,
				Raw:     12 * time.Minute,
			},
		},
		{
			name:   "enough rain",
			eto:    5,
			rain:   5,
			params: params,
			want:   RuntimeResult{ETo: 5, Rain: 5},
		},
		{
			name:   "more than enough rain",
			eto:    2,
			rain:   10,
			params: params,
			want:   RuntimeResult{ETo: 2, Rain: 10},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Runtime(tc.eto, tc.rain, tc.params)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Runtime(%g, %g, %+v) diff (-want +got):\n%s",
					tc.eto, tc.rain, tc.params, diff)
			}
		})
	}
}
