package traveltime

import (
	"context"
	"math"
)

const (
	earthRadiusMeters = 6371000
	cityFactor        = 1.3
	speedKmh          = 40
)

// HaversineDistance returns the great-circle distance in metres.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Pow(math.Sin(dLng/2), 2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// EstimateMinutes converts a straight-line distance into driving minutes,
// rounded to 0.1.
func EstimateMinutes(distanceMeters float64) float64 {
	km := distanceMeters * cityFactor / 1000
	return roundTenth(km / speedKmh * 60)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func haversineEstimate(from, to Location) Estimate {
	d := HaversineDistance(from.Lat, from.Lng, to.Lat, to.Lng)
	return Estimate{
		Minutes:        EstimateMinutes(d),
		DistanceMeters: int(math.Round(d)),
		Source:         SourceDummy,
	}
}

// HaversineEstimator estimates travel from straight-line distance. It never
// fails and makes no network calls.
type HaversineEstimator struct{}

func (HaversineEstimator) Estimate(ctx context.Context, origins, destinations []Location) ([][]Estimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return haversineMatrix(origins, destinations), nil
}

func haversineMatrix(origins, destinations []Location) [][]Estimate {
	out := make([][]Estimate, len(origins))
	for i, o := range origins {
		out[i] = make([]Estimate, len(destinations))
		for j, d := range destinations {
			out[i][j] = haversineEstimate(o, d)
		}
	}
	return out
}
