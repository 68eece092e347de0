// Package traveltime estimates travel times between every ordered pair of
// known locations and shapes them into travel_times documents.
package traveltime

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
)

// Estimate sources.
const (
	SourceDummy      = "dummy"
	SourceGoogleMaps = "google_maps"
)

// Location is a point travel times are computed between.
type Location struct {
	ID  string
	Lat float64
	Lng float64
}

// Estimate is the travel cost of one origin/destination pair.
type Estimate struct {
	Minutes        float64
	DistanceMeters int
	Source         string
}

// Estimator computes the origins × destinations estimate matrix.
type Estimator interface {
	Estimate(ctx context.Context, origins, destinations []Location) ([][]Estimate, error)
}

// DocID returns the travel_times document id for a pair.
func DocID(from, to string) string {
	return fmt.Sprintf("from_%s_to_%s", from, to)
}

// Locations lists the office, every customer and every helper with
// coordinates, in that order.
func Locations(office Location, customers, helpers *source.Table) []Location {
	locs := []Location{office}
	for _, t := range []*source.Table{customers, helpers} {
		if t == nil {
			continue
		}
		for _, rec := range t.Records {
			if lat, lng, ok := source.Coordinates(rec); ok {
				locs = append(locs, Location{ID: rec.Get("id"), Lat: lat, Lng: lng})
			}
		}
	}
	return locs
}

// Generate estimates every ordered pair of distinct locations and returns
// n·(n−1) documents, origin-major.
func Generate(ctx context.Context, est Estimator, locs []Location, now time.Time) ([]store.Document, error) {
	if len(locs) < 2 {
		return nil, nil
	}

	matrix, err := est.Estimate(ctx, locs, locs)
	if err != nil {
		return nil, errors.Wrap(err, "estimate travel times")
	}
	if len(matrix) != len(locs) {
		return nil, errors.Errorf("estimate travel times: got %d rows, want %d", len(matrix), len(locs))
	}

	docs := make([]store.Document, 0, len(locs)*(len(locs)-1))
	for i, from := range locs {
		if len(matrix[i]) != len(locs) {
			return nil, errors.Errorf("estimate travel times: row %d has %d elements, want %d", i, len(matrix[i]), len(locs))
		}
		for j, to := range locs {
			if i == j {
				continue
			}
			e := matrix[i][j]
			docs = append(docs, store.Document{
				ID: DocID(from.ID, to.ID),
				Data: map[string]any{
					"from_location":       map[string]any{"lat": from.Lat, "lng": from.Lng},
					"to_location":         map[string]any{"lat": to.Lat, "lng": to.Lng},
					"travel_time_minutes": e.Minutes,
					"distance_meters":     e.DistanceMeters,
					"source":              e.Source,
					"cached_at":           now,
				},
			})
		}
	}
	return docs, nil
}
