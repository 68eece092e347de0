package transform

import (
	"time"

	"github.com/JonMunkholm/visitseed/internal/schema"
	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
)

// Helpers joins helpers, helper-availability and helper-training-status into
// one document per helper, in source order. training may be empty.
func Helpers(helpers, availability, training *source.Table, now time.Time) []store.Document {
	weekly := weeklyAvailability(availability)
	status := trainingStatus(training)

	docs := make([]store.Document, 0, helpers.Len())
	for _, rec := range helpers.Records {
		id := rec.Get("id")

		name := map[string]any{
			"family": rec.Get("family_name"),
			"given":  rec.Get("given_name"),
		}
		if short := rec.Get("short_name"); short != "" {
			name["short"] = short
		}

		avail := weekly[id]
		if avail == nil {
			avail = map[string][]map[string]any{}
		}
		trained := status[id]
		if trained == nil {
			trained = map[string]any{}
		}
		canPhysicalCare, _ := source.ParseBool(rec.Get("can_physical_care"))

		b := NewBuilder().
			Set("name", name).
			Set("qualifications", source.SplitList(rec.Get("qualifications"))).
			Set("can_physical_care", canPhysicalCare).
			Set("transportation", rec.Get("transportation")).
			Set("weekly_availability", avail).
			Set("preferred_hours", hourRange(rec, "preferred_hours")).
			Set("available_hours", hourRange(rec, "available_hours")).
			Set("customer_training_status", trained).
			Set("employment_type", rec.Get("employment_type")).
			Set("gender", rec.Get("gender")).
			SetIfPresent("employee_number", rec.Get("employee_number")).
			SetIfPresent("address", rec.Get("address")).
			SetIfPresent("phone_number", rec.Get("phone_number"))

		if lat, lng, ok := source.Coordinates(rec); ok {
			b.Set("location", map[string]any{"lat": lat, "lng": lng})
		}

		b.Set("created_at", now).Set("updated_at", now)
		docs = append(docs, b.Doc(id))
	}
	return docs
}

func hourRange(rec source.Record, prefix string) map[string]any {
	lo, _ := source.ParseFloat(rec.Get(prefix + "_min"))
	hi, _ := source.ParseFloat(rec.Get(prefix + "_max"))
	return map[string]any{"min": lo, "max": hi}
}

func weeklyAvailability(availability *source.Table) map[string]map[string][]map[string]any {
	out := map[string]map[string][]map[string]any{}
	if availability == nil {
		return out
	}
	for _, rec := range availability.Records {
		day := rec.Get("day_of_week")
		if schema.DayOffset(day) < 0 {
			continue
		}
		helperID := rec.Get("helper_id")
		byDay := out[helperID]
		if byDay == nil {
			byDay = map[string][]map[string]any{}
			out[helperID] = byDay
		}
		byDay[day] = append(byDay[day], map[string]any{
			"start_time": rec.Get("start_time"),
			"end_time":   rec.Get("end_time"),
		})
	}
	return out
}

// trainingStatus maps helper id to customer id to status. Later rows win.
func trainingStatus(training *source.Table) map[string]map[string]any {
	out := map[string]map[string]any{}
	if training == nil {
		return out
	}
	for _, rec := range training.Records {
		helperID := rec.Get("helper_id")
		if out[helperID] == nil {
			out[helperID] = map[string]any{}
		}
		out[helperID][rec.Get("customer_id")] = rec.Get("status")
	}
	return out
}
