package transform

import (
	"time"

	"github.com/JonMunkholm/visitseed/internal/schema"
	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
)

// Customers joins customers, customer-services and customer-staff-constraints
// into one document per customer, in source order.
func Customers(customers, services, constraints *source.Table, now time.Time) []store.Document {
	schedules := weeklyServices(services)
	ng, preferred := partitionConstraints(constraints)

	docs := make([]store.Document, 0, customers.Len())
	for _, rec := range customers.Records {
		id := rec.Get("id")
		lat, _ := source.ParseFloat(rec.Get("lat"))
		lng, _ := source.ParseFloat(rec.Get("lng"))

		weekly := schedules[id]
		if weekly == nil {
			weekly = map[string][]map[string]any{}
		}

		b := NewBuilder().
			Set("name", map[string]any{
				"family": rec.Get("family_name"),
				"given":  rec.Get("given_name"),
			}).
			Set("address", rec.Get("address")).
			Set("location", map[string]any{"lat": lat, "lng": lng}).
			Set("ng_staff_ids", orEmpty(ng[id])).
			Set("preferred_staff_ids", orEmpty(preferred[id])).
			Set("weekly_services", weekly).
			Set("service_manager", rec.Get("service_manager")).
			SetIfPresent("household_id", rec.Get("household_id")).
			SetIfPresent("notes", rec.Get("notes")).
			Set("created_at", now).
			Set("updated_at", now)

		docs = append(docs, b.Doc(id))
	}
	return docs
}

// weeklyServices groups service rows by customer, then by day, in row order.
func weeklyServices(services *source.Table) map[string]map[string][]map[string]any {
	out := map[string]map[string][]map[string]any{}
	if services == nil {
		return out
	}
	for _, rec := range services.Records {
		day := rec.Get("day_of_week")
		if schema.DayOffset(day) < 0 {
			continue
		}
		staffCount, err := source.ParsePositiveInt(rec.Get("staff_count"))
		if err != nil {
			continue
		}

		customerID := rec.Get("customer_id")
		byDay := out[customerID]
		if byDay == nil {
			byDay = map[string][]map[string]any{}
			out[customerID] = byDay
		}
		byDay[day] = append(byDay[day], map[string]any{
			"start_time":   rec.Get("start_time"),
			"end_time":     rec.Get("end_time"),
			"service_type": rec.Get("service_type"),
			"staff_count":  staffCount,
		})
	}
	return out
}

// partitionConstraints splits constraint rows into ng and preferred staff id
// lists per customer. Rows with any other type are dropped and a staff id is
// listed once per customer and type.
func partitionConstraints(constraints *source.Table) (ng, preferred map[string][]string) {
	ng = map[string][]string{}
	preferred = map[string][]string{}
	if constraints == nil {
		return ng, preferred
	}
	for _, rec := range constraints.Records {
		customerID, staffID := rec.Get("customer_id"), rec.Get("staff_id")
		var target map[string][]string
		switch rec.Get("constraint_type") {
		case schema.ConstraintNG:
			target = ng
		case schema.ConstraintPreferred:
			target = preferred
		default:
			continue
		}
		if !schema.Contains(target[customerID], staffID) {
			target[customerID] = append(target[customerID], staffID)
		}
	}
	return ng, preferred
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
