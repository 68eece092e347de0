package transform

import (
	"strings"
	"time"

	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
)

type weekKey struct {
	staffID   string
	weekStart string
}

type weekGroup struct {
	weekStart time.Time
	slots     []map[string]any
	notes     []string
}

// UnavailabilityID returns the document id for a staff member's week.
func UnavailabilityID(staffID string, weekStart time.Time) string {
	return staffID + "_" + source.FormatDate(weekStart)
}

// Unavailability groups staff-unavailability rows into one document per
// staff member and week, in first-seen order. Slots keep row order and
// all-day slots carry no times.
func Unavailability(t *source.Table, now time.Time) []store.Document {
	var keys []weekKey
	groups := map[weekKey]*weekGroup{}

	for _, rec := range t.Records {
		weekStart, err := source.ParseDate(rec.Get("week_start_date"))
		if err != nil {
			continue
		}
		date, err := source.ParseDate(rec.Get("date"))
		if err != nil {
			continue
		}
		allDay, err := source.ParseBool(rec.Get("all_day"))
		if err != nil {
			continue
		}

		key := weekKey{staffID: rec.Get("staff_id"), weekStart: source.FormatDate(weekStart)}
		g, ok := groups[key]
		if !ok {
			g = &weekGroup{weekStart: weekStart}
			groups[key] = g
			keys = append(keys, key)
		}

		slot := map[string]any{"date": date, "all_day": allDay}
		if !allDay {
			slot["start_time"] = rec.Get("start_time")
			slot["end_time"] = rec.Get("end_time")
		}
		g.slots = append(g.slots, slot)
		if n := rec.Get("notes"); n != "" {
			g.notes = append(g.notes, n)
		}
	}

	docs := make([]store.Document, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		docs = append(docs, NewBuilder().
			Set("staff_id", key.staffID).
			Set("week_start_date", g.weekStart).
			Set("unavailable_slots", g.slots).
			SetIfPresent("notes", strings.Join(g.notes, "; ")).
			Set("submitted_at", now).
			Doc(UnavailabilityID(key.staffID, g.weekStart)))
	}
	return docs
}
