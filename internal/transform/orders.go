package transform

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/JonMunkholm/visitseed/internal/schema"
	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
)

// OrderOptions controls order generation.
type OrderOptions struct {
	// WeekStart is the Monday the orders belong to. Zero means the week
	// containing Now.
	WeekStart time.Time

	// AssignRatio is the share of orders, in row order, pre-assigned to a
	// helper. Zero leaves every order pending.
	AssignRatio float64

	// HelperIDs are the assignment candidates, used round-robin.
	HelperIDs []string

	Now time.Time
}

// OrderID returns the id of the n-th (1-based) order of the week.
func OrderID(weekStart time.Time, n int) string {
	return fmt.Sprintf("ORD-%s-%04d", strings.ReplaceAll(source.FormatDate(weekStart), "-", ""), n)
}

type householdSlot struct {
	household string
	day       string
	start     string
}

// Orders expands every customer-services row into one order for the week.
// Orders of one household sharing a day and start time are linked in a ring
// through linked_order_id.
func Orders(customers, services *source.Table, opts OrderOptions) []store.Document {
	weekStart := opts.WeekStart
	if weekStart.IsZero() {
		weekStart = source.WeekStartOf(opts.Now)
	}
	weekStart = source.WeekStartOf(weekStart)

	household := map[string]string{}
	for _, rec := range customers.Records {
		if h := rec.Get("household_id"); h != "" {
			household[rec.Get("id")] = h
		}
	}

	var (
		docs  []store.Document
		rings = map[householdSlot][]int{}
		order []householdSlot
	)
	for _, rec := range services.Records {
		day := rec.Get("day_of_week")
		offset := schema.DayOffset(day)
		if offset < 0 {
			continue
		}
		staffCount, err := source.ParsePositiveInt(rec.Get("staff_count"))
		if err != nil {
			continue
		}

		id := OrderID(weekStart, len(docs)+1)
		customerID := rec.Get("customer_id")
		b := NewBuilder().
			Set("customer_id", customerID).
			Set("week_start_date", weekStart).
			Set("date", weekStart.AddDate(0, 0, offset)).
			Set("start_time", rec.Get("start_time")).
			Set("end_time", rec.Get("end_time")).
			Set("service_type", rec.Get("service_type")).
			Set("staff_count", staffCount).
			Set("assigned_staff_ids", []string{}).
			Set("status", schema.OrderPending).
			Set("manually_edited", false).
			Set("created_at", opts.Now).
			Set("updated_at", opts.Now)

		if h, ok := household[customerID]; ok {
			key := householdSlot{household: h, day: day, start: rec.Get("start_time")}
			if _, seen := rings[key]; !seen {
				order = append(order, key)
			}
			rings[key] = append(rings[key], len(docs))
		}
		docs = append(docs, b.Doc(id))
	}

	for _, key := range order {
		idx := rings[key]
		if len(idx) < 2 {
			continue
		}
		for i, di := range idx {
			next := idx[(i+1)%len(idx)]
			docs[di].Data["linked_order_id"] = docs[next].ID
		}
	}

	assignSample(docs, opts.AssignRatio, opts.HelperIDs)
	return docs
}

// AssignCount is the number of orders pre-assigned for n orders at ratio.
func AssignCount(n int, ratio float64) int {
	if ratio <= 0 || n == 0 {
		return 0
	}
	if ratio >= 1 {
		return n
	}
	return int(math.Floor(float64(n) * ratio))
}

func assignSample(docs []store.Document, ratio float64, helperIDs []string) {
	if len(helperIDs) == 0 {
		return
	}
	for i := 0; i < AssignCount(len(docs), ratio); i++ {
		docs[i].Data["assigned_staff_ids"] = []string{helperIDs[i%len(helperIDs)]}
		docs[i].Data["status"] = schema.OrderAssigned
	}
}

// Assigned counts orders carrying at least one assigned staff id.
func Assigned(docs []store.Document) int {
	n := 0
	for _, d := range docs {
		if ids, ok := d.Data["assigned_staff_ids"].([]string); ok && len(ids) > 0 {
			n++
		}
	}
	return n
}
