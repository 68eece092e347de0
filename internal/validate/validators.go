package validate

import (
	"strings"
	"time"

	"github.com/JonMunkholm/visitseed/internal/schema"
	"github.com/JonMunkholm/visitseed/internal/source"
)

// Bounds is the accepted geographic rectangle for customer and helper locations.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// DefaultBounds covers Kagoshima city.
func DefaultBounds() Bounds {
	return Bounds{MinLat: 31.5, MaxLat: 31.7, MinLng: 130.4, MaxLng: 130.7}
}

// badFields marks the columns of a row that already failed a cell check so
// that rule checks do not report the same value twice.
type badFields map[string]bool

// eachRow runs header and cell validation for t, then calls rule for every
// record. When required columns are missing only the header errors are
// returned: row rules would otherwise report every row as empty.
func eachRow(t *source.Table, spec schema.FileSpec, rule func(c *collector, rec source.Record, bad badFields)) []ValidationError {
	if t == nil {
		return nil
	}
	file := spec.File
	if t.File != "" {
		file = t.File
	}
	c := newCollector(file, KindRule)

	if missing := schema.ValidateHeaders(t.Header, spec); len(missing) > 0 {
		for _, col := range missing {
			c.add(1, col, "missing required column")
		}
		return c.errs
	}

	rv := schema.NewRowValidator(spec, t.Header)
	for _, rec := range t.Records {
		bad := badFields{}
		for _, ce := range rv.ValidateRow(rec) {
			bad[ce.Field] = true
			c.add(rec.Line, ce.Field, "%s", ce.Message)
		}
		if rule != nil {
			rule(c, rec, bad)
		}
	}
	return c.errs
}

// Customers checks customers.csv: unique ids, coordinates inside bounds and
// the required name, address and service manager fields.
func Customers(t *source.Table, bounds Bounds) []ValidationError {
	seen := map[string]bool{}
	return eachRow(t, schema.Customers, func(c *collector, rec source.Record, bad badFields) {
		checkUnique(c, rec, "id", seen)
		checkCoordinate(c, rec, "lat", bounds.MinLat, bounds.MaxLat, bad)
		checkCoordinate(c, rec, "lng", bounds.MinLng, bounds.MaxLng, bad)
	})
}

// Helpers checks helpers.csv.
func Helpers(t *source.Table, bounds Bounds) []ValidationError {
	seen := map[string]bool{}
	return eachRow(t, schema.Helpers, func(c *collector, rec source.Record, bad badFields) {
		checkUnique(c, rec, "id", seen)
		checkHourRange(c, rec, "preferred_hours", bad)
		checkHourRange(c, rec, "available_hours", bad)

		lat, lng := rec.Get("lat"), rec.Get("lng")
		switch {
		case lat == "" && lng == "":
		case lat == "" || lng == "":
			c.add(rec.Line, "lat", "lat and lng must be given together")
		default:
			checkCoordinate(c, rec, "lat", bounds.MinLat, bounds.MaxLat, bad)
			checkCoordinate(c, rec, "lng", bounds.MinLng, bounds.MaxLng, bad)
		}
	})
}

// Services checks customer-services.csv. Customer references are checked by
// Referential.
func Services(t *source.Table) []ValidationError {
	return eachRow(t, schema.Services, func(c *collector, rec source.Record, bad badFields) {
		checkTimeWindow(c, rec, bad)
	})
}

type staffPair struct {
	customerID string
	staffID    string
}

// Constraints checks customer-staff-constraints.csv. A customer/staff pair
// listed as both ng and preferred is reported once, on the row that
// introduces the second type.
func Constraints(t *source.Table) []ValidationError {
	firstType := map[staffPair]string{}
	reported := map[staffPair]bool{}
	return eachRow(t, schema.Constraints, func(c *collector, rec source.Record, bad badFields) {
		if bad["constraint_type"] || bad["customer_id"] || bad["staff_id"] {
			return
		}
		p := staffPair{rec.Get("customer_id"), rec.Get("staff_id")}
		typ := rec.Get("constraint_type")
		prev, ok := firstType[p]
		if !ok {
			firstType[p] = typ
			return
		}
		if prev != typ && !reported[p] {
			reported[p] = true
			c.add(rec.Line, "constraint_type", "staff %s is both ng and preferred for customer %s", p.staffID, p.customerID)
		}
	})
}

// Availability checks helper-availability.csv.
func Availability(t *source.Table) []ValidationError {
	return eachRow(t, schema.Availability, func(c *collector, rec source.Record, bad badFields) {
		checkTimeWindow(c, rec, bad)
	})
}

// Unavailability checks staff-unavailability.csv: partial-day slots carry a
// valid time window and every slot date lies inside its week.
func Unavailability(t *source.Table) []ValidationError {
	return eachRow(t, schema.Unavailability, func(c *collector, rec source.Record, bad badFields) {
		if !bad["all_day"] && rec.Get("all_day") == "false" {
			missing := false
			for _, f := range []string{"start_time", "end_time"} {
				if rec.Get(f) == "" {
					c.add(rec.Line, f, "required when all_day=false")
					missing = true
				}
			}
			if !missing {
				checkTimeWindow(c, rec, bad)
			}
		}

		if bad["week_start_date"] {
			return
		}
		week, _ := source.ParseDate(rec.Get("week_start_date"))
		if week.Weekday() != time.Monday {
			c.add(rec.Line, "week_start_date", "week_start_date must be a Monday: %s", rec.Get("week_start_date"))
			return
		}
		if bad["date"] {
			return
		}
		date, _ := source.ParseDate(rec.Get("date"))
		if date.Before(week) || date.After(week.AddDate(0, 0, 6)) {
			c.add(rec.Line, "date", "date %s is outside the week starting %s", rec.Get("date"), rec.Get("week_start_date"))
		}
	})
}

// ServiceTypes checks service-types.csv.
func ServiceTypes(t *source.Table) []ValidationError {
	seen := map[string]bool{}
	return eachRow(t, schema.ServiceTypes, func(c *collector, rec source.Record, bad badFields) {
		checkUnique(c, rec, "code", seen)
	})
}

// TrainingStatus checks helper-training-status.csv. An absent file yields an
// empty table without header, which is valid.
func TrainingStatus(t *source.Table) []ValidationError {
	if t == nil || (t.Header == nil && len(t.Records) == 0) {
		return nil
	}
	seen := map[staffPair]bool{}
	return eachRow(t, schema.TrainingStatus, func(c *collector, rec source.Record, bad badFields) {
		p := staffPair{rec.Get("customer_id"), rec.Get("helper_id")}
		if p.customerID == "" || p.staffID == "" {
			return
		}
		if seen[p] {
			c.add(rec.Line, "", "Duplicate training status: %s/%s", p.staffID, p.customerID)
		}
		seen[p] = true
	})
}

func checkUnique(c *collector, rec source.Record, field string, seen map[string]bool) {
	id := rec.Get(field)
	if id == "" {
		return
	}
	checkDocID(c, rec.Line, field, id)
	if seen[id] {
		c.add(rec.Line, field, "Duplicate ID: %s", id)
	}
	seen[id] = true
}

// checkDocID rejects values that cannot be used verbatim as a document id.
func checkDocID(c *collector, line int, field, id string) {
	switch {
	case strings.Contains(id, "/"):
		c.add(line, field, "must not contain '/': %s", id)
	case id == "." || id == "..":
		c.add(line, field, "invalid ID: %s", id)
	case len(id) >= 4 && strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"):
		c.add(line, field, "reserved ID: %s", id)
	}
}

func checkCoordinate(c *collector, rec source.Record, field string, lo, hi float64, bad badFields) {
	if bad[field] || rec.Get(field) == "" {
		return
	}
	v, _ := source.ParseFloat(rec.Get(field))
	if v < lo || v > hi {
		c.add(rec.Line, field, "Out of range: %s", rec.Get(field))
	}
}

func checkHourRange(c *collector, rec source.Record, prefix string, bad badFields) {
	minField, maxField := prefix+"_min", prefix+"_max"
	if bad[minField] || bad[maxField] {
		return
	}
	lo, _ := source.ParseFloat(rec.Get(minField))
	hi, _ := source.ParseFloat(rec.Get(maxField))
	if lo < 0 {
		c.add(rec.Line, minField, "must not be negative: %s", rec.Get(minField))
	}
	if lo > hi {
		c.add(rec.Line, minField, "%s (%s) must not exceed %s (%s)", minField, rec.Get(minField), maxField, rec.Get(maxField))
	}
}

func checkTimeWindow(c *collector, rec source.Record, bad badFields) {
	if bad["start_time"] || bad["end_time"] {
		return
	}
	start, err1 := source.ParseClock(rec.Get("start_time"))
	end, err2 := source.ParseClock(rec.Get("end_time"))
	if err1 != nil || err2 != nil {
		return
	}
	if start >= end {
		c.add(rec.Line, "end_time", "end_time (%s) must be after start_time (%s)", end, start)
	}
}
