package validate

import (
	"sort"

	"github.com/JonMunkholm/visitseed/internal/source"
)

type idSet map[string]bool

func idsOf(t *source.Table, column string) idSet {
	ids := idSet{}
	if t == nil {
		return ids
	}
	for _, rec := range t.Records {
		if id := rec.Get(column); id != "" {
			ids[id] = true
		}
	}
	return ids
}

// reference describes one foreign-key-like column.
type reference struct {
	table  *source.Table
	file   string
	column string
	target idSet
	owner  string // file the referenced ids live in
}

// Referential checks every cross-file reference of the set: customer ids in
// services, constraints and training status against customers.csv; staff ids
// in constraints, availability, unavailability and training status against
// helpers.csv; service types against service-types.csv.
//
// A customer's ng and preferred staff lists are built from constraints and
// every order's customer comes from services, so those documents are covered
// by the same checks. One error is reported per offending row and column.
func Referential(s *source.Set) []ValidationError {
	customers := idsOf(s.Customers, "id")
	helpers := idsOf(s.Helpers, "id")
	serviceTypes := idsOf(s.ServiceTypes, "code")

	refs := []reference{
		{s.Services, source.ServicesFile, "customer_id", customers, source.CustomersFile},
		{s.Services, source.ServicesFile, "service_type", serviceTypes, source.ServiceTypesFile},
		{s.Constraints, source.ConstraintsFile, "customer_id", customers, source.CustomersFile},
		{s.Constraints, source.ConstraintsFile, "staff_id", helpers, source.HelpersFile},
		{s.Availability, source.AvailabilityFile, "helper_id", helpers, source.HelpersFile},
		{s.Unavailability, source.UnavailabilityFile, "staff_id", helpers, source.HelpersFile},
		{s.TrainingStatus, source.TrainingStatusFile, "helper_id", helpers, source.HelpersFile},
		{s.TrainingStatus, source.TrainingStatusFile, "customer_id", customers, source.CustomersFile},
	}

	var errs []ValidationError
	byFile := map[string]*collector{}
	order := []string{}

	for _, ref := range refs {
		if ref.table == nil {
			continue
		}
		c, ok := byFile[ref.file]
		if !ok {
			c = newCollector(ref.file, KindReference)
			byFile[ref.file] = c
			order = append(order, ref.file)
		}
		for _, rec := range ref.table.Records {
			v := rec.Get(ref.column)
			if v == "" || ref.target[v] {
				continue
			}
			c.add(rec.Line, ref.column, "%s %s not found in %s", ref.column, v, ref.owner)
		}
	}

	for _, f := range order {
		errs = append(errs, sortByRow(byFile[f].errs)...)
	}
	return errs
}

// sortByRow orders errors by row, keeping column order within a row.
func sortByRow(errs []ValidationError) []ValidationError {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Row < errs[j].Row })
	return errs
}
