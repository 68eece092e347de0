package validate

import "github.com/JonMunkholm/visitseed/internal/source"

// LocationIDs checks that the ids used as travel-time locations are distinct:
// the office id, every customer id and the id of every helper with
// coordinates. Travel-time documents are keyed by these ids, so a shared id
// would make two location pairs write the same document.
func LocationIDs(s *source.Set, officeID string) []ValidationError {
	customers := newCollector(source.CustomersFile, KindReference)
	if s.Customers != nil {
		for _, rec := range s.Customers.Records {
			if id := rec.Get("id"); officeID != "" && id == officeID {
				customers.add(rec.Line, "id", "id %s is the office location id", id)
			}
		}
	}

	customerIDs := idsOf(s.Customers, "id")
	helpers := newCollector(source.HelpersFile, KindReference)
	if s.Helpers != nil {
		for _, rec := range s.Helpers.Records {
			if _, _, ok := source.Coordinates(rec); !ok {
				continue
			}
			id := rec.Get("id")
			switch {
			case officeID != "" && id == officeID:
				helpers.add(rec.Line, "id", "id %s is the office location id", id)
			case customerIDs[id]:
				helpers.add(rec.Line, "id", "id %s is also a customer id in %s", id, source.CustomersFile)
			}
		}
	}

	return append(customers.errs, helpers.errs...)
}
