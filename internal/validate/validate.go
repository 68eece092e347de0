package validate

import "github.com/JonMunkholm/visitseed/internal/source"

// Options tunes the rule validators.
type Options struct {
	Bounds Bounds

	// OfficeID is the travel-time location id of the office. Customer ids
	// and ids of helpers with coordinates must differ from it.
	OfficeID string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Bounds: DefaultBounds(), OfficeID: "OFFICE"}
}

// ValidateAll runs every single-file validator in a fixed order and, only
// when they all pass, the referential-integrity and location id validators. Errors keep
// per-validator then per-row order. It has no side effects.
func ValidateAll(s *source.Set, opts Options) []ValidationError {
	var errs []ValidationError

	errs = append(errs, Customers(s.Customers, opts.Bounds)...)
	errs = append(errs, Helpers(s.Helpers, opts.Bounds)...)
	errs = append(errs, Services(s.Services)...)
	errs = append(errs, Constraints(s.Constraints)...)
	errs = append(errs, Availability(s.Availability)...)
	errs = append(errs, Unavailability(s.Unavailability)...)
	errs = append(errs, ServiceTypes(s.ServiceTypes)...)
	errs = append(errs, TrainingStatus(s.TrainingStatus)...)

	if len(errs) > 0 {
		return errs
	}
	errs = Referential(s)
	return append(errs, LocationIDs(s, opts.OfficeID)...)
}

// CountByFile groups an error list by file name.
func CountByFile(errs []ValidationError) map[string]int {
	counts := make(map[string]int)
	for _, e := range errs {
		counts[e.File]++
	}
	return counts
}
