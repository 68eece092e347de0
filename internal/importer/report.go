package importer

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/visitseed/internal/validate"
)

// WriteValidationErrors prints one "file:row [field] message" line per error.
func WriteValidationErrors(w io.Writer, errs []validate.ValidationError) {
	fmt.Fprintf(w, "%d validation error(s) found:\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "  %s\n", validate.FormatError(e))
	}
}

// WriteReport prints the per-collection counts of a completed run followed
// by the total.
func WriteReport(w io.Writer, r Result) {
	for _, c := range r.Cleared {
		if c.Documents > 0 {
			fmt.Fprintf(w, "cleared %s: %d\n", c.Collection, c.Documents)
		}
	}
	for _, c := range r.Imported {
		fmt.Fprintf(w, "%s: %d\n", c.Collection, c.Documents)
	}
	if r.Assigned > 0 {
		fmt.Fprintf(w, "assigned: %d\n", r.Assigned)
	}
	fmt.Fprintf(w, "Total: %d\n", r.Total())
}

// WriteFailure prints the user message of a failed run, followed by the raw
// error. Errors without a known pattern print the raw error only.
func WriteFailure(w io.Writer, r Result) {
	if !IsUserFacing(r.Err) {
		fmt.Fprintf(w, "seed run failed during %s: %v\n", r.FailedIn, r.Err)
		return
	}
	fmt.Fprintf(w, "seed run failed during %s: %s\n", r.FailedIn, FormatUserError(r.Err))
	fmt.Fprintf(w, "  %v\n", r.Err)
}
