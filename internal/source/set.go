package source

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// Seed file names.
const (
	CustomersFile      = "customers.csv"
	HelpersFile        = "helpers.csv"
	ServicesFile       = "customer-services.csv"
	ConstraintsFile    = "customer-staff-constraints.csv"
	AvailabilityFile   = "helper-availability.csv"
	UnavailabilityFile = "staff-unavailability.csv"
	ServiceTypesFile   = "service-types.csv"
	TrainingStatusFile = "helper-training-status.csv"
)

// Set holds every seed table of one data directory.
type Set struct {
	Dir            string
	Customers      *Table
	Helpers        *Table
	Services       *Table
	Constraints    *Table
	Availability   *Table
	Unavailability *Table
	ServiceTypes   *Table
	TrainingStatus *Table // empty when the optional file is absent
}

// LoadSet reads every seed file under dir. A missing required file fails
// with *SourceReadError; the optional training-status file may be absent.
func LoadSet(dir string) (*Set, error) {
	s := &Set{Dir: dir}

	required := []struct {
		file string
		dst  **Table
	}{
		{CustomersFile, &s.Customers},
		{HelpersFile, &s.Helpers},
		{ServicesFile, &s.Services},
		{ConstraintsFile, &s.Constraints},
		{AvailabilityFile, &s.Availability},
		{UnavailabilityFile, &s.Unavailability},
		{ServiceTypesFile, &s.ServiceTypes},
	}
	for _, r := range required {
		t, err := Read(filepath.Join(dir, r.file))
		if err != nil {
			return nil, err
		}
		*r.dst = t
	}

	t, err := Read(filepath.Join(dir, TrainingStatusFile))
	switch {
	case err == nil:
		s.TrainingStatus = t
	case errors.Is(err, fs.ErrNotExist):
		s.TrainingStatus = &Table{File: TrainingStatusFile}
	default:
		return nil, err
	}

	return s, nil
}
