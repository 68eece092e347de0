package schema

import "github.com/JonMunkholm/visitseed/internal/source"

// Helpers defines the expected columns of helpers.csv.
var Helpers = FileSpec{
	File: source.HelpersFile,
	Fields: []FieldSpec{
		{Name: "id", Type: FieldText, Required: true},
		{Name: "family_name", Type: FieldText, Required: true},
		{Name: "given_name", Type: FieldText, Required: true},
		{Name: "short_name", Type: FieldText, Required: false, AllowEmpty: true},
		{Name: "qualifications", Type: FieldText, Required: true, AllowEmpty: true},
		{Name: "can_physical_care", Type: FieldBool, Required: true},
		{Name: "transportation", Type: FieldEnum, Required: true, EnumValues: Transportation},
		{Name: "preferred_hours_min", Type: FieldFloat, Required: true},
		{Name: "preferred_hours_max", Type: FieldFloat, Required: true},
		{Name: "available_hours_min", Type: FieldFloat, Required: true},
		{Name: "available_hours_max", Type: FieldFloat, Required: true},
		{Name: "employment_type", Type: FieldEnum, Required: true, EnumValues: EmploymentTypes},
		{Name: "gender", Type: FieldEnum, Required: true, EnumValues: Genders},
		{Name: "employee_number", Type: FieldText, Required: false, AllowEmpty: true},
		{Name: "address", Type: FieldText, Required: false, AllowEmpty: true},
		{Name: "phone_number", Type: FieldText, Required: false, AllowEmpty: true},
		{Name: "lat", Type: FieldFloat, Required: false, AllowEmpty: true},
		{Name: "lng", Type: FieldFloat, Required: false, AllowEmpty: true},
	},
}

// Availability defines the expected columns of helper-availability.csv.
var Availability = FileSpec{
	File: source.AvailabilityFile,
	Fields: []FieldSpec{
		{Name: "helper_id", Type: FieldText, Required: true},
		{Name: "day_of_week", Type: FieldEnum, Required: true, EnumValues: Days},
		{Name: "start_time", Type: FieldClock, Required: true},
		{Name: "end_time", Type: FieldClock, Required: true},
	},
}

// Unavailability defines the expected columns of staff-unavailability.csv.
// start_time and end_time may be empty on all-day rows.
var Unavailability = FileSpec{
	File: source.UnavailabilityFile,
	Fields: []FieldSpec{
		{Name: "staff_id", Type: FieldText, Required: true},
		{Name: "week_start_date", Type: FieldDate, Required: true},
		{Name: "date", Type: FieldDate, Required: true},
		{Name: "all_day", Type: FieldBool, Required: true},
		{Name: "start_time", Type: FieldClock, Required: true, AllowEmpty: true},
		{Name: "end_time", Type: FieldClock, Required: true, AllowEmpty: true},
		{Name: "notes", Type: FieldText, Required: false, AllowEmpty: true},
	},
}

// TrainingStatus defines the expected columns of helper-training-status.csv.
var TrainingStatus = FileSpec{
	File: source.TrainingStatusFile,
	Fields: []FieldSpec{
		{Name: "helper_id", Type: FieldText, Required: true},
		{Name: "customer_id", Type: FieldText, Required: true},
		{Name: "status", Type: FieldEnum, Required: true, EnumValues: TrainingStatuses},
	},
}
