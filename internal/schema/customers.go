package schema

import "github.com/JonMunkholm/visitseed/internal/source"

// Customers defines the expected columns of customers.csv.
var Customers = FileSpec{
	File: source.CustomersFile,
	Fields: []FieldSpec{
		{Name: "id", Type: FieldText, Required: true},
		{Name: "family_name", Type: FieldText, Required: true},
		{Name: "given_name", Type: FieldText, Required: true},
		{Name: "address", Type: FieldText, Required: true},
		{Name: "lat", Type: FieldFloat, Required: true},
		{Name: "lng", Type: FieldFloat, Required: true},
		{Name: "service_manager", Type: FieldText, Required: true},
		{Name: "household_id", Type: FieldText, Required: false, AllowEmpty: true},
		{Name: "notes", Type: FieldText, Required: false, AllowEmpty: true},
	},
}

// Services defines the expected columns of customer-services.csv.
var Services = FileSpec{
	File: source.ServicesFile,
	Fields: []FieldSpec{
		{Name: "customer_id", Type: FieldText, Required: true},
		{Name: "day_of_week", Type: FieldEnum, Required: true, EnumValues: Days},
		{Name: "start_time", Type: FieldClock, Required: true},
		{Name: "end_time", Type: FieldClock, Required: true},
		{Name: "service_type", Type: FieldEnum, Required: true, EnumValues: ServiceTypeCodes},
		{Name: "staff_count", Type: FieldPositiveInt, Required: true},
	},
}

// Constraints defines the expected columns of customer-staff-constraints.csv.
var Constraints = FileSpec{
	File: source.ConstraintsFile,
	Fields: []FieldSpec{
		{Name: "customer_id", Type: FieldText, Required: true},
		{Name: "staff_id", Type: FieldText, Required: true},
		{Name: "constraint_type", Type: FieldEnum, Required: true, EnumValues: ConstraintTypes},
	},
}

// ServiceTypes defines the expected columns of service-types.csv.
var ServiceTypes = FileSpec{
	File: source.ServiceTypesFile,
	Fields: []FieldSpec{
		{Name: "code", Type: FieldText, Required: true},
		{Name: "label", Type: FieldText, Required: true},
		{Name: "short_label", Type: FieldText, Required: true, AllowEmpty: true},
		{Name: "requires_physical_care_cert", Type: FieldBool, Required: true},
		{Name: "sort_order", Type: FieldInt, Required: true},
	},
}
