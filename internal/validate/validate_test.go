package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/visitseed/internal/source"
)

func TestValidateAll_ValidSet(t *testing.T) {
	errs := ValidateAll(validSet(t), DefaultOptions())
	assert.Empty(t, errs)
}

func TestValidateAll_Repeatable(t *testing.T) {
	s := validSet(t)
	s.Customers = table(t, source.CustomersFile, customersCSV+"C001,重複,次郎,住所,31.6,130.5,佐藤,,\n")

	first := ValidateAll(s, DefaultOptions())
	second := ValidateAll(s, DefaultOptions())
	assert.Equal(t, first, second)
}

func TestCustomers_DuplicateID(t *testing.T) {
	tbl := table(t, source.CustomersFile, `id,family_name,given_name,address,lat,lng,service_manager
C001,山田,太郎,住所,31.58,130.54,佐藤
C001,山田,次郎,住所,31.58,130.54,佐藤
`)

	errs := Customers(tbl, DefaultBounds())
	require.Len(t, errs, 1)
	assert.Equal(t, ValidationError{
		File:    source.CustomersFile,
		Row:     3,
		Field:   "id",
		Message: "Duplicate ID: C001",
		Kind:    KindRule,
	}, errs[0])
	assert.Equal(t, "customers.csv:3 [id] Duplicate ID: C001", errs[0].Error())
}

func TestCustomers_Rules(t *testing.T) {
	tests := []struct {
		name       string
		row        string
		wantFields []string
	}{
		{"valid", "C001,山田,太郎,住所,31.58,130.54,佐藤", nil},
		{"lat out of range", "C001,山田,太郎,住所,35.68,130.54,佐藤", []string{"lat"}},
		{"lng not a number", "C001,山田,太郎,住所,31.58,east,佐藤", []string{"lng"}},
		{"missing names", "C001,,,住所,31.58,130.54,佐藤", []string{"family_name", "given_name"}},
		{"missing address and manager", "C001,山田,太郎,,31.58,130.54,", []string{"address", "service_manager"}},
		{"missing id", ",山田,太郎,住所,31.58,130.54,佐藤", []string{"id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table(t, source.CustomersFile, "id,family_name,given_name,address,lat,lng,service_manager\n"+tt.row+"\n")
			errs := Customers(tbl, DefaultBounds())

			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
				assert.Equal(t, 2, e.Row)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestCustomers_MissingColumn(t *testing.T) {
	tbl := table(t, source.CustomersFile, "id,family_name,given_name,address,lat,lng\nC001,a,b,c,31.6,130.5\n")

	errs := Customers(tbl, DefaultBounds())
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Row)
	assert.Equal(t, "service_manager", errs[0].Field)
	assert.Equal(t, "missing required column", errs[0].Message)
}

func TestHelpers_Rules(t *testing.T) {
	header := "id,family_name,given_name,qualifications,can_physical_care,transportation,preferred_hours_min,preferred_hours_max,available_hours_min,available_hours_max,employment_type,gender,lat,lng\n"
	tests := []struct {
		name       string
		row        string
		wantFields []string
	}{
		{"valid", "H001,中村,美咲,,true,car,20,30,10,40,full_time,female,,", nil},
		{"valid with location", "H001,中村,美咲,,true,walk,20,30,10,40,full_time,female,31.6,130.5", nil},
		{"bad enums", "H001,中村,美咲,,yes,plane,20,30,10,40,contract,other,,", []string{"can_physical_care", "transportation", "employment_type", "gender"}},
		{"inverted preferred hours", "H001,中村,美咲,,true,car,30,20,10,40,full_time,female,,", []string{"preferred_hours_min"}},
		{"half a location", "H001,中村,美咲,,true,car,20,30,10,40,full_time,female,31.6,", []string{"lat"}},
		{"location out of range", "H001,中村,美咲,,true,car,20,30,10,40,full_time,female,31.6,131.0", []string{"lng"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Helpers(table(t, source.HelpersFile, header+tt.row+"\n"), DefaultBounds())
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestServices_Rules(t *testing.T) {
	header := "customer_id,day_of_week,start_time,end_time,service_type,staff_count\n"
	tests := []struct {
		name       string
		row        string
		wantFields []string
	}{
		{"valid", "C001,monday,09:00,10:00,physical_care,1", nil},
		{"bad day", "C001,Monday,09:00,10:00,physical_care,1", []string{"day_of_week"}},
		{"end before start", "C001,monday,10:00,09:00,physical_care,1", []string{"end_time"}},
		{"equal times", "C001,monday,09:00,09:00,physical_care,1", []string{"end_time"}},
		{"bad time", "C001,monday,9:00,10:00,physical_care,1", []string{"start_time"}},
		{"zero staff", "C001,monday,09:00,10:00,physical_care,0", []string{"staff_count"}},
		{"fractional staff", "C001,monday,09:00,10:00,physical_care,1.5", []string{"staff_count"}},
		{"unknown service type", "C001,monday,09:00,10:00,massage,1", []string{"service_type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Services(table(t, source.ServicesFile, header+tt.row+"\n"))
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestConstraints(t *testing.T) {
	tbl := table(t, source.ConstraintsFile, `customer_id,staff_id,constraint_type
C001,H001,ng
C001,H002,avoid
C001,H001,ng
C001,H001,preferred
C001,H001,preferred
`)

	errs := Constraints(tbl)
	require.Len(t, errs, 2)

	assert.Equal(t, 3, errs[0].Row)
	assert.Equal(t, "constraint_type", errs[0].Field)
	assert.Contains(t, errs[0].Message, "invalid enum")

	assert.Equal(t, 5, errs[1].Row)
	assert.Contains(t, errs[1].Message, "both ng and preferred")
}

func TestUnavailability_Rules(t *testing.T) {
	header := "staff_id,week_start_date,date,all_day,start_time,end_time,notes\n"
	tests := []struct {
		name       string
		row        string
		wantFields []string
	}{
		{"all day", "H001,2025-01-06,2025-01-06,true,,,", nil},
		{"partial day", "H001,2025-01-06,2025-01-12,false,09:00,12:00,", nil},
		{"partial day missing times", "H001,2025-01-06,2025-01-07,false,,,", []string{"start_time", "end_time"}},
		{"partial day missing end", "H001,2025-01-06,2025-01-07,false,09:00,,", []string{"end_time"}},
		{"partial day inverted", "H001,2025-01-06,2025-01-07,false,12:00,09:00,", []string{"end_time"}},
		{"bad all_day literal", "H001,2025-01-06,2025-01-07,yes,,,", []string{"all_day"}},
		{"date after week", "H001,2025-01-06,2025-01-13,true,,,", []string{"date"}},
		{"date before week", "H001,2025-01-06,2025-01-05,true,,,", []string{"date"}},
		{"invalid calendar date", "H001,2025-01-06,2025-02-30,true,,,", []string{"date"}},
		{"week not monday", "H001,2025-01-07,2025-01-07,true,,,", []string{"week_start_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Unavailability(table(t, source.UnavailabilityFile, header+tt.row+"\n"))
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestServiceTypes(t *testing.T) {
	errs := ServiceTypes(table(t, source.ServiceTypesFile, `code,label,short_label,requires_physical_care_cert,sort_order
physical_care,身体介護,身体,true,1
physical_care,身体介護,身体,TRUE,x
`))
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"requires_physical_care_cert", "sort_order", "code"}, fields)
}

func TestTrainingStatus_AbsentFile(t *testing.T) {
	assert.Empty(t, TrainingStatus(&source.Table{File: source.TrainingStatusFile}))
}

func TestReferential_MissingCustomer(t *testing.T) {
	s := validSet(t)
	s.Services = table(t, source.ServicesFile, servicesCSV+"C999,friday,09:00,10:00,physical_care,1\n")

	errs := Referential(s)
	require.Len(t, errs, 1)
	assert.Equal(t, ValidationError{
		File:    source.ServicesFile,
		Row:     5,
		Field:   "customer_id",
		Message: "customer_id C999 not found in customers.csv",
		Kind:    KindReference,
	}, errs[0])
	assert.True(t, errs[0].IsReference())
}

func TestReferential_AllReferences(t *testing.T) {
	s := validSet(t)
	s.Constraints = table(t, source.ConstraintsFile, "customer_id,staff_id,constraint_type\nC404,H404,ng\n")
	s.Availability = table(t, source.AvailabilityFile, availabilityCSV+"H404,monday,09:00,10:00\n")
	s.Unavailability = table(t, source.UnavailabilityFile, unavailabilityCSV+"H404,2025-01-06,2025-01-06,true,,,\n")
	s.TrainingStatus = table(t, source.TrainingStatusFile, "helper_id,customer_id,status\nH404,C404,training\n")
	s.Services = table(t, source.ServicesFile, servicesCSV+"C001,friday,09:00,10:00,prevention,1\n")

	errs := Referential(s)

	got := make([]string, 0, len(errs))
	for _, e := range errs {
		got = append(got, e.Error())
	}
	assert.Equal(t, []string{
		"customer-services.csv:5 [service_type] service_type prevention not found in service-types.csv",
		"customer-staff-constraints.csv:2 [customer_id] customer_id C404 not found in customers.csv",
		"customer-staff-constraints.csv:2 [staff_id] staff_id H404 not found in helpers.csv",
		"helper-availability.csv:4 [helper_id] helper_id H404 not found in helpers.csv",
		"staff-unavailability.csv:4 [staff_id] staff_id H404 not found in helpers.csv",
		"helper-training-status.csv:2 [helper_id] helper_id H404 not found in helpers.csv",
		"helper-training-status.csv:2 [customer_id] customer_id C404 not found in customers.csv",
	}, got)
}

func TestValidateAll_ReferentialRunsOnlyAfterRulesPass(t *testing.T) {
	s := validSet(t)
	s.Services = table(t, source.ServicesFile, servicesCSV+"C999,funday,09:00,10:00,physical_care,1\n")

	errs := ValidateAll(s, DefaultOptions())
	require.Len(t, errs, 1)
	assert.Equal(t, KindRule, errs[0].Kind)
	assert.Equal(t, "day_of_week", errs[0].Field)
}

func TestValidateAll_Order(t *testing.T) {
	s := validSet(t)
	s.Customers = table(t, source.CustomersFile, customersCSV+"C001,重複,次郎,住所,31.6,130.5,佐藤,,\n")
	s.Helpers = table(t, source.HelpersFile, helpersCSV+"H001,重複,,,,true,car,1,2,1,2,full_time,male,,,\n")

	errs := ValidateAll(s, DefaultOptions())

	got := make([]string, 0, len(errs))
	for _, e := range errs {
		got = append(got, e.Error())
	}
	assert.Equal(t, []string{
		"customers.csv:5 [id] Duplicate ID: C001",
		"helpers.csv:4 [given_name] required field is empty",
		"helpers.csv:4 [id] Duplicate ID: H001",
	}, got)
	assert.Equal(t, map[string]int{source.CustomersFile: 1, source.HelpersFile: 2}, CountByFile(errs))
}

func TestCustomers_DocumentIDs(t *testing.T) {
	header := "id,family_name,given_name,address,lat,lng,service_manager\n"
	tests := []struct {
		name    string
		id      string
		wantMsg string
	}{
		{"plain id", "C001", ""},
		{"slash", "C/001", "must not contain '/': C/001"},
		{"dot", ".", "invalid ID: ."},
		{"double dot", "..", "invalid ID: .."},
		{"reserved", "__C001__", "reserved ID: __C001__"},
		{"underscores inside", "C__001", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Customers(table(t, source.CustomersFile, header+tt.id+",山田,太郎,住所,31.58,130.54,佐藤\n"), DefaultBounds())
			if tt.wantMsg == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, "id", errs[0].Field)
			assert.Equal(t, tt.wantMsg, errs[0].Message)
		})
	}
}

func TestServiceTypes_DocumentIDs(t *testing.T) {
	tbl := table(t, source.ServiceTypesFile, "code,label,short_label,requires_physical_care_cert,sort_order\nphysical/care,身体介護,身体,true,1\n")

	errs := ServiceTypes(tbl)
	require.Len(t, errs, 1)
	assert.Equal(t, "service-types.csv:2 [code] must not contain '/': physical/care", errs[0].Error())
}

func TestLocationIDs(t *testing.T) {
	helperHeader := "id,family_name,given_name,short_name,qualifications,can_physical_care,transportation,preferred_hours_min,preferred_hours_max,available_hours_min,available_hours_max,employment_type,gender,employee_number,address,phone_number,lat,lng\n"
	helper := func(id, lat, lng string) string {
		return id + ",中村,美咲,,,true,car,20,30,10,40,full_time,female,,,," + lat + "," + lng + "\n"
	}

	tests := []struct {
		name      string
		customers string
		helpers   string
		want      []string
	}{
		{
			name:    "distinct ids",
			helpers: helper("H001", "31.6", "130.5"),
		},
		{
			name:    "helper shares a customer id",
			helpers: helper("H001", "", "") + helper("C003", "31.6", "130.5"),
			want:    []string{"helpers.csv:3 [id] id C003 is also a customer id in customers.csv"},
		},
		{
			name:    "shared id without coordinates is not a location",
			helpers: helper("C003", "", ""),
		},
		{
			name:    "helper uses the office id",
			helpers: helper("OFFICE", "31.6", "130.5"),
			want:    []string{"helpers.csv:2 [id] id OFFICE is the office location id"},
		},
		{
			name:      "customer uses the office id",
			customers: "OFFICE,山田,太郎,住所,31.58,130.54,佐藤,,\n",
			helpers:   helper("H001", "31.6", "130.5"),
			want:      []string{"customers.csv:5 [id] id OFFICE is the office location id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSet(t)
			s.Customers = table(t, source.CustomersFile, customersCSV+tt.customers)
			s.Helpers = table(t, source.HelpersFile, helperHeader+tt.helpers)

			errs := LocationIDs(s, "OFFICE")
			var got []string
			for _, e := range errs {
				got = append(got, e.Error())
				assert.Equal(t, KindReference, e.Kind)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAll_SharedLocationID(t *testing.T) {
	s := validSet(t)
	s.Helpers = table(t, source.HelpersFile, "id,family_name,given_name,short_name,qualifications,can_physical_care,transportation,preferred_hours_min,preferred_hours_max,available_hours_min,available_hours_max,employment_type,gender,employee_number,address,phone_number,lat,lng\n"+
		"H001,中村,美咲,,,true,car,20,30,10,40,full_time,female,,,,,\n"+
		"H002,小林,健,,,false,bicycle,5,15,0,20,part_time,male,,,,,\n"+
		"C002,田中,花子,,,false,walk,5,15,0,20,part_time,female,,,,31.6,130.5\n")

	errs := ValidateAll(s, DefaultOptions())
	require.Len(t, errs, 1)
	assert.Equal(t, "helpers.csv:4 [id] id C002 is also a customer id in customers.csv", errs[0].Error())
}
