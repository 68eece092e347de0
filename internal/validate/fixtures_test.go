package validate

import (
	"strings"
	"testing"

	"github.com/JonMunkholm/visitseed/internal/source"
)

const (
	customersCSV = `id,family_name,given_name,address,lat,lng,service_manager,household_id,notes
C001,山田,太郎,鹿児島市中央町1-1,31.5840,130.5413,佐藤,H01,
C002,山田,花子,鹿児島市中央町1-1,31.5841,130.5414,佐藤,H01,要配慮
C003,田中,一郎,鹿児島市荒田2-3,31.5702,130.5498,鈴木,,
`
	helpersCSV = `id,family_name,given_name,short_name,qualifications,can_physical_care,transportation,preferred_hours_min,preferred_hours_max,available_hours_min,available_hours_max,employment_type,gender,employee_number,address,phone_number
H001,中村,美咲,中村,介護福祉士,true,car,20,30,10,40,full_time,female,E001,,
H002,小林,健,,"初任者研修,実務者研修",false,bicycle,5,15,0,20,part_time,male,,,
`
	servicesCSV = `customer_id,day_of_week,start_time,end_time,service_type,staff_count
C001,monday,09:00,10:00,physical_care,1
C002,monday,09:00,10:00,daily_living,1
C003,wednesday,14:00,15:30,mixed,2
`
	constraintsCSV = `customer_id,staff_id,constraint_type
C001,H001,preferred
C003,H002,ng
`
	availabilityCSV = `helper_id,day_of_week,start_time,end_time
H001,monday,08:00,17:00
H002,wednesday,09:00,12:00
`
	unavailabilityCSV = `staff_id,week_start_date,date,all_day,start_time,end_time,notes
H001,2025-01-06,2025-01-07,true,,,通院
H001,2025-01-06,2025-01-09,false,13:00,15:00,
`
	serviceTypesCSV = `code,label,short_label,requires_physical_care_cert,sort_order
physical_care,身体介護,身体,true,1
daily_living,生活援助,生活,false,2
mixed,身体生活,混合,true,3
`
	trainingCSV = `helper_id,customer_id,status
H001,C001,independent
`
)

func table(t *testing.T, name, content string) *source.Table {
	t.Helper()
	tbl, err := source.Parse(name, strings.NewReader(content))
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return tbl
}

// validSet returns a consistent seed set; callers replace single tables.
func validSet(t *testing.T) *source.Set {
	t.Helper()
	return &source.Set{
		Customers:      table(t, source.CustomersFile, customersCSV),
		Helpers:        table(t, source.HelpersFile, helpersCSV),
		Services:       table(t, source.ServicesFile, servicesCSV),
		Constraints:    table(t, source.ConstraintsFile, constraintsCSV),
		Availability:   table(t, source.AvailabilityFile, availabilityCSV),
		Unavailability: table(t, source.UnavailabilityFile, unavailabilityCSV),
		ServiceTypes:   table(t, source.ServiceTypesFile, serviceTypesCSV),
		TrainingStatus: table(t, source.TrainingStatusFile, trainingCSV),
	}
}
