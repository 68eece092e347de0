package transform

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
)

var testNow = time.Date(2025, 1, 8, 10, 30, 0, 0, source.JST)

func table(t *testing.T, name, content string) *source.Table {
	t.Helper()
	tbl, err := source.Parse(name, strings.NewReader(content))
	require.NoError(t, err)
	return tbl
}

func byID(docs []store.Document) map[string]map[string]any {
	out := make(map[string]map[string]any, len(docs))
	for _, d := range docs {
		out[d.ID] = d.Data
	}
	return out
}

func TestBuilder_SparseFields(t *testing.T) {
	doc := NewBuilder().
		Set("id", "X").
		SetIfPresent("notes", "").
		SetIfPresent("address", "鹿児島市").
		SetIf(false, "location", 1).
		Doc("X")

	assert.Equal(t, "X", doc.ID)
	assert.Equal(t, map[string]any{"id": "X", "address": "鹿児島市"}, doc.Data)
}

func TestCustomers(t *testing.T) {
	customers := table(t, source.CustomersFile, `id,family_name,given_name,address,lat,lng,service_manager,household_id,notes
C001,山田,太郎,中央町1-1,31.5840,130.5413,佐藤,H01,
C002,田中,花子,荒田2-3,31.5702,130.5498,鈴木,,要配慮
`)
	services := table(t, source.ServicesFile, `customer_id,day_of_week,start_time,end_time,service_type,staff_count
C001,monday,09:00,10:00,physical_care,1
C001,monday,14:00,15:00,daily_living,2
C001,friday,09:00,10:00,mixed,1
`)
	constraints := table(t, source.ConstraintsFile, `customer_id,staff_id,constraint_type
C001,H001,preferred
C001,H002,ng
C001,H003,banned
C001,H002,ng
`)

	docs := Customers(customers, services, constraints, testNow)
	require.Len(t, docs, 2)
	assert.Equal(t, "C001", docs[0].ID)
	assert.Equal(t, "C002", docs[1].ID)

	c1 := docs[0].Data
	assert.Equal(t, map[string]any{"family": "山田", "given": "太郎"}, c1["name"])
	assert.Equal(t, map[string]any{"lat": 31.5840, "lng": 130.5413}, c1["location"])
	assert.Equal(t, []string{"H002"}, c1["ng_staff_ids"])
	assert.Equal(t, []string{"H001"}, c1["preferred_staff_ids"])
	assert.Equal(t, "H01", c1["household_id"])
	assert.NotContains(t, c1, "notes")
	assert.Equal(t, testNow, c1["created_at"])

	weekly := c1["weekly_services"].(map[string][]map[string]any)
	require.Len(t, weekly["monday"], 2)
	assert.Equal(t, "09:00", weekly["monday"][0]["start_time"])
	assert.Equal(t, "14:00", weekly["monday"][1]["start_time"])
	assert.Equal(t, 2, weekly["monday"][1]["staff_count"])
	assert.Len(t, weekly["friday"], 1)

	c2 := docs[1].Data
	assert.Equal(t, []string{}, c2["ng_staff_ids"])
	assert.Equal(t, []string{}, c2["preferred_staff_ids"])
	assert.Empty(t, c2["weekly_services"])
	assert.NotContains(t, c2, "household_id")
	assert.Equal(t, "要配慮", c2["notes"])
}

func TestCustomers_InvalidConstraintTypeExcluded(t *testing.T) {
	customers := table(t, source.CustomersFile, "id,family_name,given_name,address,lat,lng,service_manager\nC001,山田,太郎,住所,31.58,130.54,佐藤\n")
	services := table(t, source.ServicesFile, "customer_id,day_of_week,start_time,end_time,service_type,staff_count\n")
	constraints := table(t, source.ConstraintsFile, "customer_id,staff_id,constraint_type\nC001,H009,maybe\n")

	doc := Customers(customers, services, constraints, testNow)[0].Data
	assert.Equal(t, []string{}, doc["ng_staff_ids"])
	assert.Equal(t, []string{}, doc["preferred_staff_ids"])
}

func TestHelpers(t *testing.T) {
	helpers := table(t, source.HelpersFile, `id,family_name,given_name,short_name,qualifications,can_physical_care,transportation,preferred_hours_min,preferred_hours_max,available_hours_min,available_hours_max,employment_type,gender,employee_number,address,phone_number,lat,lng
H001,中村,美咲,中村,"介護福祉士, 実務者研修",true,car,20,30,10,40,full_time,female,E001,鹿児島市,099-000-0000,31.59,130.55
H002,小林,健,,,false,bicycle,5,15,0,20,part_time,male,,,,,
`)
	availability := table(t, source.AvailabilityFile, `helper_id,day_of_week,start_time,end_time
H001,monday,08:00,12:00
H001,monday,13:00,17:00
`)
	training := table(t, source.TrainingStatusFile, `helper_id,customer_id,status
H001,C001,training
H001,C002,independent
`)

	docs := byID(Helpers(helpers, availability, training, testNow))
	require.Len(t, docs, 2)

	h1 := docs["H001"]
	assert.Equal(t, map[string]any{"family": "中村", "given": "美咲", "short": "中村"}, h1["name"])
	assert.Equal(t, []string{"介護福祉士", "実務者研修"}, h1["qualifications"])
	assert.Equal(t, true, h1["can_physical_care"])
	assert.Equal(t, map[string]any{"min": 20.0, "max": 30.0}, h1["preferred_hours"])
	assert.Equal(t, map[string]any{"C001": "training", "C002": "independent"}, h1["customer_training_status"])
	assert.Equal(t, map[string]any{"lat": 31.59, "lng": 130.55}, h1["location"])
	assert.Equal(t, "E001", h1["employee_number"])
	monday := h1["weekly_availability"].(map[string][]map[string]any)["monday"]
	require.Len(t, monday, 2)
	assert.Equal(t, "13:00", monday[1]["start_time"])

	h2 := docs["H002"]
	assert.Equal(t, map[string]any{"family": "小林", "given": "健"}, h2["name"])
	assert.Equal(t, []string{}, h2["qualifications"])
	assert.Equal(t, false, h2["can_physical_care"])
	assert.Empty(t, h2["customer_training_status"])
	for _, field := range []string{"employee_number", "address", "phone_number", "location"} {
		assert.NotContains(t, h2, field)
	}
}

func TestHelpers_NoTrainingFile(t *testing.T) {
	helpers := table(t, source.HelpersFile, "id,family_name,given_name,qualifications,can_physical_care,transportation,preferred_hours_min,preferred_hours_max,available_hours_min,available_hours_max,employment_type,gender\nH001,中村,美咲,,true,car,1,2,1,2,full_time,female\n")
	availability := table(t, source.AvailabilityFile, "helper_id,day_of_week,start_time,end_time\n")

	docs := Helpers(helpers, availability, &source.Table{File: source.TrainingStatusFile}, testNow)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Data["customer_training_status"])
}

func TestServiceTypes(t *testing.T) {
	tbl := table(t, source.ServiceTypesFile, `code,label,short_label,requires_physical_care_cert,sort_order
physical_care,身体介護,身体,true,1
daily_living,生活援助,生活,false,2
`)

	docs := ServiceTypes(tbl, testNow)
	require.Len(t, docs, 2)
	assert.Equal(t, "physical_care", docs[0].ID)
	assert.Equal(t, true, docs[0].Data["requires_physical_care_cert"])
	assert.Equal(t, 1, docs[0].Data["sort_order"])
	assert.Equal(t, false, docs[1].Data["requires_physical_care_cert"])
	assert.Equal(t, "生活", docs[1].Data["short_label"])
}

func TestUnavailability_GroupsByStaffAndWeek(t *testing.T) {
	tbl := table(t, source.UnavailabilityFile, `staff_id,week_start_date,date,all_day,start_time,end_time,notes
H001,2025-01-06,2025-01-07,true,,,通院
H002,2025-01-06,2025-01-06,false,09:00,12:00,
H001,2025-01-06,2025-01-09,false,13:00,15:00,私用
H001,2025-01-13,2025-01-14,true,,,
`)

	docs := Unavailability(tbl, testNow)
	require.Len(t, docs, 3)
	assert.Equal(t, "H001_2025-01-06", docs[0].ID)
	assert.Equal(t, "H002_2025-01-06", docs[1].ID)
	assert.Equal(t, "H001_2025-01-13", docs[2].ID)

	first := docs[0].Data
	assert.Equal(t, "H001", first["staff_id"])
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, source.JST), first["week_start_date"])
	assert.Equal(t, "通院; 私用", first["notes"])

	slots := first["unavailable_slots"].([]map[string]any)
	require.Len(t, slots, 2)
	assert.Equal(t, map[string]any{
		"date":    time.Date(2025, 1, 7, 0, 0, 0, 0, source.JST),
		"all_day": true,
	}, slots[0])
	assert.Equal(t, "13:00", slots[1]["start_time"])
	assert.Equal(t, "15:00", slots[1]["end_time"])

	assert.NotContains(t, docs[2].Data, "notes")
}

func TestUnavailabilityID(t *testing.T) {
	week := time.Date(2025, 1, 6, 0, 0, 0, 0, source.JST)
	assert.Equal(t, "H001_2025-01-06", UnavailabilityID("H001", week))
}
