package schema

// Days are the recognized day-of-week tokens, Monday first.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayOffset returns the number of days from Monday, or -1 for an unknown token.
func DayOffset(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// ServiceTypeCodes are the visit service categories.
var ServiceTypeCodes = []string{
	"physical_care",
	"daily_living",
	"mixed",
	"prevention",
	"private",
	"disability",
	"transport_support",
	"severe_visiting",
}

// Constraint types between a customer and a staff member.
const (
	ConstraintNG        = "ng"
	ConstraintPreferred = "preferred"
)

var ConstraintTypes = []string{ConstraintNG, ConstraintPreferred}

var Transportation = []string{"car", "bicycle", "walk"}

var EmploymentTypes = []string{"full_time", "part_time"}

var Genders = []string{"male", "female"}

// TrainingStatuses describe a helper's familiarity with a customer.
var TrainingStatuses = []string{"not_visited", "training", "independent"}

// Order statuses.
const (
	OrderPending   = "pending"
	OrderAssigned  = "assigned"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

var OrderStatuses = []string{OrderPending, OrderAssigned, OrderCompleted, OrderCancelled}

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
