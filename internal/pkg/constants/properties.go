package constants

// Property status enum values (must match enum property_status).
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Property type enum values (must match enum property_type).
const (
	TypeHouse     = "house"
	TypeApartment = "apartment"
	TypeStudio    = "studio"
	TypeOffice    = "office"
)

// Promotion plan enum values (must match enum promotion_plan).
const (
	PlanWeek  = "week"
	PlanMonth = "month"
)

var ValidStatuses = []string{StatusDraft, StatusPublished, StatusArchived}
var ValidPropertyTypes = []string{TypeHouse, TypeApartment, TypeStudio, TypeOffice}
var ValidPromotionPlans = []string{PlanWeek, PlanMonth}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidStatus(status string) bool { return contains(ValidStatuses, status) }
func IsValidPropertyType(t string) bool { return contains(ValidPropertyTypes, t) }
func IsValidPromotionPlan(p string) bool { return contains(ValidPromotionPlans, p) }
