package listing

import (
	"strings"
)

// PublishValidation is the authoritative pass/fail gate result for
// draft -> published. MissingFields holds human-readable field names in the
// order of the required-for-publish checklist.
type PublishValidation struct {
	CanPublish    bool     `json:"canPublish"`
	MissingFields []string `json:"missingFields"`
}

// ValidateForPublish checks the stricter required-for-publish subset: title,
// price > 0, city, address, bedrooms defined, bathrooms defined, at least one
// image. All mandatory, no partial credit. The caller must pass a snapshot
// built from the stored record, not from a client form.
func ValidateForPublish(s Snapshot) PublishValidation {
	missing := []string{}

	if strings.TrimSpace(s.Title) == "" {
		missing = append(missing, "Title")
	}
	if s.Price <= 0 {
		missing = append(missing, "Price")
	}
	if strings.TrimSpace(s.City) == "" {
		missing = append(missing, "City")
	}
	if strings.TrimSpace(s.Address) == "" {
		missing = append(missing, "Address")
	}
	if s.Bedrooms == nil || *s.Bedrooms < 0 {
		missing = append(missing, "Bedrooms")
	}
	if s.Bathrooms == nil || *s.Bathrooms < 0 {
		missing = append(missing, "Bathrooms")
	}
	if s.ImageCount == 0 {
		missing = append(missing, "At least 1 image")
	}

	return PublishValidation{
		CanPublish:    len(missing) == 0,
		MissingFields: missing,
	}
}
