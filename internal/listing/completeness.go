package listing

import (
	"math"
	"strings"

	"rentora-backend/internal/domain"
)

// Snapshot is the property state the completeness scorer evaluates. It is a
// plain value; scoring never touches storage and never fails.
type Snapshot struct {
	Title       string
	Description string
	City        string
	Address     string
	Price       float64
	Bedrooms    *int
	Bathrooms   *int
	Amenities   []string
	ImageCount  int
}

// SnapshotOf builds a Snapshot from a stored property and its loaded images.
func SnapshotOf(p *domain.Property) Snapshot {
	bedrooms := p.Bedrooms
	bathrooms := p.Bathrooms
	return Snapshot{
		Title:       p.Title,
		Description: p.Description,
		City:        p.City,
		Address:     p.Address,
		Price:       p.Price,
		Bedrooms:    &bedrooms,
		Bathrooms:   &bathrooms,
		Amenities:   p.Amenities,
		ImageCount:  len(p.Images),
	}
}

// WarningSeverity levels for quality warnings.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// QualityWarning is an advisory nudge for the host; it never affects the score.
type QualityWarning struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// CompletenessResult is the output of Completeness. Completed and Missing hold
// criterion labels in table order.
type CompletenessResult struct {
	Score      int              `json:"score"`
	Percentage int              `json:"percentage"`
	Completed  []string         `json:"completed"`
	Missing    []string         `json:"missing"`
	Warnings   []QualityWarning `json:"warnings"`
}

type criterion struct {
	id     string
	label  string
	weight int
	check  func(Snapshot) bool
}

// criteria is the fixed weighted checklist. Weights sum to 100; the order is
// the order labels appear in Completed/Missing.
var criteria = []criterion{
	{"title", "Title added", 15, func(s Snapshot) bool { return strings.TrimSpace(s.Title) != "" }},
	{"description", "Description added", 10, func(s Snapshot) bool { return strings.TrimSpace(s.Description) != "" }},
	{"city", "City specified", 15, func(s Snapshot) bool { return strings.TrimSpace(s.City) != "" }},
	{"address", "Address specified", 10, func(s Snapshot) bool { return strings.TrimSpace(s.Address) != "" }},
	{"price", "Price set", 15, func(s Snapshot) bool { return s.Price > 0 }},
	{"bedrooms", "Bedrooms specified", 5, func(s Snapshot) bool { return s.Bedrooms != nil && *s.Bedrooms >= 0 }},
	{"bathrooms", "Bathrooms specified", 5, func(s Snapshot) bool { return s.Bathrooms != nil && *s.Bathrooms >= 0 }},
	{"images_min", "At least 1 image", 15, func(s Snapshot) bool { return s.ImageCount >= 1 }},
	{"images_good", "At least 3 images", 10, func(s Snapshot) bool { return s.ImageCount >= 3 }},
}

// Completeness evaluates every criterion against the snapshot and returns the
// weighted percentage plus advisory warnings. Deterministic, pure, total.
func Completeness(s Snapshot) CompletenessResult {
	completed := []string{}
	missing := []string{}
	earned := 0
	total := 0

	for _, c := range criteria {
		total += c.weight
		if c.check(s) {
			completed = append(completed, c.label)
			earned += c.weight
		} else {
			missing = append(missing, c.label)
		}
	}

	percentage := int(math.Round(float64(earned) / float64(total) * 100))

	return CompletenessResult{
		Score:      earned,
		Percentage: percentage,
		Completed:  completed,
		Missing:    missing,
		Warnings:   qualityWarnings(s),
	}
}

func qualityWarnings(s Snapshot) []QualityWarning {
	warnings := []QualityWarning{}

	if s.ImageCount == 1 {
		warnings = append(warnings, QualityWarning{
			ID:       "single_image",
			Message:  "Consider adding more photos to attract renters",
			Severity: SeverityInfo,
		})
	}
	if strings.TrimSpace(s.Description) == "" {
		warnings = append(warnings, QualityWarning{
			ID:       "no_description",
			Message:  "A description helps renters understand your property",
			Severity: SeverityWarning,
		})
	}
	if s.Price > 0 && s.Price < 100 {
		warnings = append(warnings, QualityWarning{
			ID:       "low_price",
			Message:  "Price seems very low - is this correct?",
			Severity: SeverityInfo,
		})
	}
	if len(s.Amenities) == 0 {
		warnings = append(warnings, QualityWarning{
			ID:       "no_amenities",
			Message:  "Adding amenities helps your listing stand out",
			Severity: SeverityInfo,
		})
	}

	return warnings
}
