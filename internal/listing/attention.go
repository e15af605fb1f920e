package listing

import (
	"rentora-backend/internal/domain"
	"rentora-backend/internal/pkg/constants"
)

// maxAttention caps the needs-attention list shown on the host dashboard.
const maxAttention = 3

// AttentionItem pairs a property with the completeness result that flagged it.
type AttentionItem struct {
	Property     domain.Property    `json:"property"`
	Completeness CompletenessResult `json:"completeness"`
}

// SelectNeedsAttention filters the host's properties (in their given order) to
// those warranting attention: a draft below 80% complete, a published listing
// with at least one quality warning, or any listing with zero images. This is
// a filter + truncate; ties keep original order.
func SelectNeedsAttention(properties []domain.Property) []AttentionItem {
	selected := []AttentionItem{}
	for i := range properties {
		p := &properties[i]
		result := Completeness(SnapshotOf(p))
		if !needsAttention(p, result) {
			continue
		}
		selected = append(selected, AttentionItem{Property: *p, Completeness: result})
		if len(selected) == maxAttention {
			break
		}
	}
	return selected
}

func needsAttention(p *domain.Property, result CompletenessResult) bool {
	if p.Status == constants.StatusDraft && result.Percentage < 80 {
		return true
	}
	if p.Status == constants.StatusPublished && len(result.Warnings) > 0 {
		return true
	}
	if len(p.Images) == 0 {
		return true
	}
	return false
}
