// Package citations implements the display policy for answer citations.
//
// The backend returns citations sorted by relevance; nothing here re-sorts
// them. The package only limits how many are shown and turns the confidence
// signal into labels.
package citations

import (
	"fmt"

	"github.com/rahulvenkat/docchat/internal/models"
)

// Display limits. The chat bubble preview and the expandable source panel
// are distinct contexts with distinct limits.
const (
	PanelLimit   = 3
	PreviewLimit = 2
)

// Confidence buckets.
const (
	LabelHigh   = "High"
	LabelMedium = "Medium"
	LabelLow    = "Low"
)

// Visible returns the citations to render in the source panel: the first
// PanelLimit entries, or all of them when showAll is set. Order is preserved.
func Visible(list []models.Citation, showAll bool) []models.Citation {
	if showAll || len(list) <= PanelLimit {
		return list
	}
	return list[:PanelLimit]
}

// HasMore reports whether the panel truncates the list.
func HasMore(list []models.Citation) bool {
	return len(list) > PanelLimit
}

// Preview returns the inline chat-bubble citations (first PreviewLimit) and
// the count of sources hidden behind the "+N more sources" indicator.
func Preview(list []models.Citation) ([]models.Citation, int) {
	if len(list) <= PreviewLimit {
		return list, 0
	}
	return list[:PreviewLimit], len(list) - PreviewLimit
}

// Confidence resolves the numeric confidence of a citation: the confidence
// field when present, else the score field. ok is false when neither is set,
// which means no label at all rather than zero.
func Confidence(c models.Citation) (float64, bool) {
	if c.Confidence != nil {
		return *c.Confidence, true
	}
	if c.Score != nil {
		return *c.Score, true
	}
	return 0, false
}

// Label buckets a confidence value.
func Label(v float64) string {
	switch {
	case v >= 0.8:
		return LabelHigh
	case v >= 0.6:
		return LabelMedium
	default:
		return LabelLow
	}
}

// Percent formats a confidence value as a percentage with one decimal place.
// The value is clamped to [0,1] before scaling so the output stays in
// [0,100].
func Percent(v float64) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return fmt.Sprintf("%.1f%%", v*100)
}
