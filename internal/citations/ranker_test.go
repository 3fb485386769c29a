package citations

import (
	"testing"

	"github.com/rahulvenkat/docchat/internal/models"
)

func ptr(v float64) *float64 { return &v }

func makeCitations(n int) []models.Citation {
	list := make([]models.Citation, n)
	for i := range list {
		list[i] = models.Citation{SourceID: string(rune('a' + i))}
	}
	return list
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		showAll bool
		wantLen int
	}{
		{"empty", 0, false, 0},
		{"under limit", 2, false, 2},
		{"at limit", 3, false, 3},
		{"over limit truncated", 5, false, 3},
		{"over limit show all", 5, true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := makeCitations(tt.n)
			got := Visible(list, tt.showAll)
			if len(got) != tt.wantLen {
				t.Fatalf("Visible() len = %d, want %d", len(got), tt.wantLen)
			}
			// Order must be preserved.
			for i := range got {
				if got[i].SourceID != list[i].SourceID {
					t.Errorf("Visible()[%d] = %q, want %q", i, got[i].SourceID, list[i].SourceID)
				}
			}
		})
	}
}

func TestHasMore(t *testing.T) {
	if HasMore(makeCitations(3)) {
		t.Error("HasMore(3) = true, want false")
	}
	if !HasMore(makeCitations(4)) {
		t.Error("HasMore(4) = false, want true")
	}
}

func TestPreview(t *testing.T) {
	shown, more := Preview(makeCitations(2))
	if len(shown) != 2 || more != 0 {
		t.Errorf("Preview(2) = %d shown, %d more; want 2, 0", len(shown), more)
	}

	shown, more = Preview(makeCitations(5))
	if len(shown) != 2 || more != 3 {
		t.Errorf("Preview(5) = %d shown, %d more; want 2, 3", len(shown), more)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		c      models.Citation
		want   float64
		wantOK bool
	}{
		{"confidence preferred", models.Citation{Confidence: ptr(0.9), Score: ptr(0.1)}, 0.9, true},
		{"score fallback", models.Citation{Score: ptr(0.4)}, 0.4, true},
		{"neither set", models.Citation{}, 0, false},
		{"zero confidence is still a value", models.Citation{Confidence: ptr(0)}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Confidence(tt.c)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Confidence() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.8, LabelHigh},
		{0.79999, LabelMedium},
		{0.6, LabelMedium},
		{0.59999, LabelLow},
		{1.0, LabelHigh},
		{0, LabelLow},
	}

	for _, tt := range tests {
		if got := Label(tt.v); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.835, "83.5%"},
		{1.0, "100.0%"},
		{1.7, "100.0%"},
		{-0.2, "0.0%"},
		{0.6, "60.0%"},
	}

	for _, tt := range tests {
		if got := Percent(tt.v); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
