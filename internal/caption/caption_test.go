package caption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain", "A lighthouse on a rocky coast at dusk.", "A lighthouse on a rocky coast at dusk."},
		{"surrounding whitespace", "\n  Two cats asleep on a sofa.  \n", "Two cats asleep on a sofa."},
		{"quoted", `"A red tram in Lisbon."`, "A red tram in Lisbon."},
		{"preamble", "Here is the alt text:\nA market stall selling oranges.", "A market stall selling oranges."},
		{"alt text prefix", "Alt text: Snow on pine trees.", "Snow on pine trees."},
		{"extra lines dropped", "A bridge at night.\nThe lights reflect on water.", "A bridge at night."},
		{"empty", "   \n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.raw))
		})
	}
}

func TestCleanTruncates(t *testing.T) {
	got := Clean(strings.Repeat("a", 500))
	assert.Equal(t, maxLen, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", NormaliseMIME("image/png"))
	assert.Equal(t, "image/webp", NormaliseMIME("image/webp"))
	assert.Equal(t, "image/jpeg", NormaliseMIME("image/jpeg"))
	assert.Equal(t, "image/jpeg", NormaliseMIME("application/octet-stream"))
}
