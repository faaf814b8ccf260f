package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDealerSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips access code", "riverside-motors-a1b2c3", "riverside-motors"},
		{"strips numeric code", "hilltop-4x4-000123", "hilltop-4x4"},
		{"lowercases", "Coastal-Caravans", "coastal-caravans"},
		{"five char suffix kept", "riverside-a1b2c", "riverside-a1b2c"},
		{"seven char suffix kept", "riverside-a1b2c3d", "riverside-a1b2c3d"},
		{"uppercase suffix lowercased then stripped", "RIVERSIDE-A1B2C3", "riverside"},
		{"plain slug unchanged", "coastal-caravans", "coastal-caravans"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDealerSlug(tt.in))
		})
	}
}

func TestSlugifyDealerName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Riverside Motors", "riverside-motors"},
		{"  Riverside   Motors  ", "riverside-motors"},
		{"O'Brien & Sons (North)", "o-brien-sons-north"},
		{"---", ""},
		{"", ""},
		{"Hilltop 4x4", "hilltop-4x4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugifyDealerName(tt.in), "input %q", tt.in)
	}
}

func TestSlugifyMatchesNormalizedSlug(t *testing.T) {
	// A free-text dealer name must compare equal to its canonical slug once
	// both sides are normalized.
	assert.Equal(t,
		NormalizeDealerSlug("riverside-motors-x9y8z7"),
		SlugifyDealerName("Riverside Motors"),
	)
}

func TestNormalizeChassisExact(t *testing.T) {
	assert.Equal(t, "ABC123456", NormalizeChassisExact("  abc123456 "))
	assert.Equal(t, "", NormalizeChassisExact(""))
	// Exact keeps punctuation.
	assert.Equal(t, "ABC-123 456", NormalizeChassisExact("abc-123 456"))
}

func TestNormalizeChassisLoose(t *testing.T) {
	// Inputs differing only in case, whitespace and punctuation collapse to
	// the same loose key.
	variants := []string{"abc-123456", "ABC 123456", " abc.123456 ", "ABC123456"}
	for _, v := range variants {
		assert.Equal(t, "ABC123456", NormalizeChassisLoose(v), "input %q", v)
	}
	assert.Equal(t, "", NormalizeChassisLoose("  --  "))
}
