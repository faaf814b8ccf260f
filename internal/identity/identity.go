// Package identity canonicalizes the dirty identifiers shared across the
// upstream streams: chassis numbers and dealer names/slugs. Every function is
// total and maps empty input to "", which callers treat as "no identity".
package identity

import (
	"regexp"
	"strings"
)

var (
	accessCodeSuffix = regexp.MustCompile(`^(.+)-[a-z0-9]{6}$`)
	nonAlnumRun      = regexp.MustCompile(`[^a-z0-9]+`)
	nonAlnumAny      = regexp.MustCompile(`[^A-Z0-9]`)
)

// NormalizeDealerSlug lowercases a slug and strips a trailing six-character
// access code ("riverside-motors-a1b2c3" -> "riverside-motors"). Anything
// that does not carry the suffix comes back lowercased but otherwise intact.
func NormalizeDealerSlug(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if m := accessCodeSuffix.FindStringSubmatch(slug); m != nil {
		return m[1]
	}
	return slug
}

// SlugifyDealerName turns a free-text dealer name into a comparable slug:
// lowercased, runs of non-alphanumerics collapsed to single hyphens, edge
// hyphens trimmed.
func SlugifyDealerName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = nonAlnumRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeChassisExact trims and uppercases a chassis identifier.
func NormalizeChassisExact(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeChassisLoose additionally strips every non-alphanumeric rune.
// Used as the fallback join key when sources disagree on punctuation or
// embedded whitespace.
func NormalizeChassisLoose(raw string) string {
	return nonAlnumAny.ReplaceAllString(NormalizeChassisExact(raw), "")
}
