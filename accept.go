package restmodel

import (
	"strconv"
	"strings"
)

// AcceptEntry is one parsed media range from an Accept header.
type AcceptEntry struct {
	Type    string
	Subtype string
	// Quality is the q parameter in [0,1]; 0 explicitly excludes the range.
	Quality float64
	// Specificity ranks exact type/subtype (3) over type/* (2) over */* (1).
	// Other media-range parameters never raise it.
	Specificity int
	// pos preserves original header order for stable tie-breaking.
	pos int
}

// Matches reports whether the entry covers the given concrete media type.
func (e AcceptEntry) Matches(mediaType string) bool {
	t, s, ok := splitMediaType(mediaType)
	if !ok {
		return false
	}
	return (e.Type == "*" || e.Type == t) && (e.Subtype == "*" || e.Subtype == s)
}

// ParseAccept parses a weighted Accept header into entries. Tokens that do
// not form a media range are dropped; a fully unparsable header yields an
// empty slice, which matches nothing.
func ParseAccept(header string) []AcceptEntry {
	var out []AcceptEntry
	for _, token := range strings.Split(header, ",") {
		e, ok := parseAcceptToken(token)
		if !ok {
			continue
		}
		e.pos = len(out)
		out = append(out, e)
	}
	return out
}

func parseAcceptToken(token string) (AcceptEntry, bool) {
	parts := strings.Split(token, ";")
	t, s, ok := splitMediaType(strings.TrimSpace(parts[0]))
	if !ok {
		return AcceptEntry{}, false
	}
	// "*/json" is not a meaningful range.
	if t == "*" && s != "*" {
		return AcceptEntry{}, false
	}
	e := AcceptEntry{Type: t, Subtype: s, Quality: 1}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		k, v, found := strings.Cut(p, "=")
		if !found || strings.TrimSpace(k) != "q" {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return AcceptEntry{}, false
		}
		if q < 0 {
			q = 0
		}
		if q > 1 {
			q = 1
		}
		e.Quality = q
	}
	switch {
	case e.Type != "*" && e.Subtype != "*":
		e.Specificity = 3
	case e.Type != "*":
		e.Specificity = 2
	default:
		e.Specificity = 1
	}
	return e, true
}

func splitMediaType(mt string) (string, string, bool) {
	t, s, found := strings.Cut(mt, "/")
	t = strings.TrimSpace(strings.ToLower(t))
	s = strings.TrimSpace(strings.ToLower(s))
	if !found || t == "" || s == "" {
		return "", "", false
	}
	return t, s, true
}
