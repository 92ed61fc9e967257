package geo

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind tags the outcome of one extraction pass over a message.
type Kind int

const (
	// NoMatch means the message carried no geographic or reset signal.
	NoMatch Kind = iota
	// Reset means the user asked to clear the area filter (nationwide).
	Reset
	// Area means a canonical administrative path was resolved.
	Area
)

// Extraction is the tagged result of extracting a location constraint
// from a raw message. Path is set only when Kind is Area.
type Extraction struct {
	Kind Kind
	Path string
}

// Extract reads a free-form utterance and decides whether it expresses a
// geographic search constraint or a request to remove one.
//
// Reset detection runs first: if the message contains any reset phrase,
// the result is Reset even when a prefecture name co-occurs. Otherwise the
// prefecture lexicon is scanned in lexicon order (not position-in-message
// order) and the first entry found as a substring is refined to the finest
// supportable granularity.
func Extract(message string) Extraction {
	if containsResetPhrase(message) {
		return Extraction{Kind: Reset}
	}

	for _, pref := range Prefectures {
		idx := strings.Index(message, pref)
		if idx < 0 {
			continue
		}
		return Extraction{Kind: Area, Path: refine(pref, message[idx+len(pref):])}
	}

	return Extraction{Kind: NoMatch}
}

func containsResetPhrase(message string) bool {
	for _, phrase := range ResetPhrases {
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}

// refine extends a matched prefecture to city/ward/town/village granularity
// using the text that immediately follows it. rest is the message substring
// after the prefecture's first occurrence.
func refine(pref, rest string) string {
	unit := scanUnit(rest)
	if unit == "" {
		return pref
	}
	base := pref + unit

	// Two-stage refinement applies only to the metropolitan prefecture's
	// special wards: a ward may be followed by a town-level fragment.
	if pref != tokyoPrefecture || !strings.HasSuffix(unit, "区") {
		return base
	}
	frag := scanTownFragment(rest[len(unit):])
	return base + frag
}

// scanUnit finds a contiguous run of non-space, non-punctuation characters
// immediately after the prefecture, ending in a city/ward/town/village
// marker. A marker as the very first rune is part of the name, not a
// terminator (町田市, 市川市). Returns "" when no such run exists before
// the next boundary.
func scanUnit(s string) string {
	for i, r := range s {
		if isBoundary(r) {
			return ""
		}
		if i > 0 && isUnitMarker(r) {
			return s[:i+utf8.RuneLen(r)]
		}
	}
	return ""
}

// scanTownFragment takes the text right after a ward-level base location,
// up to the next punctuation/space boundary, and cuts it at the earliest
// exclusion suffix so conversational tails are never absorbed into the
// area path. An empty result means the ward-level path stands as-is.
func scanTownFragment(s string) string {
	end := len(s)
	for i, r := range s {
		if isBoundary(r) {
			end = i
			break
		}
	}
	frag := s[:end]

	cut := len(frag)
	for _, suffix := range ExclusionSuffixes {
		if j := strings.Index(frag, suffix); j >= 0 && j < cut {
			cut = j
		}
	}
	return frag[:cut]
}

func isBoundary(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
