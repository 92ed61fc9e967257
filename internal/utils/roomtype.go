package utils

import (
	"strings"
)

// NormalizeRoomType normalizes a floor-plan (間取り) expression to the
// canonical listing form, e.g. "３ｌｄｋ" -> "3LDK", "ワンルーム" -> "1R".
// Unknown expressions are returned trimmed and upper-cased so they can
// still be matched loosely against the listing column.
func NormalizeRoomType(roomType string) string {
	normalized := strings.ToUpper(strings.TrimSpace(toHalfWidth(roomType)))

	// Common aliases for floor plans
	aliases := map[string]string{
		"ワンルーム": "1R",
		"1ルーム":  "1R",
		"ONE ROOM": "1R",
		"STUDIO":   "1R",
	}
	if canonical, ok := aliases[normalized]; ok {
		return canonical
	}
	for alias, canonical := range aliases {
		if strings.Contains(normalized, alias) {
			return canonical
		}
	}

	return normalized
}

// RoomTypePatterns returns the ILIKE patterns to try for a user-supplied
// room type, most specific first.
func RoomTypePatterns(roomType string) []string {
	canonical := NormalizeRoomType(roomType)
	if canonical == "" {
		return nil
	}

	patterns := []string{"%" + canonical + "%"}

	// 1R and 1K listings are frequently labeled interchangeably
	if canonical == "1R" {
		patterns = append(patterns, "%1K%")
	}
	return patterns
}

// toHalfWidth folds full-width digits and Latin letters to their ASCII
// equivalents. Japanese listing inputs mix both forms freely.
func toHalfWidth(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '０' && r <= '９':
			r = '0' + (r - '０')
		case r >= 'Ａ' && r <= 'Ｚ':
			r = 'A' + (r - 'Ａ')
		case r >= 'ａ' && r <= 'ｚ':
			r = 'a' + (r - 'ａ')
		case r == '　':
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}
