package domain

import "strings"

// SplitTags turns a comma-separated tag string into an ordered list of
// trimmed, non-empty tags. Duplicates are kept; order is preserved.
func SplitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// JoinTags is the inverse of SplitTags, used by the CSV export.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
