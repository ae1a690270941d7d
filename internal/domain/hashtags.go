package domain

import "strings"

// NormalizeHashtags trims each tag, drops empties, and guarantees a leading
// "#". Input order is preserved; the input slice is not modified.
func NormalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || t == "#" {
			continue
		}
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		out = append(out, t)
	}
	return out
}

// JoinHashtags renders content followed by the hashtag line the platform
// expects ("body\n\n#a #b"). Content is returned unchanged when there are
// no usable tags.
func JoinHashtags(content string, tags []string) string {
	normalized := NormalizeHashtags(tags)
	if len(normalized) == 0 {
		return content
	}
	return content + "\n\n" + strings.Join(normalized, " ")
}
