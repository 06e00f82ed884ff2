package tui

import "github.com/Mr-Dark-debug/tabkeep/internal/tabs"

// tabTitle returns the title prop, or the key when there is none.
func tabTitle(key string, props tabs.Props) string {
	if t, ok := props["title"].(string); ok && t != "" {
		return t
	}
	return shortID(key, 8)
}

// toInt reads a count stored by code (int) or decoded from config (int64,
// float64).
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// truncate cuts a string to maxLen and appends "..." if truncated.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// shortID returns first n characters of an ID string.
func shortID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// copyData returns a shallow copy so a patch never aliases live tab data.
func copyData(d tabs.Data) tabs.Data {
	out := make(tabs.Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
