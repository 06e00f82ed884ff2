// Package jsonutil holds the JSON helpers used for journal entry details:
// encoding tab data, diffing two versions of it, and display formatting.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PrettyJSON indents a JSON string for display. Invalid JSON is returned
// unchanged.
func PrettyJSON(s string) string {
	var obj any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return s
	}
	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return s
	}
	return string(pretty)
}

// SafeUnmarshal decodes a JSON object, returning an empty map on error.
func SafeUnmarshal(s string) map[string]any {
	result := make(map[string]any)
	if s == "" {
		return result
	}
	_ = json.Unmarshal([]byte(s), &result)
	return result
}

// Marshal encodes v as a JSON string.
func Marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Diff is one changed path between two JSON objects.
type Diff struct {
	Path     string `json:"path"`
	Type     string `json:"type"` // "add", "update", "delete"
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
}

// DiffValues encodes both values and compares them with ComputeJSONDiff.
func DiffValues(oldVal, newVal any) ([]Diff, error) {
	oldJSON, err := Marshal(oldVal)
	if err != nil {
		return nil, fmt.Errorf("encoding old value: %w", err)
	}
	newJSON, err := Marshal(newVal)
	if err != nil {
		return nil, fmt.Errorf("encoding new value: %w", err)
	}
	return ComputeJSONDiff(oldJSON, newJSON)
}

// ComputeJSONDiff compares two JSON objects and returns the changed paths
// sorted by key. Nested objects are compared recursively with dotted paths;
// "" and "null" count as an empty object.
func ComputeJSONDiff(oldJSON, newJSON string) ([]Diff, error) {
	oldMap, err := decodeObject(oldJSON)
	if err != nil {
		return nil, fmt.Errorf("parsing old JSON: %w", err)
	}
	newMap, err := decodeObject(newJSON)
	if err != nil {
		return nil, fmt.Errorf("parsing new JSON: %w", err)
	}
	return diffMaps("", oldMap, newMap, nil), nil
}

func decodeObject(s string) (map[string]any, error) {
	m := make(map[string]any)
	if s == "" || s == "null" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

func diffMaps(prefix string, oldMap, newMap map[string]any, diffs []Diff) []Diff {
	keys := make([]string, 0, len(oldMap)+len(newMap))
	for k := range oldMap {
		keys = append(keys, k)
	}
	for k := range newMap {
		if _, ok := oldMap[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		oldVal, oldExists := oldMap[k]
		newVal, newExists := newMap[k]

		switch {
		case !oldExists:
			diffs = append(diffs, Diff{Path: path, Type: "add", NewValue: toJSONStr(newVal)})
		case !newExists:
			diffs = append(diffs, Diff{Path: path, Type: "delete", OldValue: toJSONStr(oldVal)})
		default:
			oldStr, newStr := toJSONStr(oldVal), toJSONStr(newVal)
			if oldStr == newStr {
				continue
			}
			oldChild, oldIsMap := oldVal.(map[string]any)
			newChild, newIsMap := newVal.(map[string]any)
			if oldIsMap && newIsMap {
				diffs = diffMaps(path, oldChild, newChild, diffs)
				continue
			}
			diffs = append(diffs, Diff{Path: path, Type: "update", OldValue: oldStr, NewValue: newStr})
		}
	}
	return diffs
}

func toJSONStr(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// TruncateString cuts s to maxLen runes, ending in "..." when cut.
func TruncateString(s string, maxLen int) string {
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
