package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSON strips the wrappers models add around JSON despite instructions:
// markdown code fences, leading prose, trailing commentary. What remains is
// the outermost JSON object or array found in the text.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the fence line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost object/array, whichever opens first.
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")
	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		if end := strings.LastIndex(s, "}"); end > objStart {
			s = s[objStart : end+1]
		}
	case arrStart != -1:
		if end := strings.LastIndex(s, "]"); end > arrStart {
			s = s[arrStart : end+1]
		}
	}

	return strings.TrimSpace(s)
}

// decodeObject parses model output into a JSON object after cleanup.
func decodeObject(raw string) (map[string]interface{}, error) {
	clean := CleanJSON(raw)
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("decodeObject: unmarshal JSON: %w\nraw response: %s", err, raw)
	}
	return out, nil
}
