package callparse

// valueToCall converts a decoded JSON object into a ParsedCall,
// trying three shapes in priority order: an explicit "tool" field, an
// explicit "name" field, or a single top-level key that names a known
// tool. Returns ok=false if none apply.
func valueToCall(obj map[string]any) (ParsedCall, bool) {
	if tool, ok := obj["tool"].(string); ok {
		return ParsedCall{Name: tool, Args: argsField(obj)}, true
	}
	if name, ok := obj["name"].(string); ok {
		return ParsedCall{Name: name, Args: argsField(obj)}, true
	}
	if len(obj) == 1 {
		for key, val := range obj {
			if isKnownTool(key) {
				args, _ := val.(map[string]any)
				return ParsedCall{Name: key, Args: args}, true
			}
		}
	}
	return ParsedCall{}, false
}

// argsField returns obj["args"] as a map, or an empty map if absent
// or not itself an object.
func argsField(obj map[string]any) map[string]any {
	if args, ok := obj["args"].(map[string]any); ok {
		return args
	}
	return map[string]any{}
}
