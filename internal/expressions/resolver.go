package expressions

import "strings"

// Resolve looks up a dotted-path variable name, checking the node input
// first and falling back to the execution variable map.
func Resolve(name string, input, variables map[string]interface{}) (interface{}, bool) {
	if v, ok := resolvePath(name, input); ok {
		return v, true
	}
	return resolvePath(name, variables)
}

// resolvePath walks a dotted path through nested maps
func resolvePath(path string, root map[string]interface{}) (interface{}, bool) {
	if root == nil || path == "" {
		return nil, false
	}

	parts := strings.Split(path, ".")
	var current interface{} = root
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
