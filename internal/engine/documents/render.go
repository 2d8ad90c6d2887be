package documents

import "strings"

// Render substitutes every {{KEY}} span in body using bindings. Keys with no
// binding render as the empty string and are reported back so callers can
// warn template authors about likely misspellings. Replacement values are
// never re-scanned, so rendering already-rendered output is a no-op.
//
// Spans are located by literal scanning; body text and bound values need no
// escaping.
func Render(body string, bindings map[string]string) (string, []string) {
	var out strings.Builder
	var unresolved []string
	seen := make(map[string]bool)

	i := 0
	for {
		start := strings.Index(body[i:], "{{")
		if start < 0 {
			out.WriteString(body[i:])
			break
		}
		start += i

		end := strings.Index(body[start+2:], "}}")
		if end < 0 {
			out.WriteString(body[i:])
			break
		}

		key := body[start+2 : start+2+end]
		if !validTokenKey(key) {
			// Not a token; emit the braces literally and keep scanning.
			out.WriteString(body[i : start+2])
			i = start + 2
			continue
		}

		out.WriteString(body[i:start])
		if value, ok := bindings[key]; ok {
			out.WriteString(value)
		} else if !seen[key] {
			seen[key] = true
			unresolved = append(unresolved, key)
		}
		i = start + 2 + end + 2
	}

	return out.String(), unresolved
}

func validTokenKey(key string) bool {
	if key == "" {
		return false
	}
	for _, c := range key {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}
