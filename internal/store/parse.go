package store

import "strings"

// ParseObject splits "firstName=Ann&lastName=Lee" into a map. Pairs without
// "=" map to an empty string; later keys overwrite earlier ones. No
// unescaping is performed.
func ParseObject(s string) map[string]string {
	out := map[string]string{}
	for _, prop := range strings.Split(s, "&") {
		k, v, _ := strings.Cut(prop, "=")
		out[k] = v
	}
	return out
}
