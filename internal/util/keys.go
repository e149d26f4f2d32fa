package util

import "strings"

// Key joins non-empty parts with ':' so every writer of a keyspace builds
// keys the same way.
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ":")
}
