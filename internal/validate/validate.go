package validate

import (
	"regexp"
	"strings"
)

var (
	reID = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)
)

// ID validates a store, product or discount identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Orders checks a basket's product ids and quantities, returning a cleaned copy.
func Orders(in map[string]int) (map[string]int, bool) {
	if len(in) == 0 || len(in) > 200 {
		return nil, false
	}
	out := make(map[string]int, len(in))
	for id, qty := range in {
		id, ok := ID(id)
		if !ok || qty < 1 || qty > 999 {
			return nil, false
		}
		out[id] += qty
	}
	return out, true
}

// Title validates a displayable product title with a reasonable max length.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}
