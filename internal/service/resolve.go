package service

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/fieldpost/internal/intake"
)

// ResolveCall maps user input to one of the known call ids. The new-call
// sentinel and exact ids pass straight through; otherwise a unique substring
// hit wins, then a unique near match. Anything ambiguous is returned as an
// error listing the candidates so the user can narrow it down.
func ResolveCall(input string, known []string) (string, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return "", ErrNoCallTarget
	}
	if strings.EqualFold(in, intake.NewCallSentinel) || strings.EqualFold(in, "new") {
		return intake.NewCallSentinel, nil
	}
	for _, id := range known {
		if id == in {
			return id, nil
		}
	}

	upper := strings.ToUpper(in)
	var hits []string
	for _, id := range known {
		if strings.Contains(strings.ToUpper(id), upper) {
			hits = append(hits, id)
		}
	}
	if len(hits) == 0 {
		for _, id := range known {
			if nearMatch(in, id) {
				hits = append(hits, id)
			}
		}
	}

	switch len(hits) {
	case 1:
		return hits[0], nil
	case 0:
		return "", fmt.Errorf("no call matches %q", input)
	default:
		return "", fmt.Errorf("call %q is ambiguous: %s", input, strings.Join(hits, ", "))
	}
}

func nearMatch(input, id string) bool {
	dist := levenshtein.ComputeDistance(strings.ToUpper(input), strings.ToUpper(id))
	maxlen := float64(len(id))
	if len(input) > len(id) {
		maxlen = float64(len(input))
	}
	return float64(dist)/maxlen < 0.4
}
