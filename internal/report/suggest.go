package report

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns player names close to name, closest first. Matching is
// case-insensitive; a case-only difference counts as distance zero.
func (s *Session) Suggest(name string) []string {
	in := strings.ToLower(strings.TrimSpace(name))
	if in == "" {
		return nil
	}

	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	for _, p := range s.Players {
		cand := strings.ToLower(p.Name)
		dist := levenshtein.ComputeDistance(in, cand)
		if dist > distanceLimit(len(cand)) && !strings.HasPrefix(cand, in) {
			continue
		}
		cands = append(cands, candidate{name: p.Name, dist: dist})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].dist < cands[j].dist
	})
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.name
	}
	return names
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
