package services

import "hos-route-service/internal/domain"

// StopRegistry merges stop markers keyed by their exact coordinates.
//
// A marker whose coordinates equal an earlier one replaces its type but keeps
// the earlier position in iteration order. Callers control precedence through
// merge order: whatever is merged last wins.
type StopRegistry struct {
	index   map[domain.Coordinates]int
	entries []domain.StopMarker
}

func NewStopRegistry() *StopRegistry {
	return &StopRegistry{index: make(map[domain.Coordinates]int)}
}

func (r *StopRegistry) Merge(markers ...domain.StopMarker) {
	for _, m := range markers {
		if i, ok := r.index[m.Location]; ok {
			r.entries[i].Type = m.Type
			continue
		}
		r.index[m.Location] = len(r.entries)
		r.entries = append(r.entries, m)
	}
}

func (r *StopRegistry) Len() int { return len(r.entries) }

// Markers returns a copy of the registry contents in first-insertion order.
func (r *StopRegistry) Markers() []domain.StopMarker {
	out := make([]domain.StopMarker, len(r.entries))
	copy(out, r.entries)
	return out
}
