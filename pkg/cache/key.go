package cache

import "strings"

// Hierarchy levels used as the first key segment.
const (
	LevelStates    = "states"
	LevelDistricts = "districts"
	LevelComplexes = "complexes"
	LevelCourts    = "courts"
)

// Key identifies one cached hierarchy lookup.
type Key struct {
	// Level is the hierarchy level being cached (states, districts,
	// complexes, courts).
	Level string

	// Params are the parent codes that scope the lookup, in hierarchy
	// order (e.g. state code, then district code).
	Params []string
}

// String generates a deterministic cache key string.
// Format: ecourts:level:param1:param2
//
// Example:
//
//	ecourts:districts:DL
//	ecourts:courts:CDCC
func (k Key) String() string {
	parts := make([]string, 0, len(k.Params)+2)
	parts = append(parts, "ecourts", k.Level)
	for _, p := range k.Params {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ":")
}
