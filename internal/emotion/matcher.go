package emotion

import (
	"fmt"
	"sort"

	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

// DefaultMatchLimit is the result cap applied when a caller does not
// specify one.
const DefaultMatchLimit = 8

// Matcher selects ranked emoji records for a mood score and intensity.
// It holds a read-only Catalog and keeps no state between calls: for fixed
// catalog contents, (score, intensity, limit) fully determines the output.
type Matcher struct {
	catalog *Catalog
}

// NewMatcher creates a Matcher over the given catalog.
func NewMatcher(c *Catalog) *Matcher {
	return &Matcher{catalog: c}
}

// BandForIntensity maps a 1-10 intensity value to an arousal band:
// <=3 low, 4-7 medium, >=8 high.
func BandForIntensity(intensity int) Arousal {
	switch {
	case intensity <= 3:
		return ArousalLow
	case intensity <= 7:
		return ArousalMedium
	default:
		return ArousalHigh
	}
}

// Match returns up to limit records for the given mood score (1-100) and
// intensity (1-10), ranked by the two-tier policy:
//
//  1. Records whose arousal band matches the intensity form the primary pool.
//  2. If the pool has at least limit records, it is stably sorted by absolute
//     score distance (catalog order breaks ties) and truncated.
//  3. If the pool is smaller than limit, it is kept in catalog order as-is
//     and filled from the whole catalog by ascending distance, skipping
//     records already present. This asymmetry (only the filler is
//     distance-sorted) is deliberate.
//
// Out-of-range score and intensity are clamped: they come from bounded input
// controls that scripted input can still drive out of range. A non-positive
// limit is a programming error.
func (m *Matcher) Match(score, intensity, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, errors.NewInvalidArgument(fmt.Sprintf("match limit must be positive, got %d", limit))
	}

	score = clamp(score, 1, 100)
	intensity = clamp(intensity, 1, 10)
	band := BandForIntensity(intensity)

	all := m.catalog.All()

	pool := make([]Record, 0, len(all))
	for _, rec := range all {
		if rec.Arousal == band {
			pool = append(pool, rec)
		}
	}

	if len(pool) >= limit {
		sortByDistance(pool, score)
		return pool[:limit], nil
	}

	// Underpopulated band: keep the pool in catalog order and append the
	// closest remaining records from the full catalog.
	seen := make(map[string]bool, len(pool))
	for _, rec := range pool {
		seen[rec.Codepoint] = true
	}

	fallback := make([]Record, len(all))
	copy(fallback, all)
	sortByDistance(fallback, score)

	for _, rec := range fallback {
		if len(pool) >= limit {
			break
		}
		if seen[rec.Codepoint] {
			continue
		}
		seen[rec.Codepoint] = true
		pool = append(pool, rec)
	}

	return pool, nil
}

// sortByDistance stably sorts records by absolute distance to score.
// Stability preserves catalog order for ties.
func sortByDistance(recs []Record, score int) {
	sort.SliceStable(recs, func(i, j int) bool {
		return absDistance(recs[i].Score, score) < absDistance(recs[j].Score, score)
	})
}

func absDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
