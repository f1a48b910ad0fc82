package emotion

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	_ "embed"

	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

//go:embed catalog.csv
var catalogCSV string

// Expected catalog columns, in order.
var catalogHeader = []string{"emoji", "codepoint", "score", "primary", "secondary", "arousal"}

// Catalog holds the fixed emoji/score/arousal table. It is loaded once at
// startup and never mutated; sharing it read-only across callers is safe.
type Catalog struct {
	records     []Record // ascending score, stable
	byCodepoint map[string]int
	byEmoji     map[string]int
}

// LoadCatalog parses the embedded catalog in strict mode. A malformed row
// aborts the whole load: a partially loaded catalog silently degrades
// matching quality, so startup fails instead.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(strings.NewReader(catalogCSV), true)
}

// ParseCatalog reads a CSV catalog source. In strict mode any malformed row
// fails the load with a CATALOG_LOAD error; otherwise malformed rows are
// skipped individually.
func ParseCatalog(r io.Reader, strict bool) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row width validated per-row for better errors

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewCatalogLoad(0, fmt.Sprintf("invalid CSV: %v", err))
	}
	if len(rows) == 0 {
		return nil, errors.NewCatalogLoad(0, "empty catalog")
	}

	start := 0
	if isCatalogHeader(rows[0]) {
		start = 1
	}

	c := &Catalog{
		byCodepoint: make(map[string]int),
		byEmoji:     make(map[string]int),
	}

	for i := start; i < len(rows); i++ {
		line := i + 1
		rec, err := parseCatalogRow(rows[i], line)
		if err == nil {
			if _, dup := c.byCodepoint[rec.Codepoint]; dup {
				err = errors.NewCatalogLoad(line, fmt.Sprintf("duplicate codepoint %q", rec.Codepoint))
			} else if _, dup := c.byEmoji[rec.Emoji]; dup {
				err = errors.NewCatalogLoad(line, fmt.Sprintf("duplicate emoji %q", rec.Emoji))
			}
		}
		if err != nil {
			if strict {
				return nil, err
			}
			continue
		}

		c.byCodepoint[rec.Codepoint] = len(c.records)
		c.byEmoji[rec.Emoji] = len(c.records)
		c.records = append(c.records, rec)
	}

	if len(c.records) == 0 {
		return nil, errors.NewCatalogLoad(0, "catalog has no valid rows")
	}

	// The matcher's tie-break relies on stable ascending-score ordering, not
	// on authoring order. Re-sort and rebuild the indexes.
	sort.SliceStable(c.records, func(i, j int) bool {
		return c.records[i].Score < c.records[j].Score
	})
	for i, rec := range c.records {
		c.byCodepoint[rec.Codepoint] = i
		c.byEmoji[rec.Emoji] = i
	}

	return c, nil
}

// parseCatalogRow validates a single catalog row.
func parseCatalogRow(row []string, line int) (Record, error) {
	if len(row) != len(catalogHeader) {
		return Record{}, errors.NewCatalogLoad(line, fmt.Sprintf("expected %d fields, got %d", len(catalogHeader), len(row)))
	}

	emoji := strings.TrimSpace(row[0])
	codepoint := strings.TrimSpace(row[1])
	primary := strings.TrimSpace(row[3])
	secondary := strings.TrimSpace(row[4])
	arousal := strings.TrimSpace(row[5])

	if emoji == "" || codepoint == "" || primary == "" || secondary == "" {
		return Record{}, errors.NewCatalogLoad(line, "missing required field")
	}

	score, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return Record{}, errors.NewCatalogLoad(line, fmt.Sprintf("non-numeric score %q", row[2]))
	}
	if score < 1 || score > 100 {
		return Record{}, errors.NewCatalogLoad(line, fmt.Sprintf("score %d outside 1-100", score))
	}

	// A legacy catalog layout omits the arousal column. Such rows are
	// rejected rather than band-derived from score (see DESIGN.md).
	if !ValidArousal(arousal) {
		return Record{}, errors.NewCatalogLoad(line, fmt.Sprintf("unrecognized arousal %q", arousal))
	}

	return Record{
		Emoji:     emoji,
		Codepoint: codepoint,
		Score:     score,
		Primary:   primary,
		Secondary: secondary,
		Arousal:   Arousal(arousal),
	}, nil
}

// isCatalogHeader reports whether a row is the column header line.
func isCatalogHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "emoji")
}

// ByCodepoint returns the record with the given codepoint key.
func (c *Catalog) ByCodepoint(key string) (Record, bool) {
	i, ok := c.byCodepoint[key]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// ByEmoji returns the record with the given emoji glyph.
func (c *Catalog) ByEmoji(key string) (Record, bool) {
	i, ok := c.byEmoji[key]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// All returns a copy of the catalog in canonical ascending-score order.
func (c *Catalog) All() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of catalog records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Primaries returns the distinct primary emotion labels in catalog order.
func (c *Catalog) Primaries() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, rec := range c.records {
		if !seen[rec.Primary] {
			seen[rec.Primary] = true
			out = append(out, rec.Primary)
		}
	}
	return out
}
