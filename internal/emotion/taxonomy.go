package emotion

import (
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

//go:embed taxonomy.json
var taxonomyJSON []byte

// DefaultLocale is used when a caller does not specify one.
const DefaultLocale = "en"

// LocalName maps a locale code to a display name. A name may be absent in a
// given locale.
type LocalName map[string]string

// TertiaryEmotion is a leaf refinement name.
type TertiaryEmotion = LocalName

// SecondaryEmotion is a mid-level taxonomy node.
type SecondaryEmotion struct {
	Secondary LocalName         `json:"secondary"`
	Tertiary  []TertiaryEmotion `json:"tertiaryEmotions"`
}

// PrimaryEmotion is a top-level taxonomy node.
type PrimaryEmotion struct {
	Primary   LocalName          `json:"primary"`
	Secondary []SecondaryEmotion `json:"secondaryEmotions"`
}

// Taxonomy is the hierarchical primary/secondary/tertiary emotion naming
// document. Loaded once at startup, read-only afterwards.
//
// The join between catalog records and taxonomy nodes is by primary name.
// Rather than comparing strings on every lookup, each locale's lowercased
// primary names are indexed once at load time.
type Taxonomy struct {
	primaries []PrimaryEmotion
	index     map[string]map[string]int // locale -> lowercased primary name -> index
}

// taxonomyDoc matches the source document layout.
type taxonomyDoc struct {
	Emotions []PrimaryEmotion `json:"emotions"`
}

// LoadTaxonomy parses the embedded taxonomy document.
func LoadTaxonomy() (*Taxonomy, error) {
	return ParseTaxonomy(taxonomyJSON)
}

// ParseTaxonomy reads a taxonomy JSON document.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var doc taxonomyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewCatalogLoad(0, fmt.Sprintf("invalid taxonomy JSON: %v", err))
	}
	if len(doc.Emotions) == 0 {
		return nil, errors.NewCatalogLoad(0, "taxonomy has no primary emotions")
	}

	t := &Taxonomy{
		primaries: doc.Emotions,
		index:     make(map[string]map[string]int),
	}

	for i, p := range t.primaries {
		for locale, name := range p.Primary {
			byName := t.index[locale]
			if byName == nil {
				byName = make(map[string]int)
				t.index[locale] = byName
			}
			key := strings.ToLower(strings.TrimSpace(name))
			if _, dup := byName[key]; !dup {
				byName[key] = i
			}
		}
	}

	return t, nil
}

// Primaries returns the primary nodes in document order.
func (t *Taxonomy) Primaries() []PrimaryEmotion {
	return t.primaries
}

// lookupPrimary resolves a primary label case-insensitively for a locale.
func (t *Taxonomy) lookupPrimary(label, locale string) (*PrimaryEmotion, bool) {
	byName, ok := t.index[locale]
	if !ok {
		return nil, false
	}
	i, ok := byName[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return nil, false
	}
	return &t.primaries[i], true
}

// TertiaryOptionsFor returns the tertiary refinement names available under
// the given primary emotion, flattened across its secondaries in document
// order. Leaves with no name in the requested locale are omitted. An unknown
// primary label yields an empty slice, not an error: the caller renders a
// "no specific emotions available" fallback.
func (t *Taxonomy) TertiaryOptionsFor(primaryLabel, locale string) []string {
	if locale == "" {
		locale = DefaultLocale
	}

	p, ok := t.lookupPrimary(primaryLabel, locale)
	if !ok {
		return []string{}
	}

	options := []string{}
	for _, sec := range p.Secondary {
		for _, tert := range sec.Tertiary {
			if name, ok := tert[locale]; ok && name != "" {
				options = append(options, name)
			}
		}
	}
	return options
}

// MatchLevel identifies which taxonomy level a name search hit.
type MatchLevel string

const (
	MatchPrimary   MatchLevel = "primary"
	MatchSecondary MatchLevel = "secondary"
	MatchTertiary  MatchLevel = "tertiary"
)

// NameMatch is a single result of FindByName, annotated with its ancestor
// path: a primary match carries only Primary, a secondary match carries its
// Primary ancestor, a tertiary match carries both ancestors.
type NameMatch struct {
	Level     MatchLevel `json:"level"`
	Primary   string     `json:"primary"`
	Secondary string     `json:"secondary,omitempty"`
	Value     string     `json:"value"`
}

// FindByName performs a case-insensitive substring search across all three
// taxonomy levels in the given locale. Nodes without a name in the locale
// are skipped. Results appear in document order, one per matching node.
func (t *Taxonomy) FindByName(query, locale string) []NameMatch {
	if locale == "" {
		locale = DefaultLocale
	}

	q := strings.ToLower(strings.TrimSpace(query))
	results := []NameMatch{}
	if q == "" {
		return results
	}

	for _, p := range t.primaries {
		primaryName := p.Primary[locale]
		if primaryName != "" && strings.Contains(strings.ToLower(primaryName), q) {
			results = append(results, NameMatch{
				Level:   MatchPrimary,
				Primary: primaryName,
				Value:   primaryName,
			})
		}

		for _, sec := range p.Secondary {
			secondaryName := sec.Secondary[locale]
			if secondaryName != "" && strings.Contains(strings.ToLower(secondaryName), q) {
				results = append(results, NameMatch{
					Level:   MatchSecondary,
					Primary: primaryName,
					Value:   secondaryName,
				})
			}

			for _, tert := range sec.Tertiary {
				name := tert[locale]
				if name != "" && strings.Contains(strings.ToLower(name), q) {
					results = append(results, NameMatch{
						Level:     MatchTertiary,
						Primary:   primaryName,
						Secondary: secondaryName,
						Value:     name,
					})
				}
			}
		}
	}

	return results
}

// UnmatchedPrimaries returns catalog primary labels with no taxonomy
// counterpart in the given locale. The name-based join is loose: an
// unmatched primary is valid and degrades to an empty tertiary list, but
// startup logs the gap so relabeling drift gets noticed.
func UnmatchedPrimaries(c *Catalog, t *Taxonomy, locale string) []string {
	if locale == "" {
		locale = DefaultLocale
	}

	unmatched := []string{}
	for _, primary := range c.Primaries() {
		if _, ok := t.lookupPrimary(primary, locale); !ok {
			unmatched = append(unmatched, primary)
		}
	}
	return unmatched
}
