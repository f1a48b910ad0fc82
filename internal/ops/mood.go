package ops

import (
	"strings"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/emotion"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

// MatchInput contains parameters for the mood Match operation.
type MatchInput struct {
	Level     int // 1-100 (clamped)
	Intensity int // 1-10 (clamped)
	Limit     int // default: config MoodResultLimit
}

// MatchOutput contains the result of the mood Match operation.
type MatchOutput struct {
	Options []emotion.Record `json:"options"`
	Band    string           `json:"band"`
}

// Match suggests catalog emojis for a mood level and intensity.
func Match(cfg *config.Config, matcher *emotion.Matcher, input MatchInput) (*MatchOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = cfg.MoodResultLimit
	}
	if limit == 0 {
		limit = emotion.DefaultMatchLimit
	}

	options, err := matcher.Match(input.Level, input.Intensity, limit)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = []emotion.Record{}
	}

	return &MatchOutput{
		Options: options,
		Band:    string(emotion.BandForIntensity(input.Intensity)),
	}, nil
}

// TertiaryInput contains parameters for the Tertiary operation.
type TertiaryInput struct {
	Primary string
	Locale  string // default: config Locale
}

// TertiaryOutput contains the result of the Tertiary operation.
type TertiaryOutput struct {
	Primary string   `json:"primary"`
	Locale  string   `json:"locale"`
	Options []string `json:"options"`
}

// Tertiary lists nuance words for a primary emotion.
// An unknown primary yields an empty list, not an error.
func Tertiary(cfg *config.Config, taxonomy *emotion.Taxonomy, input TertiaryInput) (*TertiaryOutput, error) {
	primary := strings.TrimSpace(input.Primary)
	if primary == "" {
		return nil, errors.NewInvalidRequest("primary is required")
	}

	locale := resolveLocale(cfg, input.Locale)
	options := taxonomy.TertiaryOptionsFor(primary, locale)

	return &TertiaryOutput{
		Primary: primary,
		Locale:  locale,
		Options: options,
	}, nil
}

// EmotionSearchInput contains parameters for the EmotionSearch operation.
type EmotionSearchInput struct {
	Query  string
	Locale string // default: config Locale
}

// EmotionSearchOutput contains the result of the EmotionSearch operation.
type EmotionSearchOutput struct {
	Query   string              `json:"query"`
	Locale  string              `json:"locale"`
	Matches []emotion.NameMatch `json:"matches"`
}

// EmotionSearch finds taxonomy entries whose name contains the query.
func EmotionSearch(cfg *config.Config, taxonomy *emotion.Taxonomy, input EmotionSearchInput) (*EmotionSearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	locale := resolveLocale(cfg, input.Locale)
	matches := taxonomy.FindByName(query, locale)
	if matches == nil {
		matches = []emotion.NameMatch{}
	}

	return &EmotionSearchOutput{
		Query:   query,
		Locale:  locale,
		Matches: matches,
	}, nil
}

// resolveLocale picks the request locale, then config, then the default.
func resolveLocale(cfg *config.Config, requested string) string {
	locale := strings.TrimSpace(requested)
	if locale == "" && cfg != nil {
		locale = cfg.Locale
	}
	if locale == "" {
		locale = emotion.DefaultLocale
	}
	return locale
}
