package ops

import (
	"testing"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/emotion"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

func loadTestTaxonomy(t *testing.T) *emotion.Taxonomy {
	t.Helper()
	taxonomy, err := emotion.LoadTaxonomy()
	if err != nil {
		t.Fatalf("LoadTaxonomy failed: %v", err)
	}
	return taxonomy
}

func TestMatch_AppliesConfigLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MoodResultLimit = 3
	matcher := emotion.NewMatcher(loadTestCatalog(t))

	output, err := Match(cfg, matcher, MatchInput{Level: 50, Intensity: 5})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(output.Options) != 3 {
		t.Errorf("len(Options) = %d, want config limit 3", len(output.Options))
	}
	if output.Band != "medium" {
		t.Errorf("Band = %q, want medium", output.Band)
	}
}

func TestMatch_ExplicitLimitWins(t *testing.T) {
	cfg := config.DefaultConfig()
	matcher := emotion.NewMatcher(loadTestCatalog(t))

	output, err := Match(cfg, matcher, MatchInput{Level: 10, Intensity: 2, Limit: 5})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(output.Options) != 5 {
		t.Errorf("len(Options) = %d, want 5", len(output.Options))
	}
	if output.Band != "low" {
		t.Errorf("Band = %q, want low", output.Band)
	}
}

func TestMatch_NegativeLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	matcher := emotion.NewMatcher(loadTestCatalog(t))

	_, err := Match(cfg, matcher, MatchInput{Level: 50, Intensity: 5, Limit: -1})
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got: %v", err)
	}
}

func TestTertiary(t *testing.T) {
	cfg := config.DefaultConfig()
	taxonomy := loadTestTaxonomy(t)

	output, err := Tertiary(cfg, taxonomy, TertiaryInput{Primary: "anger"})
	if err != nil {
		t.Fatalf("Tertiary failed: %v", err)
	}
	if output.Locale != "en" {
		t.Errorf("Locale = %q, want en (config default)", output.Locale)
	}
	if len(output.Options) == 0 {
		t.Error("expected tertiary options for anger")
	}

	// Unknown primary: empty options, no error
	output, err = Tertiary(cfg, taxonomy, TertiaryInput{Primary: "Nonexistent"})
	if err != nil {
		t.Fatalf("Tertiary failed: %v", err)
	}
	if len(output.Options) != 0 {
		t.Errorf("Options = %v, want empty", output.Options)
	}

	// Missing primary is a request error
	if _, err := Tertiary(cfg, taxonomy, TertiaryInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

func TestTertiary_LocaleOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	taxonomy := loadTestTaxonomy(t)

	output, err := Tertiary(cfg, taxonomy, TertiaryInput{Primary: "Boosheid", Locale: "nl"})
	if err != nil {
		t.Fatalf("Tertiary failed: %v", err)
	}
	if output.Locale != "nl" {
		t.Errorf("Locale = %q, want nl", output.Locale)
	}
	if len(output.Options) == 0 {
		t.Error("expected Dutch tertiary options")
	}
}

func TestEmotionSearch(t *testing.T) {
	cfg := config.DefaultConfig()
	taxonomy := loadTestTaxonomy(t)

	output, err := EmotionSearch(cfg, taxonomy, EmotionSearchInput{Query: "hope"})
	if err != nil {
		t.Fatalf("EmotionSearch failed: %v", err)
	}
	if len(output.Matches) == 0 {
		t.Error("expected matches for hope")
	}

	output, err = EmotionSearch(cfg, taxonomy, EmotionSearchInput{Query: "zzzz"})
	if err != nil {
		t.Fatalf("EmotionSearch failed: %v", err)
	}
	if output.Matches == nil || len(output.Matches) != 0 {
		t.Errorf("Matches = %v, want empty non-nil", output.Matches)
	}

	if _, err := EmotionSearch(cfg, taxonomy, EmotionSearchInput{Query: "  "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}
