package emotion

import (
	"strings"
	"testing"

	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	if c.Len() != 39 {
		t.Errorf("Len() = %d, want 39", c.Len())
	}

	// Canonical ordering is ascending score
	all := c.All()
	for i := 1; i < len(all); i++ {
		if all[i].Score < all[i-1].Score {
			t.Errorf("All() not sorted at index %d: %d < %d", i, all[i].Score, all[i-1].Score)
		}
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	rec, ok := c.ByCodepoint("U+1F621")
	if !ok {
		t.Fatal("ByCodepoint(U+1F621) not found")
	}
	if rec.Primary != "Anger" || rec.Secondary != "Rage" || rec.Score != 10 {
		t.Errorf("unexpected record: %+v", rec)
	}

	byEmoji, ok := c.ByEmoji(rec.Emoji)
	if !ok {
		t.Fatalf("ByEmoji(%q) not found", rec.Emoji)
	}
	if byEmoji.Codepoint != rec.Codepoint {
		t.Errorf("ByEmoji codepoint = %q, want %q", byEmoji.Codepoint, rec.Codepoint)
	}

	if _, ok := c.ByCodepoint("U+0000"); ok {
		t.Error("ByCodepoint(U+0000) = found, want absent")
	}
	if _, ok := c.ByEmoji("not-an-emoji"); ok {
		t.Error("ByEmoji(not-an-emoji) = found, want absent")
	}
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	all := c.All()
	all[0].Score = 999

	if c.All()[0].Score == 999 {
		t.Error("mutating All() result changed catalog state")
	}
}

func TestParseCatalog_Strict(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing field", "emoji,codepoint,score,primary,secondary,arousal\n😀,U+1F600,50,,Cheer,low\n"},
		{"non-numeric score", "😀,U+1F600,abc,Joy,Cheer,low\n"},
		{"score too low", "😀,U+1F600,0,Joy,Cheer,low\n"},
		{"score too high", "😀,U+1F600,101,Joy,Cheer,low\n"},
		{"unknown arousal", "😀,U+1F600,50,Joy,Cheer,extreme\n"},
		{"missing arousal column", "😀,U+1F600,50,Joy,Cheer\n"},
		{"duplicate codepoint", "😀,U+1F600,50,Joy,Cheer,low\n😁,U+1F600,60,Joy,Grin,low\n"},
		{"duplicate emoji", "😀,U+1F600,50,Joy,Cheer,low\n😀,U+1F601,60,Joy,Grin,low\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog(strings.NewReader(tt.csv), true)
			if err == nil {
				t.Fatal("ParseCatalog succeeded, want error")
			}
			if !errors.Is(err, errors.ErrCatalogLoad) {
				t.Errorf("error code = %v, want CATALOG_LOAD", err)
			}
		})
	}
}

func TestParseCatalog_LenientSkipsBadRows(t *testing.T) {
	csv := "emoji,codepoint,score,primary,secondary,arousal\n" +
		"😀,U+1F600,50,Joy,Cheer,low\n" +
		"😁,U+1F601,abc,Joy,Grin,low\n" + // bad score, skipped
		"😂,U+1F602,90,Excitement,Laughter,high\n"

	c, err := ParseCatalog(strings.NewReader(csv), false)
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.ByCodepoint("U+1F601"); ok {
		t.Error("malformed row survived lenient parse")
	}
}

func TestParseCatalog_Empty(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader(""), true)
	if !errors.Is(err, errors.ErrCatalogLoad) {
		t.Errorf("error = %v, want CATALOG_LOAD", err)
	}

	_, err = ParseCatalog(strings.NewReader("emoji,codepoint,score,primary,secondary,arousal\n"), true)
	if !errors.Is(err, errors.ErrCatalogLoad) {
		t.Errorf("header-only error = %v, want CATALOG_LOAD", err)
	}
}

func TestParseCatalog_ResortsOutOfOrderRows(t *testing.T) {
	csv := "😂,U+1F602,90,Excitement,Laughter,high\n" +
		"😀,U+1F600,50,Joy,Cheer,low\n"

	c, err := ParseCatalog(strings.NewReader(csv), true)
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	all := c.All()
	if all[0].Score != 50 || all[1].Score != 90 {
		t.Errorf("records not re-sorted: scores %d, %d", all[0].Score, all[1].Score)
	}

	// Indexes must point at the re-sorted positions
	rec, ok := c.ByCodepoint("U+1F600")
	if !ok || rec.Score != 50 {
		t.Errorf("ByCodepoint after re-sort = %+v, %v", rec, ok)
	}
}

func TestCatalog_Primaries(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	primaries := c.Primaries()
	seen := make(map[string]bool)
	for _, p := range primaries {
		if seen[p] {
			t.Errorf("duplicate primary %q", p)
		}
		seen[p] = true
	}
	for _, want := range []string{"Disgust", "Anger", "Sadness", "Fear", "Neutral", "Surprise", "Joy", "Love", "Excitement"} {
		if !seen[want] {
			t.Errorf("Primaries() missing %q", want)
		}
	}
}
