package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

func TestStore_HappyPath(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	catalog := loadTestCatalog(t)

	input := StoreInput{
		Type:     "Journal",
		Title:    "Monday morning",
		Content:  "Long walk before work.",
		Category: stringPtr("health"),
		Tags:     []string{"walk", "routine"},
	}

	output, err := Store(context.Background(), database, cfg, catalog, input)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if output.ID == "" {
		t.Error("ID should not be empty")
	}
	if len(output.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (ULID)", len(output.ID))
	}
	if output.Item.Title != "Monday morning" {
		t.Errorf("Title = %q, want Monday morning", output.Item.Title)
	}
	if output.Item.ContentChars != len("Long walk before work.") {
		t.Errorf("ContentChars = %d", output.Item.ContentChars)
	}
}

func TestStore_UnknownType(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	catalog := loadTestCatalog(t)

	_, err := Store(context.Background(), database, cfg, catalog, StoreInput{
		Type:  "Recipe",
		Title: "Soup",
	})
	if !errors.Is(err, errors.ErrUnknownEntryType) {
		t.Errorf("expected ErrUnknownEntryType, got: %v", err)
	}
}

func TestStore_MissingTitle(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	catalog := loadTestCatalog(t)

	_, err := Store(context.Background(), database, cfg, catalog, StoreInput{
		Type:    "Note",
		Content: "no title",
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

func TestStore_MoodDefaultsTitle(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	catalog := loadTestCatalog(t)

	output, err := Store(context.Background(), database, cfg, catalog, StoreInput{
		Type: "Mood",
		Mood: &MoodInput{Level: 90, Intensity: 9, Emoji: "😄"},
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if !strings.HasPrefix(output.Item.Title, "Mood - ") {
		t.Errorf("Title = %q, want Mood - <timestamp>", output.Item.Title)
	}
	if output.Item.Mood == nil {
		t.Fatal("expected mood selection")
	}
	if output.Item.Mood.Primary == "" || output.Item.Mood.Secondary == "" {
		t.Errorf("mood labels not resolved: %+v", output.Item.Mood)
	}
	if output.Item.Mood.Emoji != "😄" {
		t.Errorf("Emoji = %q, want 😄", output.Item.Mood.Emoji)
	}
}

func TestStore_MoodValidation(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	catalog := loadTestCatalog(t)

	tests := []struct {
		name string
		mood MoodInput
	}{
		{"level too low", MoodInput{Level: 0, Intensity: 5, Emoji: "😄"}},
		{"level too high", MoodInput{Level: 101, Intensity: 5, Emoji: "😄"}},
		{"intensity too low", MoodInput{Level: 50, Intensity: 0, Emoji: "😄"}},
		{"intensity too high", MoodInput{Level: 50, Intensity: 11, Emoji: "😄"}},
		{"missing emoji", MoodInput{Level: 50, Intensity: 5}},
		{"unknown emoji", MoodInput{Level: 50, Intensity: 5, Emoji: "🦄"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Store(context.Background(), database, cfg, catalog, StoreInput{
				Type: "Mood",
				Mood: &tt.mood,
			})
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got: %v", err)
			}
		})
	}
}

func TestStore_BadDueDate(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	catalog := loadTestCatalog(t)

	_, err := Store(context.Background(), database, cfg, catalog, StoreInput{
		Type:    "Task",
		Title:   "Pay rent",
		DueDate: stringPtr("01/09/2026"),
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

func TestStore_TagsCleaned(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()
	catalog := loadTestCatalog(t)

	output, err := Store(context.Background(), database, cfg, catalog, StoreInput{
		Type:  "Idea",
		Title: "Side project",
		Tags:  []string{" go ", "", "cli"},
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if len(output.Item.Tags) != 2 || output.Item.Tags[0] != "go" {
		t.Errorf("Tags = %v, want [go cli]", output.Item.Tags)
	}
}
