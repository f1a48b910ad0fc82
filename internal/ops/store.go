package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/db"
	"github.com/Cnap1/Logseqinvulller/internal/emotion"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/item"
)

// MoodInput is the caller-facing mood selection. Primary and secondary
// labels are resolved from the catalog, never supplied by the caller.
type MoodInput struct {
	Level     int     // 1-100
	Intensity int     // 1-10
	Emoji     string  // must exist in the catalog
	Tertiary  *string // optional nuance word from the taxonomy
}

// StoreInput contains parameters for the Store operation.
type StoreInput struct {
	Type     string // required, must be a configured entry type
	Title    string // required except for Mood items (defaulted)
	Content  string
	Category *string
	Tags     []string
	DueDate  *string // YYYY-MM-DD
	Mood     *MoodInput
}

// StoreOutput contains the result of the Store operation.
type StoreOutput struct {
	ID   string        `json:"id"`
	Item *item.Summary `json:"item"`
}

// Store creates a new item.
func Store(ctx context.Context, database *sql.DB, cfg *config.Config, catalog *emotion.Catalog, input StoreInput) (*StoreOutput, error) {
	input.Type = strings.TrimSpace(input.Type)
	if input.Type == "" {
		return nil, errors.NewInvalidRequest("type is required")
	}
	if !cfg.KnownEntryType(input.Type) {
		return nil, errors.NewUnknownEntryType(input.Type, cfg.EntryTypes)
	}

	now := time.Now()

	// Mood items default their title to a timestamped one
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		if input.Mood == nil {
			return nil, errors.NewInvalidRequest("title is required")
		}
		input.Title = item.DefaultMoodTitle(now)
	}

	input.Category = cleanOptionalString(input.Category)
	input.DueDate = cleanOptionalString(input.DueDate)
	if input.DueDate != nil {
		if _, err := time.Parse("2006-01-02", *input.DueDate); err != nil {
			return nil, errors.NewInvalidRequest("due_date must be YYYY-MM-DD")
		}
	}

	var mood *item.MoodSelection
	if input.Mood != nil {
		var err error
		mood, err = resolveMood(catalog, input.Mood)
		if err != nil {
			return nil, err
		}
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	it := &item.Item{
		ID:           id,
		Type:         input.Type,
		Title:        input.Title,
		Content:      input.Content,
		ContentChars: item.CountChars(input.Content),
		Category:     input.Category,
		Tags:         cleanTags(input.Tags),
		DueDate:      input.DueDate,
		Mood:         mood,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	if err := db.Insert(database, it); err != nil {
		return nil, err
	}

	summary := it.ToSummary()
	return &StoreOutput{
		ID:   id,
		Item: &summary,
	}, nil
}

// resolveMood validates a mood input and fills the primary/secondary labels
// from the catalog record for the chosen emoji.
func resolveMood(catalog *emotion.Catalog, input *MoodInput) (*item.MoodSelection, error) {
	if input.Level < 1 || input.Level > 100 {
		return nil, errors.NewInvalidRequest("mood level must be between 1 and 100")
	}
	if input.Intensity < 1 || input.Intensity > 10 {
		return nil, errors.NewInvalidRequest("mood intensity must be between 1 and 10")
	}

	emoji := strings.TrimSpace(input.Emoji)
	if emoji == "" {
		return nil, errors.NewInvalidRequest("mood emoji is required")
	}
	rec, ok := catalog.ByEmoji(emoji)
	if !ok {
		return nil, errors.NewInvalidRequest("mood emoji is not in the catalog")
	}

	return &item.MoodSelection{
		Level:     input.Level,
		Intensity: input.Intensity,
		Emoji:     rec.Emoji,
		Primary:   rec.Primary,
		Secondary: rec.Secondary,
		Tertiary:  cleanOptionalString(input.Tertiary),
	}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
