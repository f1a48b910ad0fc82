package item

import (
	"time"
	"unicode/utf8"
)

// Item represents a single tracked entry: a journal entry, task, idea, note,
// or mood check-in.
type Item struct {
	// ID is a ULID that uniquely identifies this item
	ID string `json:"id"`

	// Type is the entry type (one of the configured entry types)
	Type string `json:"type"`

	// Title is the display title; mood entries default to a timestamped one
	Title string `json:"title"`

	// Content is the main text of the item (markdown)
	Content string `json:"content"`

	// ContentChars is the character count (runes, not bytes)
	ContentChars int `json:"content_chars"`

	// Category is an optional grouping label
	Category *string `json:"category,omitempty"`

	// Tags is a list of tags (stored as JSON in DB)
	Tags []string `json:"tags,omitempty"`

	// DueDate is an optional due date for tasks (YYYY-MM-DD)
	DueDate *string `json:"due_date,omitempty"`

	// Mood is the mood selection attached to mood entries (nullable)
	Mood *MoodSelection `json:"mood,omitempty"`

	// CreatedAt is the Unix timestamp when the item was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the item was last updated
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// MoodSelection captures the outcome of the mood picker flow. It is created
// at form-submit time and immutable once attached to an item; it is deleted
// only by deleting the owning item.
type MoodSelection struct {
	// Level is the raw 1-100 mood score
	Level int `json:"level"`

	// Intensity is the raw 1-10 intensity value
	Intensity int `json:"intensity"`

	// Emoji is the chosen glyph
	Emoji string `json:"emoji"`

	// Primary is the emotion family of the chosen catalog record
	Primary string `json:"primary"`

	// Secondary is the finer label of the chosen catalog record
	Secondary string `json:"secondary"`

	// Tertiary is the optional refinement picked from the taxonomy
	Tertiary *string `json:"tertiary"`
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// DefaultMoodTitle builds the fallback title for a mood entry submitted
// without one.
func DefaultMoodTitle(now time.Time) string {
	return "Mood - " + now.Format("2006-01-02 15:04")
}
