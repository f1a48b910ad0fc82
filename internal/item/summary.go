package item

// Summary represents an item's metadata without the full content.
// Used for browse operations (list, latest) to reduce data transfer.
type Summary struct {
	// ID is a ULID that uniquely identifies this item
	ID string `json:"id"`

	// Type is the entry type
	Type string `json:"type"`

	// Title is the display title
	Title string `json:"title"`

	// ContentChars is the character count (runes, not bytes)
	ContentChars int `json:"content_chars"`

	// Category is an optional grouping label
	Category *string `json:"category,omitempty"`

	// Tags is a list of tags
	Tags []string `json:"tags,omitempty"`

	// DueDate is an optional due date (YYYY-MM-DD)
	DueDate *string `json:"due_date,omitempty"`

	// Mood is the attached mood selection, if any
	Mood *MoodSelection `json:"mood,omitempty"`

	// CreatedAt is the Unix timestamp when the item was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the item was last updated
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ToSummary converts an Item to a Summary by stripping the content.
func (i *Item) ToSummary() Summary {
	return Summary{
		ID:           i.ID,
		Type:         i.Type,
		Title:        i.Title,
		ContentChars: i.ContentChars,
		Category:     i.Category,
		Tags:         i.Tags,
		DueDate:      i.DueDate,
		Mood:         i.Mood,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
		DeletedAt:    i.DeletedAt,
	}
}
