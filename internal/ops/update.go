package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/db"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/item"
)

// UpdateInput contains parameters for the Update operation.
// The mood selection is immutable once attached and cannot be edited.
type UpdateInput struct {
	ID string

	// Editable fields (nil = don't change). For Category and DueDate an
	// empty string clears the field.
	Type     *string
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
	DueDate  *string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID   string        `json:"id"`
	Item *item.Summary `json:"item"`
}

// Update modifies an existing item.
func Update(database *sql.DB, cfg *config.Config, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	// Validate at least one editable field is provided
	if input.Type == nil && input.Title == nil && input.Content == nil &&
		input.Category == nil && input.Tags == nil && input.DueDate == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	// Fetch existing item (active only)
	it, err := db.GetByID(database, id, false)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if input.Type != nil {
		newType := strings.TrimSpace(*input.Type)
		if !cfg.KnownEntryType(newType) {
			return nil, errors.NewUnknownEntryType(newType, cfg.EntryTypes)
		}
		it.Type = newType
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewInvalidRequest("title must not be empty")
		}
		it.Title = title
	}

	if input.Content != nil {
		it.Content = *input.Content
		it.ContentChars = item.CountChars(*input.Content)
	}

	if input.Category != nil {
		it.Category = cleanOptionalString(input.Category)
	}

	if input.Tags != nil {
		it.Tags = cleanTags(*input.Tags)
	}

	if input.DueDate != nil {
		it.DueDate = cleanOptionalString(input.DueDate)
		if it.DueDate != nil {
			if _, err := time.Parse("2006-01-02", *it.DueDate); err != nil {
				return nil, errors.NewInvalidRequest("due_date must be YYYY-MM-DD")
			}
		}
	}

	// Persist update
	if err := db.UpdateByID(database, it); err != nil {
		return nil, err
	}

	summary := it.ToSummary()
	return &UpdateOutput{
		ID:   it.ID,
		Item: &summary,
	}, nil
}
