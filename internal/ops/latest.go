package ops

import (
	"database/sql"

	"github.com/Cnap1/Logseqinvulller/internal/db"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/item"
)

// LatestInput contains parameters for the Latest operation.
type LatestInput struct {
	Type           *string // optional filter by entry type
	IncludeContent *bool   // default: false (summary only)
}

// LatestOutput contains the result of the Latest operation.
type LatestOutput struct {
	Item *LatestItem `json:"item"` // nil if the store is empty
}

// LatestItem contains the latest item with optional content.
type LatestItem struct {
	item.Summary        // embedded summary
	Content      string `json:"content,omitempty"` // only if include_content
}

// Latest retrieves the most recently updated active item.
func Latest(database *sql.DB, input LatestInput) (*LatestOutput, error) {
	filters := db.ListFilters{
		Type: cleanOptionalString(input.Type),
	}

	it, err := db.GetLatest(database, filters)
	if err != nil {
		// An empty store is not an error for Latest
		if errors.Is(err, errors.ErrNotFound) {
			return &LatestOutput{Item: nil}, nil
		}
		return nil, err
	}

	includeContent := false
	if input.IncludeContent != nil {
		includeContent = *input.IncludeContent
	}

	latest := &LatestItem{
		Summary: it.ToSummary(),
	}
	if includeContent {
		latest.Content = it.Content
	}

	return &LatestOutput{Item: latest}, nil
}
