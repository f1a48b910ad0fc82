package ops

import (
	"database/sql"

	"github.com/Cnap1/Logseqinvulller/internal/db"
	"github.com/Cnap1/Logseqinvulller/internal/item"
)

// ListInput contains parameters for the List operation.
// Filters mirror the item browser: type, category, tag, and a free-text
// substring match over title and content.
type ListInput struct {
	Type           *string
	Category       *string
	Tag            *string
	Text           *string
	Limit          int // default: 20, max: 100
	Offset         int // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []item.Summary `json:"items"`
	Pagination Pagination     `json:"pagination"`
	Sort       string         `json:"sort"`
}

// List retrieves item summaries with filters and pagination.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	// Ensure offset is non-negative
	offset := max(input.Offset, 0)

	filters := db.ListFilters{
		Type:     cleanOptionalString(input.Type),
		Category: cleanOptionalString(input.Category),
		Tag:      cleanOptionalString(input.Tag),
		Text:     cleanOptionalString(input.Text),
	}

	summaries, total, err := db.ListItems(database, filters, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if summaries == nil {
		summaries = []item.Summary{}
	}

	// Calculate has_more
	hasMore := offset+len(summaries) < total

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}
