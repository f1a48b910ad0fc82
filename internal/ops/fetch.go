package ops

import (
	"database/sql"
	"strings"

	"github.com/Cnap1/Logseqinvulller/internal/db"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/item"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
	IncludeContent *bool // default: true (nil means default)
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	item.Item // embedded (copy, not pointer)
}

// Fetch retrieves an item by ID.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	it, err := db.GetByID(database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	output := &FetchOutput{
		Item: *it, // copy, not pointer
	}

	includeContent := true
	if input.IncludeContent != nil {
		includeContent = *input.IncludeContent
	}
	if !includeContent {
		output.Content = ""
	}

	return output, nil
}
