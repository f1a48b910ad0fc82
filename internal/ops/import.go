package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/db"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/item"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on collision
	ImportModeSkip    ImportMode = "skip"    // keep existing on collision
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required, JSON export file
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import loads items from a JSON export file back into the store.
// Only the json export format can be imported; the markdown-family and
// jira formats are one-way.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, item.FormatJSON.Ext(), cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, parseErrors, err := parseExportFile(file)
	if err != nil {
		return nil, err
	}

	// For mode:error, fail on any parse errors
	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{
			Imported: 0,
			Skipped:  0,
			Errors:   parseErrors,
		}, nil
	}

	switch input.Mode {
	case ImportModeError:
		return importModeError(database, records)
	case ImportModeReplace:
		return importModeReplace(database, records, parseErrors)
	case ImportModeSkip:
		return importModeSkip(database, records, parseErrors)
	default:
		return nil, errors.NewInvalidRequest("invalid mode")
	}
}

// parseExportFile parses a JSON export file into item records.
// The document is a JSON array of export records.
func parseExportFile(file io.Reader) ([]item.ExportRecord, []ImportError, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}

	var raw []item.ExportRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("import file is not a JSON array of items: %v", err))
	}

	var records []item.ExportRecord
	var parseErrors []ImportError
	seen := make(map[string]int, len(raw))
	for i, record := range raw {
		if record.ID == "" {
			parseErrors = append(parseErrors, ImportError{
				Index:   i,
				Code:    "INVALID_RECORD",
				Message: "missing id field",
			})
			continue
		}
		if record.Type == "" || record.Title == "" {
			parseErrors = append(parseErrors, ImportError{
				Index:   i,
				ID:      record.ID,
				Code:    "INVALID_RECORD",
				Message: "missing type or title field",
			})
			continue
		}
		// Repeated IDs within one file would otherwise slip past the
		// collision pre-checks, which only consult the database.
		if first, dup := seen[record.ID]; dup {
			parseErrors = append(parseErrors, ImportError{
				Index:   i,
				ID:      record.ID,
				Code:    "DUPLICATE_ID",
				Message: fmt.Sprintf("id already appears at index %d in this file", first),
			})
			continue
		}
		seen[record.ID] = i
		records = append(records, record)
	}

	return records, parseErrors, nil
}

// importModeError imports all records atomically, rolling back on any collision.
func importModeError(database *sql.DB, records []item.ExportRecord) (*ImportOutput, error) {
	tx, err := database.Begin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	imported := 0
	for _, record := range records {
		existing, err := db.GetByID(database, record.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			// Abort on first collision for mode:error
			return &ImportOutput{
				Imported: 0,
				Skipped:  0,
				Errors: []ImportError{{
					ID:      record.ID,
					Code:    "ID_COLLISION",
					Message: fmt.Sprintf("item with id %q already exists", record.ID),
				}},
			}, nil
		}

		if err := insertWithTx(tx, record.ToItem()); err != nil {
			return nil, err
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  0,
		Errors:   []ImportError{},
	}, nil
}

// importModeReplace imports records, overwriting existing rows on collision.
func importModeReplace(database *sql.DB, records []item.ExportRecord, parseErrors []ImportError) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError{}, parseErrors...)

	for _, record := range records {
		it := record.ToItem()
		if err := replaceItem(database, it); err != nil {
			importErrors = append(importErrors, ImportError{
				ID:      it.ID,
				Code:    "INSERT_FAILED",
				Message: fmt.Sprintf("failed to import: %v", err),
			})
			skipped++
			continue
		}
		imported++
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  skipped,
		Errors:   importErrors,
	}, nil
}

// importModeSkip imports records, keeping existing rows on collision.
func importModeSkip(database *sql.DB, records []item.ExportRecord, parseErrors []ImportError) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError{}, parseErrors...)

	for _, record := range records {
		existing, err := db.GetByID(database, record.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			skipped++
			continue
		}

		if err := db.Insert(database, record.ToItem()); err != nil {
			importErrors = append(importErrors, ImportError{
				ID:      record.ID,
				Code:    "INSERT_FAILED",
				Message: fmt.Sprintf("failed to import: %v", err),
			})
			skipped++
			continue
		}
		imported++
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  skipped,
		Errors:   importErrors,
	}, nil
}

// insertWithTx inserts an item within a transaction.
func insertWithTx(tx *sql.Tx, it *item.Item) error {
	return execInsert(tx, it, false)
}

// replaceItem upserts an item by primary key, preserving its record as-is.
func replaceItem(database *sql.DB, it *item.Item) error {
	return execInsert(database, it, true)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// execInsert writes a full item row, optionally replacing an existing one.
// Unlike db.Insert it preserves deleted_at, so round-tripped exports keep
// their soft-delete state.
func execInsert(e execer, it *item.Item, replace bool) error {
	var tagsJSON sql.NullString
	if len(it.Tags) > 0 {
		data, err := json.Marshal(it.Tags)
		if err != nil {
			return errors.NewInternal(err)
		}
		tagsJSON = sql.NullString{String: string(data), Valid: true}
	}
	var moodJSON sql.NullString
	if it.Mood != nil {
		data, err := json.Marshal(it.Mood)
		if err != nil {
			return errors.NewInternal(err)
		}
		moodJSON = sql.NullString{String: string(data), Valid: true}
	}
	var category, dueDate sql.NullString
	if it.Category != nil {
		category = sql.NullString{String: *it.Category, Valid: true}
	}
	if it.DueDate != nil {
		dueDate = sql.NullString{String: *it.DueDate, Valid: true}
	}
	var deletedAt sql.NullInt64
	if it.DeletedAt != nil {
		deletedAt = sql.NullInt64{Int64: *it.DeletedAt, Valid: true}
	}

	verb := "INSERT"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	query := verb + ` INTO items (
			id, type, title, content, content_chars,
			category, tags_json, due_date, mood_json,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := e.Exec(query,
		it.ID, it.Type, it.Title, it.Content, it.ContentChars,
		category, tagsJSON, dueDate, moodJSON,
		it.CreatedAt, it.UpdatedAt, deletedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}
