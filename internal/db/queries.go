package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/item"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.Error{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// ListFilters narrows List and Purge queries. Nil pointers mean "no filter".
type ListFilters struct {
	Type     *string
	Category *string
	Tag      *string
	Text     *string // substring match against title and content
}

// Insert stores a new item in the database.
func Insert(db *sql.DB, it *item.Item) error {
	tagsJSON, err := tagsToNullString(it.Tags)
	if err != nil {
		return err
	}
	moodJSON, err := moodToNullString(it.Mood)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO items (
			id, type, title, content, content_chars,
			category, tags_json, due_date, mood_json,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = db.Exec(query,
		it.ID, it.Type, it.Title, it.Content, it.ContentChars,
		toNullString(it.Category), tagsJSON, toNullString(it.DueDate), moodJSON,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves an item by its ULID.
// If includeDeleted is false, soft-deleted items are excluded.
func GetByID(db *sql.DB, id string, includeDeleted bool) (*item.Item, error) {
	query := `
		SELECT id, type, title, content, content_chars,
			category, tags_json, due_date, mood_json,
			created_at, updated_at, deleted_at
		FROM items
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return it, nil
}

// UpdateByID updates mutable fields of an existing item.
// Sets updated_at to current timestamp.
// Does NOT change: id, created_at
func UpdateByID(db *sql.DB, it *item.Item) error {
	tagsJSON, err := tagsToNullString(it.Tags)
	if err != nil {
		return err
	}
	moodJSON, err := moodToNullString(it.Mood)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	query := `
		UPDATE items
		SET type = ?, title = ?, content = ?, content_chars = ?,
			category = ?, tags_json = ?, due_date = ?, mood_json = ?,
			updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query,
		it.Type, it.Title, it.Content, it.ContentChars,
		toNullString(it.Category), tagsJSON, toNullString(it.DueDate), moodJSON,
		now, it.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(it.ID)
	}

	it.UpdatedAt = now

	return nil
}

// SoftDelete marks an item as deleted by setting deleted_at.
func SoftDelete(db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE items
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// ListItems retrieves item summaries sorted by updated_at descending.
// Returns the page of summaries plus the total match count for pagination.
func ListItems(db *sql.DB, filters ListFilters, limit, offset int, includeDeleted bool) ([]item.Summary, int, error) {
	where, args := buildWhere(filters, includeDeleted)

	var total int
	countQuery := "SELECT COUNT(*) FROM items" + where
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, type, title, content_chars,
			category, tags_json, due_date, mood_json,
			created_at, updated_at, deleted_at
		FROM items` + where + `
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []item.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		summaries = append(summaries, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// GetLatest returns the most recently updated active item matching filters.
func GetLatest(db *sql.DB, filters ListFilters) (*item.Item, error) {
	where, args := buildWhere(filters, false)

	query := `
		SELECT id, type, title, content, content_chars,
			category, tags_json, due_date, mood_json,
			created_at, updated_at, deleted_at
		FROM items` + where + `
		ORDER BY updated_at DESC, id DESC
		LIMIT 1
	`

	row := db.QueryRow(query, args...)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("latest")
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return it, nil
}

// StreamForExport yields all matching items to fn in updated_at descending
// order, one at a time, so exports never hold the full set in memory.
func StreamForExport(db *sql.DB, filters ListFilters, includeDeleted bool, fn func(*item.Item) error) error {
	where, args := buildWhere(filters, includeDeleted)

	query := `
		SELECT id, type, title, content, content_chars,
			category, tags_json, due_date, mood_json,
			created_at, updated_at, deleted_at
		FROM items` + where + `
		ORDER BY updated_at DESC, id DESC
	`

	rows, err := db.Query(query, args...)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return errors.NewInternal(err)
		}
		if err := fn(it); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// PurgeDeleted permanently removes soft-deleted items.
// If olderThan > 0, only items deleted before that Unix timestamp are removed.
// Returns the number of rows purged.
func PurgeDeleted(db *sql.DB, olderThan int64) (int, error) {
	query := "DELETE FROM items WHERE deleted_at IS NOT NULL"
	var args []any
	if olderThan > 0 {
		query += " AND deleted_at < ?"
		args = append(args, olderThan)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(rowsAffected), nil
}

// buildWhere assembles the WHERE clause and args for List-family queries.
func buildWhere(filters ListFilters, includeDeleted bool) (string, []any) {
	var clauses []string
	var args []any

	if !includeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if filters.Type != nil {
		clauses = append(clauses, "type = ?")
		args = append(args, *filters.Type)
	}
	if filters.Category != nil {
		clauses = append(clauses, "category = ?")
		args = append(args, *filters.Category)
	}
	if filters.Tag != nil {
		// Tags are stored as a JSON string array; match the quoted element.
		clauses = append(clauses, `tags_json LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(string(mustMarshalString(*filters.Tag)))+"%")
	}
	if filters.Text != nil {
		clauses = append(clauses, `(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(*filters.Text) + "%"
		args = append(args, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE wildcards so filter text matches them literally.
// Patterns built with it must carry an ESCAPE '\' clause.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// mustMarshalString JSON-encodes a string. Encoding a string cannot fail.
func mustMarshalString(s string) []byte {
	data, _ := json.Marshal(s)
	return data
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem scans a full item row.
func scanItem(row rowScanner) (*item.Item, error) {
	var (
		it        item.Item
		category  sql.NullString
		tagsJSON  sql.NullString
		dueDate   sql.NullString
		moodJSON  sql.NullString
		deletedAt sql.NullInt64
	)

	err := row.Scan(
		&it.ID, &it.Type, &it.Title, &it.Content, &it.ContentChars,
		&category, &tagsJSON, &dueDate, &moodJSON,
		&it.CreatedAt, &it.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	it.Category = fromNullString(category)
	it.DueDate = fromNullString(dueDate)
	if deletedAt.Valid {
		it.DeletedAt = &deletedAt.Int64
	}

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &it.Tags); err != nil {
			return nil, err
		}
	}
	if moodJSON.Valid && moodJSON.String != "" {
		it.Mood = &item.MoodSelection{}
		if err := json.Unmarshal([]byte(moodJSON.String), it.Mood); err != nil {
			return nil, err
		}
	}

	return &it, nil
}

// scanSummary scans a summary row (no content column).
func scanSummary(row rowScanner) (*item.Summary, error) {
	var (
		s         item.Summary
		category  sql.NullString
		tagsJSON  sql.NullString
		dueDate   sql.NullString
		moodJSON  sql.NullString
		deletedAt sql.NullInt64
	)

	err := row.Scan(
		&s.ID, &s.Type, &s.Title, &s.ContentChars,
		&category, &tagsJSON, &dueDate, &moodJSON,
		&s.CreatedAt, &s.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Category = fromNullString(category)
	s.DueDate = fromNullString(dueDate)
	if deletedAt.Valid {
		s.DeletedAt = &deletedAt.Int64
	}

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &s.Tags); err != nil {
			return nil, err
		}
	}
	if moodJSON.Valid && moodJSON.String != "" {
		s.Mood = &item.MoodSelection{}
		if err := json.Unmarshal([]byte(moodJSON.String), s.Mood); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// tagsToNullString JSON-encodes tags, NULL when empty.
func tagsToNullString(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// moodToNullString JSON-encodes the mood selection, NULL when absent.
func moodToNullString(mood *item.MoodSelection) (sql.NullString, error) {
	if mood == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(mood)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
