package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/emotion"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	catalog  *emotion.Catalog
	matcher  *emotion.Matcher
	taxonomy *emotion.Taxonomy
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, catalog *emotion.Catalog, taxonomy *emotion.Taxonomy) *Handlers {
	return &Handlers{
		db:       db,
		cfg:      cfg,
		catalog:  catalog,
		matcher:  emotion.NewMatcher(catalog),
		taxonomy: taxonomy,
	}
}

// errorResult creates an MCP error result from any error.
// Internal error details are not exposed to avoid leaking paths or SQL text.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		errorObj := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
			"status":  appErr.Status,
		}
		if appErr.Code != errors.ErrInternal && appErr.Details != nil {
			errorObj["details"] = appErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

// MoodRequest is the mood sub-object of a store request.
type MoodRequest struct {
	Level     int     `json:"level"`
	Intensity int     `json:"intensity"`
	Emoji     string  `json:"emoji"`
	Tertiary  *string `json:"tertiary,omitempty"`
}

// StoreRequest is the input schema for the item_store tool.
type StoreRequest struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Content  string       `json:"content"`
	Category *string      `json:"category,omitempty"`
	Tags     []string     `json:"tags,omitempty"`
	DueDate  *string      `json:"due_date,omitempty"`
	Mood     *MoodRequest `json:"mood,omitempty"`
}

// HandleStore handles the item_store tool call.
func (h *Handlers) HandleStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[StoreRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	input := ops.StoreInput{
		Type:     in.Type,
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Tags:     in.Tags,
		DueDate:  in.DueDate,
	}
	if in.Mood != nil {
		input.Mood = &ops.MoodInput{
			Level:     in.Mood.Level,
			Intensity: in.Mood.Intensity,
			Emoji:     in.Mood.Emoji,
			Tertiary:  in.Mood.Tertiary,
		}
	}

	out, err := ops.Store(ctx, h.db, h.cfg, h.catalog, input)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// FetchRequest is the input schema for the item_fetch tool.
type FetchRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
	IncludeContent *bool  `json:"include_content,omitempty"`
}

// HandleFetch handles the item_fetch tool call.
func (h *Handlers) HandleFetch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             in.ID,
		IncludeDeleted: in.IncludeDeleted,
		IncludeContent: in.IncludeContent,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// ListRequest is the input schema for the item_list tool.
type ListRequest struct {
	Type           *string `json:"type,omitempty"`
	Category       *string `json:"category,omitempty"`
	Tag            *string `json:"tag,omitempty"`
	Text           *string `json:"text,omitempty"`
	Limit          int     `json:"limit,omitempty"`
	Offset         int     `json:"offset,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// HandleList handles the item_list tool call.
func (h *Handlers) HandleList(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.List(h.db, ops.ListInput{
		Type:           in.Type,
		Category:       in.Category,
		Tag:            in.Tag,
		Text:           in.Text,
		Limit:          in.Limit,
		Offset:         in.Offset,
		IncludeDeleted: in.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// UpdateRequest is the input schema for the item_update tool.
type UpdateRequest struct {
	ID       string    `json:"id"`
	Type     *string   `json:"type,omitempty"`
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	DueDate  *string   `json:"due_date,omitempty"`
}

// HandleUpdate handles the item_update tool call.
func (h *Handlers) HandleUpdate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Update(h.db, h.cfg, ops.UpdateInput{
		ID:       in.ID,
		Type:     in.Type,
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Tags:     in.Tags,
		DueDate:  in.DueDate,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// DeleteRequest is the input schema for the item_delete tool.
type DeleteRequest struct {
	ID string `json:"id"`
}

// HandleDelete handles the item_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: in.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// LatestRequest is the input schema for the item_latest tool.
type LatestRequest struct {
	Type           *string `json:"type,omitempty"`
	IncludeContent *bool   `json:"include_content,omitempty"`
}

// HandleLatest handles the item_latest tool call.
func (h *Handlers) HandleLatest(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[LatestRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Latest(h.db, ops.LatestInput{
		Type:           in.Type,
		IncludeContent: in.IncludeContent,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// ExportRequest is the input schema for the item_export tool.
type ExportRequest struct {
	Path           string  `json:"path,omitempty"`
	Format         string  `json:"format,omitempty"`
	Type           *string `json:"type,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// HandleExport handles the item_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:           in.Path,
		Format:         in.Format,
		Type:           in.Type,
		IncludeDeleted: in.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// ImportRequest is the input schema for the item_import tool.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// HandleImport handles the item_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
		Path: in.Path,
		Mode: ops.ImportMode(in.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// PurgeRequest is the input schema for the item_purge tool.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// HandlePurge handles the item_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Purge(ctx, h.db, ops.PurgeInput{OlderThanDays: in.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// MoodMatchRequest is the input schema for the mood_match tool.
type MoodMatchRequest struct {
	Level     int `json:"level"`
	Intensity int `json:"intensity"`
	Limit     int `json:"limit,omitempty"`
}

// HandleMoodMatch handles the mood_match tool call.
func (h *Handlers) HandleMoodMatch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[MoodMatchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Match(h.cfg, h.matcher, ops.MatchInput{
		Level:     in.Level,
		Intensity: in.Intensity,
		Limit:     in.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// TertiaryRequest is the input schema for the emotion_tertiary tool.
type TertiaryRequest struct {
	Primary string `json:"primary"`
	Locale  string `json:"locale,omitempty"`
}

// HandleEmotionTertiary handles the emotion_tertiary tool call.
func (h *Handlers) HandleEmotionTertiary(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[TertiaryRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.Tertiary(h.cfg, h.taxonomy, ops.TertiaryInput{
		Primary: in.Primary,
		Locale:  in.Locale,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// EmotionSearchRequest is the input schema for the emotion_search tool.
type EmotionSearchRequest struct {
	Query  string `json:"query"`
	Locale string `json:"locale,omitempty"`
}

// HandleEmotionSearch handles the emotion_search tool call.
func (h *Handlers) HandleEmotionSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := decode[EmotionSearchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.EmotionSearch(h.cfg, h.taxonomy, ops.EmotionSearchInput{
		Query:  in.Query,
		Locale: in.Locale,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}
