package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var storeToolDef = mcp.NewTool("item_store",
	mcp.WithDescription("Create a new item (journal entry, task, idea, note, or mood check-in). Mood items may omit the title; a timestamped one is generated."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Entry type; must be one of the configured entry types (default: Journal, Task, Idea, Note, Mood)")),
	mcp.WithString("title", mcp.Description("Item title; required except for mood items")),
	mcp.WithString("content", mcp.Description("Item body, markdown allowed")),
	mcp.WithString("category", mcp.Description("Optional category label")),
	mcp.WithArray("tags", mcp.Description("Optional tags"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("due_date", mcp.Description("Optional due date, YYYY-MM-DD (tasks)")),
	mcp.WithObject("mood", mcp.Description("Optional mood selection: {level: 1-100, intensity: 1-10, emoji: catalog emoji, tertiary: optional nuance word}")),
)

var fetchToolDef = mcp.NewTool("item_fetch",
	mcp.WithDescription("Fetch a single item by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items (default: false)")),
	mcp.WithBoolean("include_content", mcp.Description("Include the item body (default: true)")),
)

var listToolDef = mcp.NewTool("item_list",
	mcp.WithDescription("List item summaries, newest first, with optional filters and pagination."),
	mcp.WithString("type", mcp.Description("Filter by entry type")),
	mcp.WithString("category", mcp.Description("Filter by category")),
	mcp.WithString("tag", mcp.Description("Filter by tag")),
	mcp.WithString("text", mcp.Description("Free-text substring match over title and content")),
	mcp.WithNumber("limit", mcp.Description("Page size (default: 20, max: 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset (default: 0)")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items (default: false)")),
)

var updateToolDef = mcp.NewTool("item_update",
	mcp.WithDescription("Update fields of an existing item. At least one editable field is required. The mood selection is immutable."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
	mcp.WithString("type", mcp.Description("New entry type")),
	mcp.WithString("title", mcp.Description("New title (must not be empty)")),
	mcp.WithString("content", mcp.Description("New body")),
	mcp.WithString("category", mcp.Description("New category; empty string clears it")),
	mcp.WithArray("tags", mcp.Description("Replacement tag list"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("due_date", mcp.Description("New due date YYYY-MM-DD; empty string clears it")),
)

var deleteToolDef = mcp.NewTool("item_delete",
	mcp.WithDescription("Soft-delete an item. The row survives until item_purge."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID")),
)

var latestToolDef = mcp.NewTool("item_latest",
	mcp.WithDescription("Fetch the most recently updated active item, optionally filtered by type."),
	mcp.WithString("type", mcp.Description("Filter by entry type")),
	mcp.WithBoolean("include_content", mcp.Description("Include the item body (default: false)")),
)

var exportToolDef = mcp.NewTool("item_export",
	mcp.WithDescription("Export items to a file. Formats: json, markdown, obsidian, logseq, jira (CSV). Default path is under ~/.lsq/exports."),
	mcp.WithString("path", mcp.Description("Destination path; extension must match the format")),
	mcp.WithString("format", mcp.Description("Export format (default: json)")),
	mcp.WithString("type", mcp.Description("Filter by entry type")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items (default: false)")),
)

var importToolDef = mcp.NewTool("item_import",
	mcp.WithDescription("Import items from a JSON export file. Modes: error (atomic, default), replace, skip."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source path (.json)")),
	mcp.WithString("mode", mcp.Description("Collision mode: error, replace, or skip (default: error)")),
)

var purgeToolDef = mcp.NewTool("item_purge",
	mcp.WithDescription("Permanently remove soft-deleted items."),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge items deleted more than N days ago")),
)

var moodMatchToolDef = mcp.NewTool("mood_match",
	mcp.WithDescription("Suggest catalog emojis for a mood level (1-100) and intensity (1-10). Intensity selects the arousal band: <=3 low, 4-7 medium, >=8 high."),
	mcp.WithNumber("level", mcp.Required(), mcp.Description("Mood level 1-100 (clamped)")),
	mcp.WithNumber("intensity", mcp.Required(), mcp.Description("Mood intensity 1-10 (clamped)")),
	mcp.WithNumber("limit", mcp.Description("Maximum suggestions (default: configured mood_result_limit)")),
)

var emotionTertiaryToolDef = mcp.NewTool("emotion_tertiary",
	mcp.WithDescription("List nuance words for a primary emotion. Unknown primaries yield an empty list."),
	mcp.WithString("primary", mcp.Required(), mcp.Description("Primary emotion label, case-insensitive")),
	mcp.WithString("locale", mcp.Description("Locale for names: en or nl (default: configured locale)")),
)

var emotionSearchToolDef = mcp.NewTool("emotion_search",
	mcp.WithDescription("Search the emotion taxonomy by name substring across primary, secondary, and tertiary levels."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Case-insensitive substring")),
	mcp.WithString("locale", mcp.Description("Locale for names: en or nl (default: configured locale)")),
)
