package item

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format identifies an export output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatObsidian Format = "obsidian"
	FormatLogseq   Format = "logseq"
	FormatJira     Format = "jira"
)

// Formats lists all supported export formats.
var Formats = []Format{FormatJSON, FormatMarkdown, FormatObsidian, FormatLogseq, FormatJira}

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Ext returns the file extension (with dot) for the format.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatJira:
		return ".csv"
	default:
		return ".md"
	}
}

// ExportRecord represents an item in JSON export format. It is also used
// for parsing export files during import; derived fields are recomputed on
// the way back in.
type ExportRecord struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	ContentChars int            `json:"content_chars"` // IGNORED on import, recomputed
	Category     *string        `json:"category,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	DueDate      *string        `json:"due_date,omitempty"`
	Mood         *MoodSelection `json:"mood,omitempty"`
	CreatedAt    int64          `json:"created_at"`
	UpdatedAt    int64          `json:"updated_at"`
	DeletedAt    *int64         `json:"deleted_at,omitempty"`
}

// ToItem converts an ExportRecord to an Item, recomputing derived fields.
func (r *ExportRecord) ToItem() *Item {
	return &Item{
		ID:           r.ID,
		Type:         r.Type,
		Title:        r.Title,
		Content:      r.Content,
		ContentChars: CountChars(r.Content),
		Category:     r.Category,
		Tags:         r.Tags,
		DueDate:      r.DueDate,
		Mood:         r.Mood,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		DeletedAt:    r.DeletedAt,
	}
}

// ToExportRecord converts an Item to an ExportRecord.
func ToExportRecord(i *Item) *ExportRecord {
	return &ExportRecord{
		ID:           i.ID,
		Type:         i.Type,
		Title:        i.Title,
		Content:      i.Content,
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

// Render produces the export document for items in the given format.
func Render(items []*Item, format Format) (string, error) {
	switch format {
	case FormatJSON:
		records := make([]*ExportRecord, len(items))
		for i, it := range items {
			records[i] = ToExportRecord(it)
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case FormatMarkdown, FormatObsidian, FormatLogseq:
		return renderMarkdown(items, format), nil
	case FormatJira:
		return renderJiraCSV(items), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

// renderMarkdown produces one of the three markdown flavors:
// logseq is title-only bullets, obsidian uses H1 titles, plain markdown H2.
func renderMarkdown(items []*Item, format Format) string {
	var b strings.Builder
	for _, it := range items {
		switch format {
		case FormatLogseq:
			fmt.Fprintf(&b, "- %s\n", it.Title)
		case FormatObsidian:
			fmt.Fprintf(&b, "# %s\n\n%s\n", it.Title, it.Content)
		default:
			fmt.Fprintf(&b, "## %s\n\n%s\n", it.Title, it.Content)
		}
	}
	return b.String()
}

// jiraHeader is the column order Jira's CSV importer expects.
const jiraHeader = "Summary,Type,Status,Priority,Description,Due Date,Labels\n"

// renderJiraCSV maps items onto Jira issue rows. Tasks become Task/"To Do",
// everything else Story/"Open".
func renderJiraCSV(items []*Item) string {
	var b strings.Builder
	b.WriteString(jiraHeader)

	for _, it := range items {
		issueType := "Story"
		status := "Open"
		if it.Type == "Task" {
			issueType = "Task"
			status = "To Do"
		}

		dueDate := ""
		if it.DueDate != nil {
			dueDate = EscapeCSVField(*it.DueDate)
		}
		labels := ""
		if len(it.Tags) > 0 {
			labels = EscapeCSVField(strings.Join(it.Tags, " "))
		}

		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s,%s\n",
			EscapeCSVField(it.Title),
			EscapeCSVField(issueType),
			EscapeCSVField(status),
			EscapeCSVField("Medium"),
			EscapeCSVField(it.Content),
			dueDate,
			labels,
		)
	}

	return b.String()
}

// EscapeCSVField applies the standard quote-doubling rule: wrap the field in
// quotes with internal quotes doubled whenever it contains a comma, quote,
// or newline; otherwise leave it untouched.
func EscapeCSVField(field string) string {
	escaped := strings.ReplaceAll(field, `"`, `""`)
	if strings.ContainsAny(escaped, ",\"\n") {
		return `"` + escaped + `"`
	}
	return escaped
}
