package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/emotion"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/ops"
	"github.com/Cnap1/Logseqinvulller/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, catalog *emotion.Catalog, taxonomy *emotion.Taxonomy) *cli.App {
	app := &cli.App{
		Name:    "lsq",
		Usage:   "Local note and mood tracker",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db, cfg, catalog),
			fetchCmd(db),
			updateCmd(db, cfg),
			deleteCmd(db),
			listCmd(db),
			latestCmd(db),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			purgeCmd(db),
			moodCmd(cfg, catalog),
			emotionsCmd(cfg, taxonomy),
			serveCmd(db, cfg, catalog, taxonomy),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(db *sql.DB, cfg *config.Config, catalog *emotion.Catalog) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Store a new item (reads content from stdin when piped)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Value: "Note", Usage: "Entry type"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Item title"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Category label"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD)"},
			&cli.IntFlag{Name: "mood-level", Usage: "Mood level (1-100)"},
			&cli.IntFlag{Name: "mood-intensity", Usage: "Mood intensity (1-10)"},
			&cli.StringFlag{Name: "mood-emoji", Usage: "Mood emoji from the catalog"},
			&cli.StringFlag{Name: "mood-tertiary", Usage: "Optional tertiary nuance word"},
		},
		Action: func(c *cli.Context) error {
			input := ops.StoreInput{
				Type:  c.String("type"),
				Title: c.String("title"),
			}

			if stdinHasData() {
				content, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Content = content
			}

			if category := c.String("category"); category != "" {
				input.Category = &category
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}
			if due := c.String("due"); due != "" {
				input.DueDate = &due
			}

			if c.IsSet("mood-emoji") {
				mood := &ops.MoodInput{
					Level:     c.Int("mood-level"),
					Intensity: c.Int("mood-intensity"),
					Emoji:     c.String("mood-emoji"),
				}
				if tertiary := c.String("mood-tertiary"); tertiary != "" {
					mood.Tertiary = &tertiary
				}
				input.Mood = mood
			}

			output, err := ops.Store(c.Context, db, cfg, catalog, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch an item by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted items"},
			&cli.BoolFlag{Name: "no-content", Usage: "Exclude content from output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if c.Bool("no-content") {
				includeContent := false
				input.IncludeContent = &includeContent
			}

			output, err := ops.Fetch(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update an existing item (optionally reads content from stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Usage: "New entry type"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "New category (empty clears)"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags"},
			&cli.StringFlag{Name: "due", Usage: "New due date (empty clears)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{
				ID: c.Args().First(),
			}

			// Read content from stdin if piped
			if stdinHasData() {
				content, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Content = &content
			}

			if c.IsSet("type") {
				typ := c.String("type")
				input.Type = &typ
			}
			if c.IsSet("title") {
				title := c.String("title")
				input.Title = &title
			}
			if c.IsSet("category") {
				category := c.String("category")
				input.Category = &category
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				input.Tags = &tags
			}
			if c.IsSet("due") {
				due := c.String("due")
				input.DueDate = &due
			}

			output, err := ops.Update(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete an item",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List items with optional filters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Usage: "Filter by entry type"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.StringFlag{Name: "tag", Usage: "Filter by tag"},
			&cli.StringFlag{Name: "text", Aliases: []string{"q"}, Usage: "Filter by title/content substring"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted items"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if typ := c.String("type"); typ != "" {
				input.Type = &typ
			}
			if category := c.String("category"); category != "" {
				input.Category = &category
			}
			if tag := c.String("tag"); tag != "" {
				input.Tag = &tag
			}
			if text := c.String("text"); text != "" {
				input.Text = &text
			}

			output, err := ops.List(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: "Get the most recently updated item",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Usage: "Filter by entry type"},
			&cli.BoolFlag{Name: "include-content", Usage: "Include content in output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.LatestInput{}

			if typ := c.String("type"); typ != "" {
				input.Type = &typ
			}
			if c.Bool("include-content") {
				includeContent := true
				input.IncludeContent = &includeContent
			}

			output, err := ops.Latest(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export items to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.lsq/exports/items-<timestamp>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Format: json|markdown|obsidian|logseq|jira"},
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Usage: "Filter by entry type"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted items"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:           c.String("path"),
				Format:         c.String("format"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if typ := c.String("type"); typ != "" {
				input.Type = &typ
			}

			output, err := ops.Export(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import items from a JSON export file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			}

			output, err := ops.Import(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted items",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// moodCmd creates the mood command.
func moodCmd(cfg *config.Config, catalog *emotion.Catalog) *cli.Command {
	return &cli.Command{
		Name:  "mood",
		Usage: "Match emoji for a mood level and intensity",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "level", Aliases: []string{"l"}, Required: true, Usage: "Mood level (1-100)"},
			&cli.IntFlag{Name: "intensity", Aliases: []string{"i"}, Required: true, Usage: "Intensity (1-10)"},
			&cli.IntFlag{Name: "limit", Usage: "Number of options to return"},
		},
		Action: func(c *cli.Context) error {
			matcher := emotion.NewMatcher(catalog)

			output, err := ops.Match(cfg, matcher, ops.MatchInput{
				Level:     c.Int("level"),
				Intensity: c.Int("intensity"),
				Limit:     c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// emotionsCmd creates the emotions command.
func emotionsCmd(cfg *config.Config, taxonomy *emotion.Taxonomy) *cli.Command {
	return &cli.Command{
		Name:  "emotions",
		Usage: "Browse the emotion taxonomy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "primary", Aliases: []string{"p"}, Usage: "List tertiary nuances for a primary emotion"},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Search emotion names by substring"},
			&cli.StringFlag{Name: "locale", Usage: "Locale for labels (default: config locale)"},
		},
		Action: func(c *cli.Context) error {
			locale := c.String("locale")

			if query := c.String("search"); query != "" {
				output, err := ops.EmotionSearch(cfg, taxonomy, ops.EmotionSearchInput{
					Query:  query,
					Locale: locale,
				})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			output, err := ops.Tertiary(cfg, taxonomy, ops.TertiaryInput{
				Primary: c.String("primary"),
				Locale:  locale,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command for the web UI.
func serveCmd(db *sql.DB, cfg *config.Config, catalog *emotion.Catalog, taxonomy *emotion.Taxonomy) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8675, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, catalog, taxonomy, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if appErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
