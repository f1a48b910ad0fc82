package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/db"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/item"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path           string  // optional, default: ~/.lsq/exports/items-<timestamp><ext>
	Format         string  // json|markdown|obsidian|logseq|jira, default: json
	Type           *string // optional filter by entry type
	IncludeDeleted bool
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export renders items in the requested format and writes them to a file.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	if input.Format == "" {
		input.Format = string(item.FormatJSON)
	}
	format, ok := item.ParseFormat(input.Format)
	if !ok {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("format must be one of: %v", item.Formats))
	}

	// Determine export path
	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(format, cleanOptionalString(input.Type), now)
		if err != nil {
			return nil, err
		}
	}

	// Validate ALL paths (both user-provided and default) for security
	if err := ValidatePath(exportPath, PathCheckWrite, format.Ext(), cfg); err != nil {
		return nil, err
	}

	// Ensure parent directory exists
	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Collect matching items newest first
	filters := db.ListFilters{Type: cleanOptionalString(input.Type)}
	var items []*item.Item
	err := db.StreamForExport(database, filters, input.IncludeDeleted, func(it *item.Item) error {
		select {
		case <-ctx.Done():
			return errors.NewInternal(ctx.Err())
		default:
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, err
	}

	rendered, err := item.Render(items, format)
	if err != nil {
		return nil, err
	}

	// Write to temp file first, then atomic rename to preserve existing file on failure
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	// Clean up temp file on failure (original file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.WriteString(rendered); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Ensure file is written
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// Check if destination is a symlink (os.Rename would follow it)
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// Finalize export by renaming temp file into place.
	//
	// Note: On Windows, os.Rename fails if the destination exists. We intentionally
	// fail safely (preserving the existing file) instead of doing a non-atomic
	// delete+rename that could lose the original if rename fails.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Format:     string(format),
		Count:      len(items),
		ExportedAt: exportedAt,
	}, nil
}

// defaultExportPath generates the default export path.
// Format: ~/.lsq/exports/items[-<type>]-<timestamp><ext>
func defaultExportPath(format item.Format, typeFilter *string, now time.Time) (string, error) {
	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	base := "items"
	if typeFilter != nil {
		base += "-" + strings.ToLower(SanitizeForFilename(*typeFilter))
	}
	timestamp := now.Format("2006-01-02T150405")
	filename := fmt.Sprintf("%s-%s%s", base, timestamp, format.Ext())
	return filepath.Join(exportsDir, filename), nil
}
