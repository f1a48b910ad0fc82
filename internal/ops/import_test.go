package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

func writeImportFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImport_RoundTrip(t *testing.T) {
	srcDB := setupTestDB(t)
	dstDB := setupTestDB(t)
	catalog := loadTestCatalog(t)
	exportDir := t.TempDir()
	cfg := exportTestConfig(exportDir)
	ctx := context.Background()

	stored, err := Store(ctx, srcDB, cfg, catalog, StoreInput{
		Type:    "Mood",
		Content: "quick check-in",
		Mood:    &MoodInput{Level: 88, Intensity: 9, Emoji: "😄", Tertiary: stringPtr("Hopeful")},
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	path := filepath.Join(exportDir, "roundtrip.json")
	if _, err := Export(ctx, srcDB, cfg, ExportInput{Path: path}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	output, err := Import(ctx, dstDB, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if output.Imported != 1 || output.Skipped != 0 {
		t.Errorf("output = %+v", output)
	}

	fetched, err := Fetch(dstDB, FetchInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Fetch after import failed: %v", err)
	}
	if fetched.Mood == nil || fetched.Mood.Emoji != "😄" {
		t.Errorf("mood not preserved: %+v", fetched.Mood)
	}
	if fetched.Mood.Tertiary == nil || *fetched.Mood.Tertiary != "Hopeful" {
		t.Errorf("tertiary not preserved: %v", fetched.Mood.Tertiary)
	}
	if fetched.ContentChars != len("quick check-in") {
		t.Errorf("ContentChars = %d, want recomputed", fetched.ContentChars)
	}
}

func TestImport_ModeError_AbortsOnCollision(t *testing.T) {
	database := setupTestDB(t)
	catalog := loadTestCatalog(t)
	exportDir := t.TempDir()
	cfg := exportTestConfig(exportDir)
	ctx := context.Background()

	stored, err := Store(ctx, database, cfg, catalog, StoreInput{Type: "Note", Title: "existing"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	content := `[
		{"id": "01NEWITEM00000000000000000", "type": "Note", "title": "fresh", "content": "", "created_at": 1, "updated_at": 1},
		{"id": "` + stored.ID + `", "type": "Note", "title": "dupe", "content": "", "created_at": 1, "updated_at": 1}
	]`
	path := writeImportFile(t, exportDir, "collide.json", content)

	output, err := Import(ctx, database, cfg, ImportInput{Path: path, Mode: ImportModeError})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if output.Imported != 0 {
		t.Errorf("Imported = %d, want 0 (atomic abort)", output.Imported)
	}
	if len(output.Errors) != 1 || output.Errors[0].Code != "ID_COLLISION" {
		t.Errorf("Errors = %+v", output.Errors)
	}

	// Nothing was committed
	if _, err := Fetch(database, FetchInput{ID: "01NEWITEM00000000000000000"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected rollback, got: %v", err)
	}
}

func TestImport_DuplicateIDsInFile(t *testing.T) {
	database := setupTestDB(t)
	exportDir := t.TempDir()
	cfg := exportTestConfig(exportDir)
	ctx := context.Background()

	content := `[
		{"id": "01DUPITEM00000000000000000", "type": "Note", "title": "first", "content": "", "created_at": 1, "updated_at": 1},
		{"id": "01DUPITEM00000000000000000", "type": "Note", "title": "second", "content": "", "created_at": 2, "updated_at": 2}
	]`
	path := writeImportFile(t, exportDir, "dupes.json", content)

	// mode:error aborts without touching the database
	output, err := Import(ctx, database, cfg, ImportInput{Path: path, Mode: ImportModeError})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if output.Imported != 0 {
		t.Errorf("Imported = %d, want 0", output.Imported)
	}
	if len(output.Errors) != 1 || output.Errors[0].Code != "DUPLICATE_ID" {
		t.Errorf("Errors = %+v, want one DUPLICATE_ID", output.Errors)
	}
	if _, err := Fetch(database, FetchInput{ID: "01DUPITEM00000000000000000"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected nothing imported, got: %v", err)
	}

	// mode:skip keeps the first occurrence and reports the repeat
	output, err = Import(ctx, database, cfg, ImportInput{Path: path, Mode: ImportModeSkip})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if output.Imported != 1 || output.Skipped != 1 {
		t.Errorf("output = %+v, want 1 imported and 1 skipped", output)
	}

	fetched, err := Fetch(database, FetchInput{ID: "01DUPITEM00000000000000000"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Title != "first" {
		t.Errorf("Title = %q, want first occurrence kept", fetched.Title)
	}
}

func TestImport_ModeReplace(t *testing.T) {
	database := setupTestDB(t)
	catalog := loadTestCatalog(t)
	exportDir := t.TempDir()
	cfg := exportTestConfig(exportDir)
	ctx := context.Background()

	stored, err := Store(ctx, database, cfg, catalog, StoreInput{Type: "Note", Title: "before"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	content := `[{"id": "` + stored.ID + `", "type": "Note", "title": "after", "content": "replaced", "created_at": 1, "updated_at": 1}]`
	path := writeImportFile(t, exportDir, "replace.json", content)

	output, err := Import(ctx, database, cfg, ImportInput{Path: path, Mode: ImportModeReplace})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if output.Imported != 1 {
		t.Errorf("Imported = %d, want 1", output.Imported)
	}

	fetched, err := Fetch(database, FetchInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Title != "after" {
		t.Errorf("Title = %q, want after", fetched.Title)
	}
}

func TestImport_ModeSkip(t *testing.T) {
	database := setupTestDB(t)
	catalog := loadTestCatalog(t)
	exportDir := t.TempDir()
	cfg := exportTestConfig(exportDir)
	ctx := context.Background()

	stored, err := Store(ctx, database, cfg, catalog, StoreInput{Type: "Note", Title: "keep me"})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	content := `[
		{"id": "` + stored.ID + `", "type": "Note", "title": "overwrite attempt", "content": "", "created_at": 1, "updated_at": 1},
		{"id": "01SKIPNEW0000000000000000X", "type": "Idea", "title": "new one", "content": "", "created_at": 1, "updated_at": 1}
	]`
	path := writeImportFile(t, exportDir, "skip.json", content)

	output, err := Import(ctx, database, cfg, ImportInput{Path: path, Mode: ImportModeSkip})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if output.Imported != 1 || output.Skipped != 1 {
		t.Errorf("output = %+v", output)
	}

	fetched, err := Fetch(database, FetchInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Title != "keep me" {
		t.Errorf("Title = %q, want keep me", fetched.Title)
	}
}

func TestImport_InvalidDocument(t *testing.T) {
	database := setupTestDB(t)
	exportDir := t.TempDir()
	cfg := exportTestConfig(exportDir)

	path := writeImportFile(t, exportDir, "bad.json", `{"not": "an array"}`)

	_, err := Import(context.Background(), database, cfg, ImportInput{Path: path})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

func TestImport_MissingFile(t *testing.T) {
	database := setupTestDB(t)
	exportDir := t.TempDir()
	cfg := exportTestConfig(exportDir)

	_, err := Import(context.Background(), database, cfg, ImportInput{
		Path: filepath.Join(exportDir, "nope.json"),
	})
	if !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got: %v", err)
	}
}

func TestImport_BadMode(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	_, err := Import(context.Background(), database, cfg, ImportInput{Path: "x.json", Mode: "merge"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}
