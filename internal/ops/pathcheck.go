package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // import reads the file
	PathCheckWrite                      // export writes the file
)

// ValidatePath vets an import/export path before any file is touched.
// It rejects traversal sequences, wrong extensions for the chosen format,
// files outside the allowed directories, and symlinks. Files must sit
// directly in an allowed directory: with no intermediate components under
// attacker control, O_NOFOLLOW on the final open closes the remaining
// symlink window.
func ValidatePath(path string, mode PathCheckMode, ext string, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if hasTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if filepath.Ext(cleaned) != ext {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have %s extension", ext))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	unsafeOK := cfg != nil && cfg.AllowUnsafePaths
	if !unsafeOK {
		allowed, err := allowedExportDirs(cfg)
		if err != nil {
			return err
		}
		parent := filepath.Clean(filepath.Dir(absPath))
		match := false
		for _, dir := range allowed {
			if parent == dir {
				match = true
				break
			}
		}
		if !match {
			return errors.NewInvalidRequest(fmt.Sprintf(
				"file must be directly in an allowed directory (no subdirectories); allowed: %v", allowed))
		}
		if pathIsSymlink(parent) {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return errors.NewFileNotFound(path)
		}
	}

	// Symlink targets are refused in every mode, including unsafe mode.
	// O_NOFOLLOW would fail the open anyway; refusing here gives the caller
	// a usable message instead of an opaque syscall error.
	if pathIsSymlink(absPath) {
		return errors.NewInvalidRequest("path must not be a symlink")
	}

	return nil
}

// allowedExportDirs resolves the writable directory allowlist: the default
// exports directory plus any absolute entries from config. Symlinked
// allowlist entries are resolved so comparison happens against real paths.
func allowedExportDirs(cfg *config.Config) ([]string, error) {
	defaultDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}

	dirs := []string{defaultDir}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if pathIsSymlink(abs) {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		out = append(out, filepath.Clean(abs))
	}
	return out, nil
}

// pathIsSymlink reports whether path exists and is a symlink.
func pathIsSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// DefaultExportsDir returns the default exports directory (~/.lsq/exports).
func DefaultExportsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".lsq", "exports"), nil
}

// hasTraversal reports whether any path component is "..". Forward slashes
// are checked on every platform since paths arrive as raw user input.
func hasTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename strips a label down to something safe to embed in a
// generated filename: separators and ".." become dashes, control characters
// are dropped, runs of dashes collapse.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var b strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return "unnamed"
	}
	return s
}
