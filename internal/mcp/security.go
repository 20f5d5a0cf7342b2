package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AllowedBasePaths contains directories from which files can be accessed.
// If empty, defaults to current working directory.
var AllowedBasePaths []string

// InitAllowedPaths sets the allowed base directories for file access.
func InitAllowedPaths(paths []string) error {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		absPath, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("invalid allowed path %q: %w", p, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return fmt.Errorf("allowed path %q: %w", p, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("allowed path %q is not a directory", p)
		}
		resolved = append(resolved, absPath)
	}
	AllowedBasePaths = resolved
	return nil
}

// LoadAllowedPathsFromEnv reads allowed base directories from the
// SHEETQ_ALLOWED_PATHS environment variable (comma-separated).
func LoadAllowedPathsFromEnv() error {
	env := os.Getenv("SHEETQ_ALLOWED_PATHS")
	if env == "" {
		return nil
	}
	return InitAllowedPaths(strings.Split(env, ","))
}

// ValidateFilePath ensures the path is safe to access.
func ValidateFilePath(requestedPath string) (string, error) {
	if requestedPath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	// Get absolute path
	absPath, err := filepath.Abs(requestedPath)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	// Resolve symlinks to prevent bypass
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", requestedPath)
		}
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	// Determine allowed base paths
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}

	basePaths := AllowedBasePaths
	if len(basePaths) == 0 {
		basePaths = []string{cwd}
	}

	// Check if path is within allowed directories
	for _, base := range basePaths {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		realBase, err := filepath.EvalSymlinks(absBase)
		if err != nil {
			continue
		}
		if strings.HasPrefix(realPath, realBase+string(os.PathSeparator)) || realPath == realBase {
			return realPath, nil
		}
	}

	return "", fmt.Errorf("access denied: path outside allowed directories")
}

// CheckFileSize rejects files larger than maxBytes.
func CheckFileSize(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	if info.Size() > maxBytes {
		return fmt.Errorf("file too large: %d bytes exceeds limit of %d", info.Size(), maxBytes)
	}
	return nil
}
