package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory holding the running binary with
// symlinks resolved
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

// ResolveDataFile locates the workbook. Absolute paths are returned as is.
// A relative path is looked up in the working directory first and next to
// the executable second; when neither exists the working-directory path is
// returned so the caller reports the location the operator expects.
func (c *Config) ResolveDataFile() string {
	file := c.Data.File
	if filepath.IsAbs(file) {
		return file
	}

	candidates := []string{}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, file))
	}
	if dir, err := ExecutableDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, file))
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return file
}

// LogFilePath returns the absolute log file path, relative paths resolving
// against the working directory
func (c *Config) LogFilePath() string {
	if filepath.IsAbs(c.Logging.FilePath) {
		return c.Logging.FilePath
	}
	abs, err := filepath.Abs(c.Logging.FilePath)
	if err != nil {
		return c.Logging.FilePath
	}
	return abs
}
