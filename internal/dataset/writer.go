package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDocument marshals v with two-space indentation and writes it to
// filename under outputDir, creating the directory if needed. It returns the
// written path.
func WriteDocument(outputDir, filename string, v any) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding output: %w", err)
	}
	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
