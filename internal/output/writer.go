// Package output names and writes per-model response files.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the output directory used when none is configured.
const DefaultDir = "output"

// DefaultSuffix is appended to every output filename.
const DefaultSuffix = ".md"

// Path returns dir/{model}-{promptName}{suffix}. Path separators in the
// model name are replaced so the file always lands directly in dir.
func Path(dir, model, promptName, suffix string) string {
	safeModel := strings.NewReplacer("/", "_", `\`, "_").Replace(model)
	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", safeModel, promptName, suffix))
}

// Write stores text at path, creating the parent directory if needed.
// An existing file is overwritten.
func Write(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
