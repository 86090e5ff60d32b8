package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Prompt is one prompt file read fully into memory.
type Prompt struct {
	Path    string
	Name    string // base filename
	Content string
	Digest  string // lowercase hex SHA-256 of Content
}

// Load reads the prompt at path.
func Load(path string) (Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("read prompt: %w", err)
	}
	return Prompt{
		Path:    path,
		Name:    filepath.Base(path),
		Content: string(data),
		Digest:  HashContent(data),
	}, nil
}

// HashContent returns the lowercase hexadecimal SHA-256 digest of data.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
