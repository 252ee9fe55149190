// Package content loads help articles from files in various formats.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const idPrefix = "article:"

// ArticleID returns a stable article ID for the given absolute path.
// Same path always yields the same ID, so re-loading a file updates the
// same article instead of accumulating duplicates.
func ArticleID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return idPrefix + hex.EncodeToString(hash[:])
}
